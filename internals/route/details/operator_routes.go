// file: internals/route/details/operator_routes.go
package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	BookingRoute "trekmandu_backend/internals/features/bookings/route"
	SettlementRoute "trekmandu_backend/internals/features/finance/settlement/route"
)

// OperatorRoutes: settlement dashboard + attendance, behind JWT and the
// operator role gate.
func OperatorRoutes(r fiber.Router, db *gorm.DB) {
	SettlementRoute.SettlementRoutes(r, db)
	BookingRoute.AttendanceRoutes(r, db)
}
