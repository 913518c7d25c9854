// file: internals/route/details/public_routes.go
package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	BookingRoute "trekmandu_backend/internals/features/bookings/route"
	EventRoute "trekmandu_backend/internals/features/events/route"
	PaymentRoute "trekmandu_backend/internals/features/finance/payments/route"
)

// PublicRoutes: catalog browsing, booking creation, gateway confirmations.
func PublicRoutes(r fiber.Router, db *gorm.DB) {
	EventRoute.EventRoutes(r, db)
	BookingRoute.BookingRoutes(r, db)
	PaymentRoute.PaymentRoutes(r, db)
}
