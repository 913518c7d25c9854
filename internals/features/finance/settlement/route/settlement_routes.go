// file: internals/features/finance/settlement/route/settlement_routes.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	settlementController "trekmandu_backend/internals/features/finance/settlement/controller"
)

// SettlementRoutes mounts the operator settlement surface. The caller passes
// the already-authenticated admin group.
func SettlementRoutes(admin fiber.Router, db *gorm.DB) {
	ctl := settlementController.NewSettlementController(db)

	payments := admin.Group("/payments")
	payments.Get("/", ctl.ListPayments)
	payments.Get("/stats", ctl.PaymentStats)
	payments.Get("/balances", ctl.OrganizerBalances)
	payments.Get("/export", ctl.ExportCSV)
	payments.Post("/release-bulk", ctl.BulkRelease)
	payments.Post("/:id/verify", ctl.VerifyPayment)
	payments.Post("/:id/release", ctl.ReleasePayment)
	payments.Post("/:id/refund", ctl.RefundPayment)
}
