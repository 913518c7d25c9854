// file: internals/features/finance/payments/route/payment_routes.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	paymentController "trekmandu_backend/internals/features/finance/payments/controller"
	"trekmandu_backend/internals/middlewares"
)

// PaymentRoutes mounts the public confirmation endpoints and the gateway
// webhook. No auth: callers prove themselves with gateway signatures.
func PaymentRoutes(public fiber.Router, db *gorm.DB) {
	ctl := paymentController.NewPaymentController(db)

	payments := public.Group("/payments")
	payments.Get("/esewa/confirm", middlewares.ConfirmRateLimiter(), ctl.ConfirmEsewa)
	payments.Get("/checkout/confirm", middlewares.ConfirmRateLimiter(), ctl.ConfirmCheckout)
	payments.Post("/checkout/notify", ctl.CheckoutNotification)
}
