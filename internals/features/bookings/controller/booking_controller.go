// file: internals/features/bookings/controller/booking_controller.go
package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "trekmandu_backend/internals/features/bookings/dto"
	svc "trekmandu_backend/internals/features/bookings/service"
	paymentModel "trekmandu_backend/internals/features/finance/payments/model"
	paymentSvc "trekmandu_backend/internals/features/finance/payments/service"
	helper "trekmandu_backend/internals/helpers"
)

/* =======================================================================
   Controller
======================================================================= */

type BookingController struct {
	Validator *validator.Validate
	Bookings  *svc.BookingService
	Payments  *paymentSvc.PaymentService
}

func NewBookingController(db *gorm.DB) *BookingController {
	return &BookingController{
		Validator: validator.New(),
		Bookings:  svc.NewBookingService(db),
		Payments:  paymentSvc.NewPaymentService(db),
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, svc.ErrNotFound), errors.Is(err, paymentSvc.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, svc.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, paymentSvc.ErrGatewayUnavailable):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

/* =======================================================================
   Handlers
======================================================================= */

// POST /bookings
// Creates the registration aggregate (registration + pending payment +
// participants) and initiates the chosen gateway in one round trip.
func (h *BookingController) CreateBooking(c *fiber.Ctx) error {
	var req dto.CreateBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(&req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			fields := make(map[string][]string, len(ve))
			for _, fe := range ve {
				fields[fe.Field()] = append(fields[fe.Field()], fe.Tag())
			}
			return helper.JsonValidationError(c, fields)
		}
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	in, err := req.ToInput()
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	agg, err := h.Bookings.CreateBooking(c.UserContext(), in)
	if err != nil {
		return helper.JsonError(c, statusFor(err), err.Error())
	}

	body := fiber.Map{
		"registration": agg.Registration,
		"payment":      agg.Payment,
	}

	switch agg.Payment.PaymentMethod {
	case paymentModel.PaymentMethodEsewa:
		payload, err := h.Payments.Esewa.InitiatePayment(
			agg.Payment.PaymentAmountPaisa,
			agg.Payment.PaymentTransactionRef,
			agg.Registration.RegistrationID.String(),
		)
		if err != nil {
			return helper.JsonError(c, statusFor(err), err.Error())
		}
		body["esewa"] = payload

	case paymentModel.PaymentMethodCheckout:
		sess, err := paymentSvc.CreateCheckoutSession(
			agg.Payment,
			agg.Registration.RegistrationID,
			agg.Registration.RegistrationUserID,
			agg.Registration.RegistrationTrekEventID,
			paymentSvc.CheckoutCustomer{
				Name:  agg.Registration.RegistrationContactName,
				Email: agg.Registration.RegistrationContactEmail,
				Phone: agg.Registration.RegistrationContactPhone,
			},
		)
		if err != nil {
			return helper.JsonError(c, statusFor(err), err.Error())
		}
		if err := h.Payments.AttachCheckoutSession(c.UserContext(), agg.Payment, sess); err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "attach session failed: "+err.Error())
		}
		body["checkout"] = fiber.Map{
			"session_id":  sess.SessionID,
			"session_url": sess.SessionURL,
		}
	}

	return helper.JsonCreated(c, "booking created", body)
}

// GET /bookings/:id
func (h *BookingController) GetRegistration(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}
	reg, err := h.Bookings.GetRegistration(c.UserContext(), id)
	if err != nil {
		return helper.JsonError(c, statusFor(err), err.Error())
	}
	return helper.JsonOK(c, "ok", reg)
}

// POST /participants/:id/attend
func (h *BookingController) MarkAttendance(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}
	var req dto.MarkAttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	pt, err := h.Bookings.MarkAttendance(c.UserContext(), id, req.Attended)
	if err != nil {
		return helper.JsonError(c, statusFor(err), err.Error())
	}
	return helper.JsonUpdated(c, "attendance updated", pt)
}
