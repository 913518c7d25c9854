// file: internals/features/finance/payments/controller/payment_controller.go
package controller

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"trekmandu_backend/internals/configs"
	dto "trekmandu_backend/internals/features/finance/payments/dto"
	model "trekmandu_backend/internals/features/finance/payments/model"
	svc "trekmandu_backend/internals/features/finance/payments/service"
	helper "trekmandu_backend/internals/helpers"
)

/* =======================================================================
   Controller: public confirmation endpoints + gateway webhook
======================================================================= */

type PaymentController struct {
	Payments *svc.PaymentService
}

func NewPaymentController(db *gorm.DB) *PaymentController {
	return &PaymentController{Payments: svc.NewPaymentService(db)}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, svc.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, svc.ErrSignatureMismatch):
		return fiber.StatusUnauthorized
	case errors.Is(err, svc.ErrInvalidCallback):
		return fiber.StatusBadRequest
	case errors.Is(err, svc.ErrGatewayUnavailable):
		return fiber.StatusBadGateway
	case errors.Is(err, svc.ErrInvalidState):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

/* ===================== eSewa ===================== */

// GET /payments/esewa/confirm?data=<base64>
// Success-URL landing for the redirect gateway. The whole callback body is
// audited first, then verified and applied.
func (h *PaymentController) ConfirmEsewa(c *fiber.Ctx) error {
	data := c.Query("data")
	if data == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "missing data parameter")
	}

	evIn := svc.GatewayEventInput{
		Provider:   "esewa",
		Type:       "success_callback",
		ExternalID: data[:min(len(data), 64)],
		Headers:    map[string]string{"user_agent": string(c.Request().Header.UserAgent())},
		Payload:    fiber.Map{"data": data},
	}
	if err := h.Payments.LogGatewayEvent(c.UserContext(), nil, evIn, ""); err != nil {
		log.Printf("[WARN] esewa event log failed: %v", err)
	}

	res, err := h.Payments.ConfirmEsewa(c.UserContext(), data)
	if err != nil {
		_ = h.Payments.MarkGatewayEvent(c.UserContext(), "esewa", evIn.ExternalID, model.GatewayEventStatusFailed, err.Error())
		return helper.JsonError(c, statusFor(err), err.Error())
	}
	_ = h.Payments.MarkGatewayEvent(c.UserContext(), "esewa", evIn.ExternalID, model.GatewayEventStatusProcessed, "")

	return helper.JsonOK(c, "payment confirmed", fiber.Map{
		"payment":      dto.FromModel(res.Payment),
		"registration": res.Registration,
	})
}

/* ===================== Hosted checkout ===================== */

// GET /payments/checkout/confirm?session_id=cs-...
// Called by the frontend when the user lands back from the hosted page.
func (h *PaymentController) ConfirmCheckout(c *fiber.Ctx) error {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "missing session_id parameter")
	}

	res, err := h.Payments.ConfirmCheckout(c.UserContext(), sessionID)
	if err != nil {
		return helper.JsonError(c, statusFor(err), err.Error())
	}
	return helper.JsonOK(c, "payment confirmed", fiber.Map{
		"payment":      dto.FromModel(res.Payment),
		"registration": res.Registration,
	})
}

type checkoutNotification struct {
	OrderID           string `json:"order_id"`
	TransactionID     string `json:"transaction_id"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	SettlementTime    string `json:"settlement_time"`
}

// verifyNotificationSignature checks the provider signature:
// sha512(order_id + status_code + gross_amount + server_key).
func verifyNotificationSignature(n *checkoutNotification, serverKey string) bool {
	sum := sha512.Sum512([]byte(n.OrderID + n.StatusCode + n.GrossAmount + serverKey))
	expected := hex.EncodeToString(sum[:])
	return subtle.ConstantTimeCompare([]byte(expected), []byte(n.SignatureKey)) == 1
}

// POST /payments/checkout/notify
// Server-to-server notification from the hosted gateway. Always answers 200
// once the signature checks out, even for orders we do not know, so the
// gateway stops retrying.
func (h *PaymentController) CheckoutNotification(c *fiber.Ctx) error {
	var n checkoutNotification
	if err := c.BodyParser(&n); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if n.OrderID == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "missing order_id")
	}

	if !verifyNotificationSignature(&n, configs.MidtransServerKey) {
		log.Printf("[ERROR] checkout webhook signature rejected (order=%s)", n.OrderID)
		return helper.JsonError(c, fiber.StatusUnauthorized, svc.ErrSignatureMismatch.Error())
	}

	extID := fmt.Sprintf("%s:%s", n.OrderID, n.TransactionStatus)
	evIn := svc.GatewayEventInput{
		Provider:   "checkout",
		Type:       n.TransactionStatus,
		ExternalID: extID,
		Payload:    n,
		Signature:  n.SignatureKey,
	}
	if err := h.Payments.LogGatewayEvent(c.UserContext(), nil, evIn, ""); err != nil {
		log.Printf("[WARN] checkout event log failed: %v", err)
	}

	st := &svc.SessionStatus{
		SessionID:         n.OrderID,
		TransactionID:     n.TransactionID,
		TransactionStatus: n.TransactionStatus,
		FraudStatus:       n.FraudStatus,
		SettlementTime:    n.SettlementTime,
	}

	p, err := h.Payments.ApplySessionStatus(c.UserContext(), n.OrderID, st)
	if err != nil {
		_ = h.Payments.MarkGatewayEvent(c.UserContext(), "checkout", extID, model.GatewayEventStatusFailed, err.Error())
		if errors.Is(err, svc.ErrNotFound) {
			// not ours (another environment, stale order): acknowledge anyway
			return helper.JsonOK(c, "ignored", fiber.Map{"order_id": n.OrderID})
		}
		return helper.JsonError(c, statusFor(err), err.Error())
	}
	_ = h.Payments.MarkGatewayEvent(c.UserContext(), "checkout", extID, model.GatewayEventStatusProcessed, "")

	return helper.JsonOK(c, "notification processed", dto.FromModel(p))
}
