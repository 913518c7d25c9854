package service

import (
	"fmt"

	"github.com/google/uuid"
	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"

	model "trekmandu_backend/internals/features/finance/payments/model"
)

/* =========================================================
   Hosted checkout (midtrans Snap).
   A checkout session is a Snap transaction keyed by a fresh session id;
   that id replaces the payment's placeholder transaction ref so the
   confirmation endpoint can find the payment again.
========================================================= */

var (
	snapClient snap.Client
	coreClient coreapi.Client
)

// InitMidtrans must be called once at bootstrap.
func InitMidtrans(serverKey string, useProduction bool) {
	env := midtrans.Sandbox
	if useProduction {
		env = midtrans.Production
	}
	snapClient.New(serverKey, env)
	coreClient.New(serverKey, env)
}

type CheckoutCustomer struct {
	Name  string
	Email string
	Phone string
}

type CheckoutSession struct {
	SessionID  string
	SessionURL string
}

// CreateCheckoutSession requests a hosted session for a pending payment.
// Metadata carries registration/user/event ids so the session is auditable
// on the gateway side without another lookup.
func CreateCheckoutSession(p *model.Payment, registrationID, userID, eventID uuid.UUID, cust CheckoutCustomer) (*CheckoutSession, error) {
	if p.PaymentAmountPaisa <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidCallback)
	}

	sessionID := "cs-" + uuid.NewString()

	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID: sessionID,
			// gateway wants whole rupees; amounts are stored in paisa
			GrossAmt: p.PaymentAmountPaisa / 100,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: cust.Name,
			Email: cust.Email,
			Phone: cust.Phone,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:       registrationID.String(),
				Price:    p.PaymentAmountPaisa / 100,
				Qty:      1,
				Name:     "Trek booking",
				Category: "trek",
			},
		},
		CustomField1: registrationID.String(),
		CustomField2: userID.String(),
		CustomField3: eventID.String(),
	}

	resp, err := snapClient.CreateTransaction(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	return &CheckoutSession{SessionID: sessionID, SessionURL: resp.RedirectURL}, nil
}

/* ===================== Session retrieval ===================== */

type SessionStatus struct {
	SessionID         string
	TransactionID     string
	TransactionStatus string
	FraudStatus       string
	SettlementTime    string
}

// Complete reports whether the checkout flow finished on the gateway side.
func (s *SessionStatus) Complete() bool {
	switch s.TransactionStatus {
	case "settlement", "capture":
		return true
	default:
		return false
	}
}

// Paid reports whether the funds were actually captured. Capture with a
// fraud challenge is complete but not yet paid.
func (s *SessionStatus) Paid() bool {
	if !s.Complete() {
		return false
	}
	return s.FraudStatus == "" || s.FraudStatus == "accept"
}

// Failed reports a terminal gateway-side failure (deny/cancel/expire).
func (s *SessionStatus) Failed() bool {
	switch s.TransactionStatus {
	case "deny", "cancel", "expire", "failure":
		return true
	default:
		return false
	}
}

// RetrieveSession fetches the authoritative session state by session id.
func RetrieveSession(sessionID string) (*SessionStatus, error) {
	resp, err := coreClient.CheckTransaction(sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	return &SessionStatus{
		SessionID:         sessionID,
		TransactionID:     resp.TransactionID,
		TransactionStatus: resp.TransactionStatus,
		FraudStatus:       resp.FraudStatus,
		SettlementTime:    resp.SettlementTime,
	}, nil
}
