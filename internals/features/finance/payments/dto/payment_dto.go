package dto

import (
	"time"

	"github.com/google/uuid"

	model "trekmandu_backend/internals/features/finance/payments/model"
)

/* =========================================================
   Response DTOs. Statuses and methods go out as wire strings
   (PENDING/COMPLETED/..., ESEWA/CHECKOUT/OTHER), never as the
   storage values.
========================================================= */

type PaymentResponse struct {
	PaymentID      uuid.UUID `json:"payment_id"`
	RegistrationID uuid.UUID `json:"registration_id"`

	AmountPaisa int64 `json:"amount_paisa"`
	FeePaisa    int64 `json:"fee_paisa"`
	NetPaisa    int64 `json:"net_paisa"`

	Status string `json:"status"`
	Method string `json:"method"`

	TransactionRef  string  `json:"transaction_ref"`
	ConfirmationRef *string `json:"confirmation_ref,omitempty"`
	CheckoutURL     *string `json:"checkout_url,omitempty"`

	TransactionAt *time.Time `json:"transaction_at,omitempty"`
	VerifiedAt    *time.Time `json:"verified_at,omitempty"`
	ReleasedAt    *time.Time `json:"released_at,omitempty"`
	ReleaseNote   *string    `json:"release_note,omitempty"`
	RefundedAt    *time.Time `json:"refunded_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func FromModel(p *model.Payment) PaymentResponse {
	return PaymentResponse{
		PaymentID:       p.PaymentID,
		RegistrationID:  p.PaymentRegistrationID,
		AmountPaisa:     p.PaymentAmountPaisa,
		FeePaisa:        p.FeePaisa(),
		NetPaisa:        p.NetPaisa(),
		Status:          p.PaymentStatus.Wire(),
		Method:          p.PaymentMethod.Wire(),
		TransactionRef:  p.PaymentTransactionRef,
		ConfirmationRef: p.PaymentConfirmationRef,
		CheckoutURL:     p.PaymentCheckoutURL,
		TransactionAt:   p.PaymentTransactionAt,
		VerifiedAt:      p.PaymentVerifiedAt,
		ReleasedAt:      p.PaymentReleasedAt,
		ReleaseNote:     p.PaymentReleaseNote,
		RefundedAt:      p.PaymentRefundedAt,
		CreatedAt:       p.CreatedAt,
	}
}

func FromModels(ps []model.Payment) []PaymentResponse {
	out := make([]PaymentResponse, 0, len(ps))
	for i := range ps {
		out = append(out, FromModel(&ps[i]))
	}
	return out
}
