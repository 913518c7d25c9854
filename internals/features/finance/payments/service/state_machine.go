package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	model "trekmandu_backend/internals/features/finance/payments/model"
)

/* =========================================================
   Payment state machine.

   pending ──confirm/verify──▶ success ──release──▶ released
      │                          │
      ├──decline──▶ declined     └──refund──▶ refunded
      └──refund───▶ refunded

   released / declined / refunded are terminal. Transitions are pure
   functions over the model; callers persist under a row lock so two
   concurrent confirmations cannot both observe pending.
========================================================= */

// Confirm applies the gateway-driven pending → success transition and records
// the gateway confirmation reference. From success/released it returns
// ErrAlreadyConfirmed so duplicate callbacks degrade to a no-op.
func Confirm(p *model.Payment, confirmationRef string, now time.Time) error {
	switch p.PaymentStatus {
	case model.PaymentStatusPending:
		p.PaymentStatus = model.PaymentStatusSuccess
		if p.PaymentConfirmationRef == nil && confirmationRef != "" {
			ref := confirmationRef
			p.PaymentConfirmationRef = &ref
		}
		if p.PaymentTransactionAt == nil {
			t := now
			p.PaymentTransactionAt = &t
		}
		return nil
	case model.PaymentStatusSuccess, model.PaymentStatusReleased:
		return ErrAlreadyConfirmed
	default:
		return fmt.Errorf("%w: payment is %s", ErrInvalidState, p.PaymentStatus)
	}
}

// Verify is the operator-side pending → success transition. The platform fee
// is computed here iff it has not been set before; re-verifying never
// recomputes it.
func Verify(p *model.Payment, operatorID uuid.UUID, now time.Time) error {
	if p.PaymentStatus != model.PaymentStatusPending {
		return fmt.Errorf("%w: payment is not in pending status", ErrInvalidState)
	}
	EnsureFee(p)
	p.PaymentStatus = model.PaymentStatusSuccess
	op := operatorID
	t := now
	p.PaymentVerifiedBy = &op
	p.PaymentVerifiedAt = &t
	if p.PaymentTransactionAt == nil {
		p.PaymentTransactionAt = &t
	}
	return nil
}

// Release moves verified funds to the organizer. Legal from success only.
func Release(p *model.Payment, operatorID uuid.UUID, note string, now time.Time) error {
	if p.PaymentStatus != model.PaymentStatusSuccess {
		return fmt.Errorf("%w: payment must be verified before release", ErrInvalidState)
	}
	// Fee may still be unset when the payment was auto-confirmed by a
	// gateway; settle it before the payout amount is frozen.
	EnsureFee(p)
	p.PaymentStatus = model.PaymentStatusReleased
	op := operatorID
	t := now
	p.PaymentReleasedBy = &op
	p.PaymentReleasedAt = &t
	if note != "" {
		n := note
		p.PaymentReleaseNote = &n
	}
	return nil
}

// Refund is legal from pending or success. Released funds are already paid
// out and can no longer be refunded here.
func Refund(p *model.Payment, operatorID uuid.UUID, now time.Time) error {
	switch p.PaymentStatus {
	case model.PaymentStatusPending, model.PaymentStatusSuccess:
		p.PaymentStatus = model.PaymentStatusRefunded
		t := now
		p.PaymentRefundedAt = &t
		if operatorID != uuid.Nil {
			op := operatorID
			p.PaymentRefundedBy = &op
		}
		return nil
	case model.PaymentStatusReleased:
		return fmt.Errorf("%w: released payment cannot be refunded", ErrInvalidState)
	default:
		return fmt.Errorf("%w: payment is %s", ErrInvalidState, p.PaymentStatus)
	}
}

// Decline marks a pending payment as failed (gateway deny/cancel/expire).
func Decline(p *model.Payment, now time.Time) error {
	if p.PaymentStatus != model.PaymentStatusPending {
		return fmt.Errorf("%w: payment is %s", ErrInvalidState, p.PaymentStatus)
	}
	p.PaymentStatus = model.PaymentStatusDeclined
	return nil
}

/* =========================================================
   Fee arithmetic (integer paisa, half-up rounding)
========================================================= */

// ComputeFee applies the platform fee in basis points to an amount in paisa.
func ComputeFee(amountPaisa, feeBps int64) int64 {
	return (amountPaisa*feeBps + 5_000) / 10_000
}

var platformFeeBps int64 = 500 // 5% default, overridden at bootstrap

// SetPlatformFeeBps is called once at bootstrap with the configured rate.
func SetPlatformFeeBps(bps int64) { platformFeeBps = bps }

// EnsureFee settles fee/net from the configured platform rate when unset.
// A settled fee, including a zero one, is never touched again.
func EnsureFee(p *model.Payment) {
	if p.HasFee() {
		return
	}
	fee := ComputeFee(p.PaymentAmountPaisa, platformFeeBps)
	net := p.PaymentAmountPaisa - fee
	p.PaymentFeePaisa = &fee
	p.PaymentNetPaisa = &net
}
