package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	bookingModel "trekmandu_backend/internals/features/bookings/model"
	model "trekmandu_backend/internals/features/finance/payments/model"
)

/* =========================================================
   Confirmation orchestration. Both gateways funnel into the same
   row-locked confirm transition; the adapters only differ in how the
   external truth is obtained.
========================================================= */

type PaymentService struct {
	DB    *gorm.DB
	Esewa *EsewaClient
}

func NewPaymentService(db *gorm.DB) *PaymentService {
	return &PaymentService{
		DB:    db,
		Esewa: NewEsewaClient(),
	}
}

// ConfirmResult is what the confirmation endpoints hand back to the frontend.
type ConfirmResult struct {
	Payment      *model.Payment             `json:"payment"`
	Registration *bookingModel.Registration `json:"registration"`
}

/* ===================== Lookups ===================== */

func (s *PaymentService) FindPaymentByRef(ctx context.Context, transactionRef string) (*model.Payment, error) {
	var p model.Payment
	err := s.DB.WithContext(ctx).
		First(&p, "payment_transaction_ref = ? AND payment_deleted_at IS NULL", transactionRef).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: payment for transaction %s", ErrNotFound, transactionRef)
		}
		return nil, err
	}
	return &p, nil
}

func (s *PaymentService) loadResult(ctx context.Context, p *model.Payment) (*ConfirmResult, error) {
	var reg bookingModel.Registration
	err := s.DB.WithContext(ctx).
		Preload("Participants").
		First(&reg, "registration_id = ?", p.PaymentRegistrationID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: registration %s", ErrNotFound, p.PaymentRegistrationID)
		}
		return nil, err
	}
	return &ConfirmResult{Payment: p, Registration: &reg}, nil
}

/* ===================== eSewa confirmation ===================== */

// ConfirmEsewa handles the redirect-gateway success callback. The callback is
// decoded, its signed-field list validated, its signature verified, and the
// transaction independently re-checked against the gateway before the state
// machine is touched. Every failure leaves the payment pending.
func (s *PaymentService) ConfirmEsewa(ctx context.Context, b64 string) (*ConfirmResult, error) {
	cb, err := s.Esewa.DecodeCallback(b64)
	if err != nil {
		return nil, err
	}

	if err := s.Esewa.VerifyCallbackSignature(cb); err != nil {
		log.Printf("[ERROR] esewa callback signature rejected (txn=%s): %v", cb.TransactionUUID, err)
		return nil, err
	}

	if cb.Status != EsewaStatusComplete {
		return nil, fmt.Errorf("%w: callback status %q", ErrInvalidCallback, cb.Status)
	}

	p, err := s.FindPaymentByRef(ctx, cb.TransactionUUID)
	if err != nil {
		return nil, err
	}

	// duplicate redirect / gateway retry → idempotent no-op
	if p.IsSettledOrBetter() {
		return s.loadResult(ctx, p)
	}

	cbAmount, err := ParseRupees(cb.TotalAmount)
	if err != nil {
		return nil, err
	}
	if cbAmount != p.PaymentAmountPaisa {
		log.Printf("[ERROR] esewa callback amount mismatch (txn=%s): got %d want %d",
			cb.TransactionUUID, cbAmount, p.PaymentAmountPaisa)
		return nil, fmt.Errorf("%w: amount mismatch", ErrInvalidCallback)
	}

	// Independent out-of-band check. The callback alone is never enough.
	st, err := s.Esewa.VerifyTransaction(ctx, p.PaymentTransactionRef, p.PaymentAmountPaisa)
	if err != nil {
		return nil, err
	}
	if st.Status != EsewaStatusComplete {
		return nil, fmt.Errorf("%w: gateway reports status %q", ErrGatewayUnavailable, st.Status)
	}

	confirmationRef := st.RefID
	if confirmationRef == "" {
		confirmationRef = cb.TransactionCode
	}

	confirmed, err := s.confirmLocked(ctx, p.PaymentTransactionRef, confirmationRef)
	if err != nil {
		return nil, err
	}
	return s.loadResult(ctx, confirmed)
}

/* ===================== Hosted checkout confirmation ===================== */

// AttachCheckoutSession stores the session id as the payment's transaction
// ref (replacing the booking-time placeholder) plus the checkout URL.
func (s *PaymentService) AttachCheckoutSession(ctx context.Context, p *model.Payment, sess *CheckoutSession) error {
	p.PaymentTransactionRef = sess.SessionID
	url := sess.SessionURL
	p.PaymentCheckoutURL = &url
	return s.DB.WithContext(ctx).Save(p).Error
}

// ConfirmCheckout confirms a hosted-checkout payment by session id. Safe to
// call any number of times (user refresh, webhook retry).
func (s *PaymentService) ConfirmCheckout(ctx context.Context, sessionID string) (*ConfirmResult, error) {
	p, err := s.FindPaymentByRef(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	// idempotency guard: already confirmed → return the aggregate unchanged
	if p.IsSettledOrBetter() {
		return s.loadResult(ctx, p)
	}

	st, err := RetrieveSession(sessionID)
	if err != nil {
		return nil, err
	}
	if !st.Complete() || !st.Paid() {
		return nil, fmt.Errorf("%w: session is %q", ErrInvalidCallback, st.TransactionStatus)
	}

	confirmed, err := s.confirmLocked(ctx, sessionID, st.TransactionID)
	if err != nil {
		return nil, err
	}
	return s.loadResult(ctx, confirmed)
}

/* ===================== Webhook-driven transitions ===================== */

// ApplySessionStatus maps a gateway notification onto the state machine.
// Used by the checkout webhook after its own signature check.
func (s *PaymentService) ApplySessionStatus(ctx context.Context, sessionID string, st *SessionStatus) (*model.Payment, error) {
	switch {
	case st.Complete() && st.Paid():
		return s.confirmLocked(ctx, sessionID, st.TransactionID)
	case st.Failed():
		return s.transitionLocked(ctx, sessionID, func(tx *gorm.DB, p *model.Payment, now time.Time) error {
			if err := Decline(p, now); err != nil {
				return err
			}
			return cancelRegistration(tx, p)
		})
	case st.TransactionStatus == "refund" || st.TransactionStatus == "partial_refund":
		return s.transitionLocked(ctx, sessionID, func(tx *gorm.DB, p *model.Payment, now time.Time) error {
			if err := Refund(p, uuid.Nil, now); err != nil {
				return err
			}
			return cancelRegistration(tx, p)
		})
	default:
		// pending / challenge: nothing to apply yet
		return s.FindPaymentByRef(ctx, sessionID)
	}
}

/* ===================== Locked transitions ===================== */

// confirmLocked serializes on the payment row so two concurrent
// confirmations cannot both observe pending. A transition lost to a
// concurrent winner degrades to a no-op.
func (s *PaymentService) confirmLocked(ctx context.Context, transactionRef, confirmationRef string) (*model.Payment, error) {
	var out model.Payment
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p model.Payment
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&p, "payment_transaction_ref = ? AND payment_deleted_at IS NULL", transactionRef).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: payment for transaction %s", ErrNotFound, transactionRef)
			}
			return err
		}

		if err := Confirm(&p, confirmationRef, time.Now()); err != nil {
			if errors.Is(err, ErrAlreadyConfirmed) {
				out = p
				return nil
			}
			return err
		}
		EnsureFee(&p)

		if err := tx.Save(&p).Error; err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *PaymentService) transitionLocked(ctx context.Context, transactionRef string, apply func(*gorm.DB, *model.Payment, time.Time) error) (*model.Payment, error) {
	var out model.Payment
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p model.Payment
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&p, "payment_transaction_ref = ? AND payment_deleted_at IS NULL", transactionRef).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: payment for transaction %s", ErrNotFound, transactionRef)
			}
			return err
		}

		if err := apply(tx, &p, time.Now()); err != nil {
			return err
		}
		if err := tx.Save(&p).Error; err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// cancelRegistration mirrors a failed/refunded payment onto the booking.
func cancelRegistration(tx *gorm.DB, p *model.Payment) error {
	return tx.
		Model(&bookingModel.Registration{}).
		Where("registration_id = ?", p.PaymentRegistrationID).
		Update("registration_status", bookingModel.RegistrationStatusCancelled).Error
}
