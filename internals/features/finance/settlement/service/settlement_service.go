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
	dto "trekmandu_backend/internals/features/finance/settlement/dto"

	paymentModel "trekmandu_backend/internals/features/finance/payments/model"
	paymentSvc "trekmandu_backend/internals/features/finance/payments/service"
)

/* =========================================================
   Operator settlement: verify / release / refund, always through the
   shared state machine, always under a row lock.
========================================================= */

type SettlementService struct {
	DB *gorm.DB
}

func NewSettlementService(db *gorm.DB) *SettlementService {
	return &SettlementService{DB: db}
}

// lockedByID loads the payment FOR UPDATE, applies the transition and saves.
func (s *SettlementService) lockedByID(ctx context.Context, paymentID uuid.UUID, apply func(tx *gorm.DB, p *paymentModel.Payment, now time.Time) error) (*paymentModel.Payment, error) {
	var out paymentModel.Payment
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p paymentModel.Payment
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&p, "payment_id = ? AND payment_deleted_at IS NULL", paymentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: payment %s", paymentSvc.ErrNotFound, paymentID)
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

/* ===================== Transitions ===================== */

// VerifyPayment is the operator-side confirmation for payments the gateways
// never settled (bank transfer, counter payment).
func (s *SettlementService) VerifyPayment(ctx context.Context, paymentID, operatorID uuid.UUID) (*paymentModel.Payment, error) {
	return s.lockedByID(ctx, paymentID, func(_ *gorm.DB, p *paymentModel.Payment, now time.Time) error {
		return paymentSvc.Verify(p, operatorID, now)
	})
}

// ReleasePayment freezes fee/net and marks the funds as paid out.
func (s *SettlementService) ReleasePayment(ctx context.Context, paymentID, operatorID uuid.UUID, note string) (*paymentModel.Payment, error) {
	return s.lockedByID(ctx, paymentID, func(_ *gorm.DB, p *paymentModel.Payment, now time.Time) error {
		return paymentSvc.Release(p, operatorID, note, now)
	})
}

// RefundPayment refunds a pending or verified payment and cancels its
// registration in the same transaction.
func (s *SettlementService) RefundPayment(ctx context.Context, paymentID, operatorID uuid.UUID) (*paymentModel.Payment, error) {
	return s.lockedByID(ctx, paymentID, func(tx *gorm.DB, p *paymentModel.Payment, now time.Time) error {
		if err := paymentSvc.Refund(p, operatorID, now); err != nil {
			return err
		}
		return tx.
			Model(&bookingModel.Registration{}).
			Where("registration_id = ?", p.PaymentRegistrationID).
			Update("registration_status", bookingModel.RegistrationStatusCancelled).Error
	})
}

/* ===================== Bulk release ===================== */

// BulkRelease releases each payment independently and reports a per-id
// outcome. A payment that is missing or in the wrong state is recorded in its
// own result row and the batch moves on.
func (s *SettlementService) BulkRelease(ctx context.Context, paymentIDs []uuid.UUID, operatorID uuid.UUID, note string) []dto.BulkReleaseResult {
	results := make([]dto.BulkReleaseResult, 0, len(paymentIDs))
	for _, id := range paymentIDs {
		res := dto.BulkReleaseResult{PaymentID: id}
		if _, err := s.ReleasePayment(ctx, id, operatorID, note); err != nil {
			res.Error = err.Error()
			log.Printf("[WARN] bulk release skipped payment %s: %v", id, err)
		} else {
			res.Released = true
		}
		results = append(results, res)
	}
	return results
}
