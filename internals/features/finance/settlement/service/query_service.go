package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	dto "trekmandu_backend/internals/features/finance/settlement/dto"
	helper "trekmandu_backend/internals/helpers"

	paymentModel "trekmandu_backend/internals/features/finance/payments/model"
)

/* =========================================================
   Operator dashboard queries: filtered list, stats, balance rollup.
========================================================= */

// Sort keys the dashboard may pass. Anything else falls back to created_at.
var paymentSortWhitelist = map[string]string{
	"created_at":     "payments.payment_created_at",
	"amount":         "payments.payment_amount_paisa",
	"status":         "payments.payment_status",
	"transaction_at": "payments.payment_transaction_at",
}

// Free-text search targets. Organizer columns are reachable because
// baseListQuery always joins organizers.
var searchColumns = []string{
	"r.registration_contact_name",
	"r.registration_contact_email",
	"te.trek_event_title",
	"o.organizer_name",
	"o.organizer_organization",
	"payments.payment_transaction_ref",
}

// searchClause builds the OR chain over searchColumns for one needle.
func searchClause(needle string) (string, []interface{}) {
	like := "%" + needle + "%"
	parts := make([]string, len(searchColumns))
	args := make([]interface{}, len(searchColumns))
	for i, col := range searchColumns {
		parts[i] = col + " ILIKE ?"
		args[i] = like
	}
	return strings.Join(parts, " OR "), args
}

// transactionDateExpr filters by the gateway settlement time, falling back to
// creation for payments that never confirmed.
const transactionDateExpr = "COALESCE(payments.payment_transaction_at, payments.payment_created_at)"

// kathmanduTZ is the business timezone for the "today" stats window.
var kathmanduTZ = func() *time.Location {
	loc, err := time.LoadLocation("Asia/Kathmandu")
	if err != nil {
		log.Printf("[WARN] Asia/Kathmandu tzdata unavailable, stats fall back to UTC: %v", err)
		return time.UTC
	}
	return loc
}()

func (s *SettlementService) baseListQuery(ctx context.Context, f dto.ListFilter) (*gorm.DB, error) {
	q := s.DB.WithContext(ctx).
		Model(&paymentModel.Payment{}).
		Joins("JOIN registrations r ON r.registration_id = payments.payment_registration_id").
		Joins("JOIN trek_events te ON te.trek_event_id = r.registration_trek_event_id").
		Joins("JOIN organizers o ON o.organizer_id = te.trek_event_organizer_id").
		Where("payments.payment_deleted_at IS NULL")

	if f.Status != "" {
		st, err := paymentModel.ParseStatus(f.Status)
		if err != nil {
			return nil, err
		}
		q = q.Where("payments.payment_status = ?", st)
	}
	if f.Method != "" {
		mt, err := paymentModel.ParseMethod(f.Method)
		if err != nil {
			return nil, err
		}
		q = q.Where("payments.payment_method = ?", mt)
	}
	if f.OrganizerID != nil {
		q = q.Where("te.trek_event_organizer_id = ?", *f.OrganizerID)
	}
	if needle := strings.TrimSpace(f.Search); needle != "" {
		cond, args := searchClause(needle)
		q = q.Where(cond, args...)
	}
	if f.DateFrom != nil {
		q = q.Where(transactionDateExpr+" >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		q = q.Where(transactionDateExpr+" < ?", *f.DateTo)
	}
	return q, nil
}

// ListPayments returns one filtered, sorted page plus the unpaged total.
func (s *SettlementService) ListPayments(ctx context.Context, f dto.ListFilter, p helper.Params) ([]paymentModel.Payment, int64, error) {
	q, err := s.baseListQuery(ctx, f)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order, err := p.SafeOrderClause(paymentSortWhitelist, "created_at")
	if err != nil {
		return nil, 0, err
	}
	order = strings.TrimPrefix(order, "ORDER BY ")

	var rows []paymentModel.Payment
	if err := q.Order(order).Limit(p.Limit()).Offset(p.Offset()).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

/* ===================== Stats ===================== */

type statusAgg struct {
	Status paymentModel.PaymentStatus
	Count  int64
	Amount int64
	Fee    int64
	Net    int64
}

// buildStats folds the per-status aggregation rows into the headline block.
// Revenue covers captured money only (success + released). Kept pure so it
// can be exercised without a database.
func buildStats(rows []statusAgg, todayRevenue int64) dto.PaymentStats {
	var out dto.PaymentStats
	out.TodayRevenuePaisa = todayRevenue

	for _, r := range rows {
		switch r.Status {
		case paymentModel.PaymentStatusPending:
			out.PendingCount = r.Count
		case paymentModel.PaymentStatusSuccess:
			out.CompletedCount = r.Count
			out.TotalRevenuePaisa += r.Amount
			out.TotalFeePaisa += r.Fee
			out.NetRevenuePaisa += r.Net
		case paymentModel.PaymentStatusReleased:
			out.ReleasedCount = r.Count
			out.TotalRevenuePaisa += r.Amount
			out.TotalFeePaisa += r.Fee
			out.NetRevenuePaisa += r.Net
		case paymentModel.PaymentStatusDeclined:
			out.DeclinedCount = r.Count
		case paymentModel.PaymentStatusRefunded:
			out.RefundedCount = r.Count
		}
	}

	if captured := out.CompletedCount + out.ReleasedCount; captured > 0 {
		out.AveragePaymentPaisa = out.TotalRevenuePaisa / captured
	}
	return out
}

// PaymentStats aggregates counts and paisa revenue per status, plus revenue
// captured since local midnight.
func (s *SettlementService) PaymentStats(ctx context.Context) (*dto.PaymentStats, error) {
	var rows []statusAgg
	err := s.DB.WithContext(ctx).
		Model(&paymentModel.Payment{}).
		Select(`payment_status AS status,
			COUNT(*) AS count,
			COALESCE(SUM(payment_amount_paisa), 0) AS amount,
			COALESCE(SUM(payment_fee_paisa), 0) AS fee,
			COALESCE(SUM(payment_net_paisa), 0) AS net`).
		Where("payment_deleted_at IS NULL").
		Group("payment_status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	now := time.Now().In(kathmanduTZ)
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, kathmanduTZ)

	var today struct {
		Amount int64
	}
	err = s.DB.WithContext(ctx).
		Model(&paymentModel.Payment{}).
		Select("COALESCE(SUM(payment_amount_paisa), 0) AS amount").
		Where("payment_deleted_at IS NULL").
		Where("payment_status IN ?", []paymentModel.PaymentStatus{
			paymentModel.PaymentStatusSuccess, paymentModel.PaymentStatusReleased,
		}).
		Where("payment_transaction_at >= ?", midnight).
		Scan(&today).Error
	if err != nil {
		return nil, err
	}

	stats := buildStats(rows, today.Amount)
	return &stats, nil
}

/* ===================== Balance rollup ===================== */

// finishBalances fills the derived total per row. Pure, to keep the rollup
// arithmetic testable.
func finishBalances(rows []dto.OrganizerBalance) []dto.OrganizerBalance {
	for i := range rows {
		rows[i].TotalBalancePaisa = rows[i].PendingAmountPaisa + rows[i].ReleasedAmountPaisa
	}
	return rows
}

// OrganizerBalances groups captured money per organizer, reached through
// Payment → Registration → TrekEvent → Organizer. Pending = confirmed but not
// yet paid out, released = already paid out; both net of the platform fee.
func (s *SettlementService) OrganizerBalances(ctx context.Context) ([]dto.OrganizerBalance, error) {
	var rows []dto.OrganizerBalance
	err := s.DB.WithContext(ctx).
		Table("payments").
		Select(fmt.Sprintf(`o.organizer_id,
			o.organizer_name,
			o.organizer_organization,
			COALESCE(SUM(CASE WHEN payments.payment_status = '%[1]s' THEN payments.payment_net_paisa ELSE 0 END), 0) AS pending_amount_paisa,
			COALESCE(SUM(CASE WHEN payments.payment_status = '%[2]s' THEN payments.payment_net_paisa ELSE 0 END), 0) AS released_amount_paisa,
			COALESCE(SUM(CASE WHEN payments.payment_status = '%[1]s' THEN 1 ELSE 0 END), 0) AS pending_payment_count`,
			paymentModel.PaymentStatusSuccess,
			paymentModel.PaymentStatusReleased,
		)).
		Joins("JOIN registrations r ON r.registration_id = payments.payment_registration_id").
		Joins("JOIN trek_events te ON te.trek_event_id = r.registration_trek_event_id").
		Joins("JOIN organizers o ON o.organizer_id = te.trek_event_organizer_id").
		Where("payments.payment_deleted_at IS NULL").
		Group("o.organizer_id, o.organizer_name, o.organizer_organization").
		Order("o.organizer_name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return finishBalances(rows), nil
}
