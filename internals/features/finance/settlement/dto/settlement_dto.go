package dto

import (
	"time"

	"github.com/google/uuid"
)

/* =========================================================
   Operator settlement DTOs
========================================================= */

type ReleaseRequest struct {
	Note string `json:"note" validate:"max=500"`
}

type BulkReleaseRequest struct {
	PaymentIDs []uuid.UUID `json:"payment_ids" validate:"required,min=1,max=200"`
	Note       string      `json:"note" validate:"max=500"`
}

// BulkReleaseResult reports each requested payment individually. One bad id
// never poisons the batch.
type BulkReleaseResult struct {
	PaymentID uuid.UUID `json:"payment_id"`
	Released  bool      `json:"released"`
	Error     string    `json:"error,omitempty"`
}

/* ===================== List filters ===================== */

type ListFilter struct {
	Status      string     `query:"status"`       // wire value
	Method      string     `query:"method"`       // wire value
	OrganizerID *uuid.UUID `query:"organizer_id"` //
	Search      string     `query:"q"`            // contact / event / txn ref
	DateFrom    *time.Time `query:"date_from"`
	DateTo      *time.Time `query:"date_to"`
}

/* ===================== Aggregates ===================== */

// PaymentStats is the dashboard headline block. Revenue figures cover captured
// money only (completed + released).
type PaymentStats struct {
	TotalRevenuePaisa int64 `json:"total_revenue_paisa"`
	TotalFeePaisa     int64 `json:"total_fee_paisa"`
	NetRevenuePaisa   int64 `json:"net_revenue_paisa"`

	PendingCount   int64 `json:"pending_count"`
	CompletedCount int64 `json:"completed_count"`
	ReleasedCount  int64 `json:"released_count"`
	DeclinedCount  int64 `json:"declined_count"`
	RefundedCount  int64 `json:"refunded_count"`

	TodayRevenuePaisa   int64 `json:"today_revenue_paisa"`
	AveragePaymentPaisa int64 `json:"average_payment_paisa"`
}

// OrganizerBalance is one row of the settlement rollup: what the platform is
// still holding for the organizer vs what has already been paid out. Amounts
// are net of the platform fee.
type OrganizerBalance struct {
	OrganizerID           uuid.UUID `json:"organizer_id"`
	OrganizerName         string    `json:"organizer_name"`
	OrganizerOrganization string    `json:"organizer_organization"`

	PendingAmountPaisa  int64 `json:"pending_amount_paisa"`
	ReleasedAmountPaisa int64 `json:"released_amount_paisa"`
	TotalBalancePaisa   int64 `json:"total_balance_paisa"`
	PendingPaymentCount int64 `json:"pending_payment_count"`
}
