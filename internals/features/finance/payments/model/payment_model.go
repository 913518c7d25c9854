package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* ===================== Model ===================== */
/* All money columns are int64 paisa (NPR minor units). Decimal strings exist
   only at gateway/CSV boundaries. */

type Payment struct {
	PaymentID uuid.UUID `gorm:"column:payment_id;type:uuid;default:gen_random_uuid();primaryKey" json:"payment_id"`

	// 1:1 with the registration aggregate
	PaymentRegistrationID uuid.UUID `gorm:"column:payment_registration_id;type:uuid;not null;uniqueIndex" json:"payment_registration_id"`

	// Amounts. Fee/net stay NULL until the fee is settled, so a legitimate
	// zero fee is still "set" and is never recomputed on later transitions.
	PaymentAmountPaisa int64  `gorm:"column:payment_amount_paisa;not null;check:payment_amount_paisa > 0" json:"payment_amount_paisa"`
	PaymentFeePaisa    *int64 `gorm:"column:payment_fee_paisa" json:"payment_fee_paisa,omitempty"`
	PaymentNetPaisa    *int64 `gorm:"column:payment_net_paisa" json:"payment_net_paisa,omitempty"`

	// Status & method
	PaymentStatus PaymentStatus `gorm:"column:payment_status;type:payment_status;not null;default:'pending'" json:"payment_status"`
	PaymentMethod PaymentMethod `gorm:"column:payment_method;type:payment_method;not null;default:'other'" json:"payment_method"`

	// Gateway references.
	// TransactionRef is set at creation (internal uuid string) and replaced by
	// the hosted session id once a checkout session exists.
	// ConfirmationRef is issued by the gateway at confirmation and never overwritten.
	PaymentTransactionRef  string  `gorm:"column:payment_transaction_ref;type:varchar(100);not null;uniqueIndex" json:"payment_transaction_ref"`
	PaymentConfirmationRef *string `gorm:"column:payment_confirmation_ref;type:varchar(100)" json:"payment_confirmation_ref,omitempty"`
	PaymentCheckoutURL     *string `gorm:"column:payment_checkout_url" json:"payment_checkout_url,omitempty"`

	// Confirmation timestamp (gateway settlement / manual verification time)
	PaymentTransactionAt *time.Time `gorm:"column:payment_transaction_at" json:"payment_transaction_at,omitempty"`

	// Operator audit trail
	PaymentVerifiedBy  *uuid.UUID `gorm:"column:payment_verified_by;type:uuid" json:"payment_verified_by,omitempty"`
	PaymentVerifiedAt  *time.Time `gorm:"column:payment_verified_at" json:"payment_verified_at,omitempty"`
	PaymentReleasedBy  *uuid.UUID `gorm:"column:payment_released_by;type:uuid" json:"payment_released_by,omitempty"`
	PaymentReleasedAt  *time.Time `gorm:"column:payment_released_at" json:"payment_released_at,omitempty"`
	PaymentReleaseNote *string    `gorm:"column:payment_release_note" json:"payment_release_note,omitempty"`

	PaymentRefundedBy *uuid.UUID `gorm:"column:payment_refunded_by;type:uuid" json:"payment_refunded_by,omitempty"`
	PaymentRefundedAt *time.Time `gorm:"column:payment_refunded_at" json:"payment_refunded_at,omitempty"`

	CreatedAt time.Time      `gorm:"column:payment_created_at;autoCreateTime" json:"payment_created_at"`
	UpdatedAt time.Time      `gorm:"column:payment_updated_at;autoUpdateTime" json:"payment_updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:payment_deleted_at;index" json:"payment_deleted_at,omitempty"`
}

func (Payment) TableName() string { return "payments" }

/* ===================== Helpers ===================== */

func (p *Payment) IsPending() bool  { return p.PaymentStatus == PaymentStatusPending }
func (p *Payment) IsSuccess() bool  { return p.PaymentStatus == PaymentStatusSuccess }
func (p *Payment) IsReleased() bool { return p.PaymentStatus == PaymentStatusReleased }

// IsSettledOrBetter reports whether funds were captured (success or already
// paid out). Refunded/declined payments return false.
func (p *Payment) IsSettledOrBetter() bool {
	return p.PaymentStatus == PaymentStatusSuccess || p.PaymentStatus == PaymentStatusReleased
}

// IsTerminal reports whether no further automatic transition is legal.
func (p *Payment) IsTerminal() bool {
	switch p.PaymentStatus {
	case PaymentStatusReleased, PaymentStatusDeclined, PaymentStatusRefunded:
		return true
	default:
		return false
	}
}

// HasFee reports whether the platform fee has been settled for this payment.
func (p *Payment) HasFee() bool { return p.PaymentFeePaisa != nil }

// FeePaisa returns the settled fee, zero while unset.
func (p *Payment) FeePaisa() int64 {
	if p.PaymentFeePaisa == nil {
		return 0
	}
	return *p.PaymentFeePaisa
}

// NetPaisa returns the settled organizer net, zero while unset.
func (p *Payment) NetPaisa() int64 {
	if p.PaymentNetPaisa == nil {
		return 0
	}
	return *p.PaymentNetPaisa
}
