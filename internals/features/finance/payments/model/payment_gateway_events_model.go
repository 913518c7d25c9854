package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PaymentGatewayEvent is the audit row written for every inbound callback or
// webhook before it is acted on. Unique on provider+external id so a gateway
// retry cannot create a second row.
type PaymentGatewayEvent struct {
	PaymentGatewayEventID uuid.UUID `gorm:"column:payment_gateway_event_id;type:uuid;default:gen_random_uuid();primaryKey" json:"payment_gateway_event_id"`

	PaymentGatewayEventPaymentID *uuid.UUID `gorm:"column:payment_gateway_event_payment_id;type:uuid;index" json:"payment_gateway_event_payment_id,omitempty"`

	PaymentGatewayEventProvider   string  `gorm:"column:payment_gateway_event_provider;type:varchar(30);not null;uniqueIndex:uq_gw_event_provider_extid,priority:1" json:"payment_gateway_event_provider"`
	PaymentGatewayEventType       *string `gorm:"column:payment_gateway_event_type" json:"payment_gateway_event_type,omitempty"`
	PaymentGatewayEventExternalID string  `gorm:"column:payment_gateway_event_external_id;not null;uniqueIndex:uq_gw_event_provider_extid,priority:2" json:"payment_gateway_event_external_id"`

	PaymentGatewayEventHeaders   datatypes.JSON `gorm:"column:payment_gateway_event_headers;type:jsonb" json:"payment_gateway_event_headers,omitempty"`
	PaymentGatewayEventPayload   datatypes.JSON `gorm:"column:payment_gateway_event_payload;type:jsonb" json:"payment_gateway_event_payload,omitempty"`
	PaymentGatewayEventSignature *string        `gorm:"column:payment_gateway_event_signature" json:"payment_gateway_event_signature,omitempty"`

	PaymentGatewayEventStatus      GatewayEventStatus `gorm:"column:payment_gateway_event_status;type:varchar(20);not null;default:'received'" json:"payment_gateway_event_status"`
	PaymentGatewayEventError       *string            `gorm:"column:payment_gateway_event_error" json:"payment_gateway_event_error,omitempty"`
	PaymentGatewayEventProcessedAt *time.Time         `gorm:"column:payment_gateway_event_processed_at" json:"payment_gateway_event_processed_at,omitempty"`

	CreatedAt time.Time      `gorm:"column:payment_gateway_event_created_at;autoCreateTime" json:"payment_gateway_event_created_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:payment_gateway_event_deleted_at;index" json:"payment_gateway_event_deleted_at,omitempty"`
}

func (PaymentGatewayEvent) TableName() string { return "payment_gateway_events" }
