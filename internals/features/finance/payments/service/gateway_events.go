package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"gorm.io/datatypes"

	model "trekmandu_backend/internals/features/finance/payments/model"
)

/* =========================================================
   Gateway event audit log. Every inbound callback/webhook is recorded
   before it is acted on, idempotent on provider+external id.
========================================================= */

type GatewayEventInput struct {
	Provider   string
	Type       string
	ExternalID string
	Headers    map[string]string
	Payload    any
	Signature  string
}

// LogGatewayEvent inserts the audit row; a duplicate from a gateway retry is
// swallowed so the caller can proceed to the (idempotent) state transition.
func (s *PaymentService) LogGatewayEvent(ctx context.Context, p *model.Payment, in GatewayEventInput, errMsg string) error {
	headersJSON, _ := json.Marshal(in.Headers)
	payloadJSON, _ := json.Marshal(in.Payload)

	ev := model.PaymentGatewayEvent{
		PaymentGatewayEventProvider:   in.Provider,
		PaymentGatewayEventExternalID: in.ExternalID,
		PaymentGatewayEventHeaders:    datatypes.JSON(headersJSON),
		PaymentGatewayEventPayload:    datatypes.JSON(payloadJSON),
		PaymentGatewayEventStatus:     model.GatewayEventStatusReceived,
	}
	if in.Type != "" {
		t := in.Type
		ev.PaymentGatewayEventType = &t
	}
	if in.Signature != "" {
		sig := in.Signature
		ev.PaymentGatewayEventSignature = &sig
	}
	if errMsg != "" {
		e := errMsg
		ev.PaymentGatewayEventError = &e
	}
	if p != nil {
		id := p.PaymentID
		ev.PaymentGatewayEventPaymentID = &id
	}

	if err := s.DB.WithContext(ctx).Create(&ev).Error; err != nil {
		lc := strings.ToLower(err.Error())
		if strings.Contains(lc, "duplicate") || strings.Contains(lc, "uq_gw_event_provider_extid") {
			return nil
		}
		return err
	}
	return nil
}

// MarkGatewayEvent closes out the most recent audit row for an external id.
func (s *PaymentService) MarkGatewayEvent(ctx context.Context, provider, externalID string, status model.GatewayEventStatus, errMsg string) error {
	var ev model.PaymentGatewayEvent
	q := s.DB.WithContext(ctx).Where(
		"payment_gateway_event_provider = ? AND payment_gateway_event_external_id = ? AND payment_gateway_event_deleted_at IS NULL",
		provider, externalID,
	).Order("payment_gateway_event_created_at DESC").
		Limit(1).
		First(&ev)
	if q.Error != nil {
		return q.Error
	}
	ev.PaymentGatewayEventStatus = status
	if errMsg != "" {
		e := errMsg
		ev.PaymentGatewayEventError = &e
	}
	now := time.Now()
	ev.PaymentGatewayEventProcessedAt = &now
	return s.DB.WithContext(ctx).Save(&ev).Error
}
