package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"trekmandu_backend/internals/configs"
)

/* =========================================================
   eSewa (redirect gateway) client.

   Outbound: signed form payload the frontend posts to the gateway.
   Inbound: base64(JSON) callback on the success redirect, which is never
   trusted on its own — every confirmation is cross-checked against the
   gateway's status-query endpoint.
========================================================= */

const (
	EsewaStatusComplete = "COMPLETE"
	EsewaStatusPending  = "PENDING"

	esewaStatusTimeout = 5 * time.Second
)

type EsewaClient struct {
	ProductCode string
	PaymentURL  string
	StatusURL   string
	SuccessURL  string
	FailureURL  string

	Signer Signer
	HTTP   *http.Client
}

// NewEsewaClient builds the client from the loaded configs.
func NewEsewaClient() *EsewaClient {
	return &EsewaClient{
		ProductCode: configs.EsewaProductCode,
		PaymentURL:  configs.EsewaPaymentURL,
		StatusURL:   configs.EsewaStatusURL,
		SuccessURL:  configs.EsewaSuccessURL,
		FailureURL:  configs.EsewaFailureURL,
		Signer:      Signer{SecretKey: configs.EsewaSecretKey},
		HTTP:        &http.Client{Timeout: esewaStatusTimeout},
	}
}

/* ===================== Outbound request ===================== */

// EsewaPaymentRequest is the signed payload the browser submits to the
// gateway's payment form.
type EsewaPaymentRequest struct {
	Amount          string `json:"amount"`
	TaxAmount       string `json:"tax_amount"`
	TotalAmount     string `json:"total_amount"`
	TransactionUUID string `json:"transaction_uuid"`
	ProductCode     string `json:"product_code"`
	ServiceCharge   string `json:"product_service_charge"`
	DeliveryCharge  string `json:"product_delivery_charge"`
	SuccessURL      string `json:"success_url"`
	FailureURL      string `json:"failure_url"`

	SignedFieldNames string `json:"signed_field_names"`
	Signature        string `json:"signature"`

	// correlation for the frontend
	RegistrationID string `json:"registration_id"`
	PaymentURL     string `json:"payment_url"`
}

// InitiatePayment builds the signed outbound payload for a pending payment.
func (e *EsewaClient) InitiatePayment(amountPaisa int64, transactionRef, registrationID string) (*EsewaPaymentRequest, error) {
	if amountPaisa <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidCallback)
	}
	total := FormatPaisa(amountPaisa)

	req := &EsewaPaymentRequest{
		Amount:          total,
		TaxAmount:       "0.00",
		TotalAmount:     total,
		TransactionUUID: transactionRef,
		ProductCode:     e.ProductCode,
		ServiceCharge:   "0.00",
		DeliveryCharge:  "0.00",
		SuccessURL:      e.SuccessURL,
		FailureURL:      e.FailureURL,
		RegistrationID:  registrationID,
		PaymentURL:      e.PaymentURL,
	}

	names := RequiredSignedFields
	req.SignedFieldNames = strings.Join(names, ",")
	req.Signature = e.Signer.Sign(names, map[string]string{
		"total_amount":     req.TotalAmount,
		"transaction_uuid": req.TransactionUUID,
		"product_code":     req.ProductCode,
	})
	return req, nil
}

/* ===================== Inbound callback ===================== */

type EsewaCallback struct {
	TransactionCode  string `json:"transaction_code"`
	Status           string `json:"status"`
	TotalAmount      string `json:"total_amount"`
	TransactionUUID  string `json:"transaction_uuid"`
	ProductCode      string `json:"product_code"`
	SignedFieldNames string `json:"signed_field_names"`
	Signature        string `json:"signature"`
}

// DecodeCallback decodes the base64 blob the gateway appends to the success
// redirect. Every field is required.
func (e *EsewaClient) DecodeCallback(b64 string) (*EsewaCallback, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(b64))
	if err != nil {
		// some gateway SDK versions emit URL-safe base64
		raw, err = base64.URLEncoding.DecodeString(strings.TrimSpace(b64))
		if err != nil {
			return nil, fmt.Errorf("%w: not valid base64", ErrInvalidCallback)
		}
	}

	var cb EsewaCallback
	if err := json.Unmarshal(raw, &cb); err != nil {
		return nil, fmt.Errorf("%w: not valid json", ErrInvalidCallback)
	}

	required := map[string]string{
		"transaction_code":   cb.TransactionCode,
		"status":             cb.Status,
		"total_amount":       cb.TotalAmount,
		"transaction_uuid":   cb.TransactionUUID,
		"product_code":       cb.ProductCode,
		"signed_field_names": cb.SignedFieldNames,
		"signature":          cb.Signature,
	}
	for name, v := range required {
		if strings.TrimSpace(v) == "" {
			return nil, fmt.Errorf("%w: missing field %q", ErrInvalidCallback, name)
		}
	}
	return &cb, nil
}

// VerifyCallbackSignature validates the declared signed-field list and then
// recomputes the signature over it.
func (e *EsewaClient) VerifyCallbackSignature(cb *EsewaCallback) error {
	names := strings.Split(cb.SignedFieldNames, ",")
	if err := ValidateSignedFieldNames(names); err != nil {
		return err
	}
	fields := map[string]string{
		"transaction_code":   cb.TransactionCode,
		"status":             cb.Status,
		"total_amount":       cb.TotalAmount,
		"transaction_uuid":   cb.TransactionUUID,
		"product_code":       cb.ProductCode,
		"signed_field_names": cb.SignedFieldNames,
	}
	return e.Signer.Verify(names, fields, cb.Signature)
}

/* ===================== Status query ===================== */

type EsewaStatusResponse struct {
	ProductCode     string `json:"product_code"`
	TransactionUUID string `json:"transaction_uuid"`
	TotalAmount     string `json:"total_amount"`
	Status          string `json:"status"`
	RefID           string `json:"ref_id"`
}

// VerifyTransaction asks the gateway for the authoritative transaction state.
// Network errors and timeouts surface as ErrGatewayUnavailable so the caller
// can fail closed and let the gateway redeliver.
func (e *EsewaClient) VerifyTransaction(ctx context.Context, transactionRef string, amountPaisa int64) (*EsewaStatusResponse, error) {
	body, _ := json.Marshal(map[string]string{
		"product_code":     e.ProductCode,
		"total_amount":     FormatPaisa(amountPaisa),
		"transaction_uuid": transactionRef,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.StatusURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status query returned %d", ErrGatewayUnavailable, resp.StatusCode)
	}

	var out EsewaStatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: unreadable status response", ErrGatewayUnavailable)
	}
	return &out, nil
}

/* ===================== Money formatting ===================== */

// FormatPaisa renders an amount in paisa as a 2-decimal rupee string, the
// only representation the gateway understands.
func FormatPaisa(p int64) string {
	return decimal.NewFromInt(p).Div(decimal.NewFromInt(100)).StringFixed(2)
}

// ParseRupees converts a gateway 2-decimal rupee string back to paisa.
func ParseRupees(s string) (int64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: bad amount %q", ErrInvalidCallback, s)
	}
	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart(), nil
}
