package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEsewaClient() *EsewaClient {
	return &EsewaClient{
		ProductCode: "EPAYTEST",
		PaymentURL:  "https://gateway.example/form",
		SuccessURL:  "https://app.example/payment/success",
		FailureURL:  "https://app.example/payment/failure",
		Signer:      Signer{SecretKey: "8gBm/:&EnhH.1/q"},
		HTTP:        &http.Client{Timeout: 2 * time.Second},
	}
}

func encodeCallback(t *testing.T, cb EsewaCallback) string {
	t.Helper()
	raw, err := json.Marshal(cb)
	require.NoError(t, err)
	return base64.StdEncoding.EncodeToString(raw)
}

// signedCallback builds a callback whose signature is valid for the client's
// secret, the way the gateway produces it.
func signedCallback(t *testing.T, e *EsewaClient, txn, amount string) EsewaCallback {
	t.Helper()
	cb := EsewaCallback{
		TransactionCode:  "000ABC1",
		Status:           EsewaStatusComplete,
		TotalAmount:      amount,
		TransactionUUID:  txn,
		ProductCode:      e.ProductCode,
		SignedFieldNames: "transaction_code,status,total_amount,transaction_uuid,product_code,signed_field_names",
	}
	names := strings.Split(cb.SignedFieldNames, ",")
	cb.Signature = e.Signer.Sign(names, map[string]string{
		"transaction_code":   cb.TransactionCode,
		"status":             cb.Status,
		"total_amount":       cb.TotalAmount,
		"transaction_uuid":   cb.TransactionUUID,
		"product_code":       cb.ProductCode,
		"signed_field_names": cb.SignedFieldNames,
	})
	return cb
}

/* ===================== Callback decoding ===================== */

func TestDecodeCallbackRoundTrip(t *testing.T) {
	e := testEsewaClient()
	in := signedCallback(t, e, "tx-1", "1000.00")

	cb, err := e.DecodeCallback(encodeCallback(t, in))
	require.NoError(t, err)
	assert.Equal(t, in, *cb)
}

func TestDecodeCallbackAcceptsURLSafeBase64(t *testing.T) {
	e := testEsewaClient()
	in := signedCallback(t, e, "tx-1", "1000.00")
	raw, err := json.Marshal(in)
	require.NoError(t, err)

	cb, err := e.DecodeCallback(base64.URLEncoding.EncodeToString(raw))
	require.NoError(t, err)
	assert.Equal(t, in.TransactionUUID, cb.TransactionUUID)
}

func TestDecodeCallbackRejectsGarbage(t *testing.T) {
	e := testEsewaClient()

	_, err := e.DecodeCallback("%%%not-base64%%%")
	assert.ErrorIs(t, err, ErrInvalidCallback)

	_, err = e.DecodeCallback(base64.StdEncoding.EncodeToString([]byte("not json")))
	assert.ErrorIs(t, err, ErrInvalidCallback)
}

func TestDecodeCallbackRejectsMissingFields(t *testing.T) {
	e := testEsewaClient()
	in := signedCallback(t, e, "tx-1", "1000.00")
	in.Signature = ""

	_, err := e.DecodeCallback(encodeCallback(t, in))
	require.ErrorIs(t, err, ErrInvalidCallback)
	assert.Contains(t, err.Error(), "signature")
}

/* ===================== Callback signature ===================== */

func TestVerifyCallbackSignatureAccepted(t *testing.T) {
	e := testEsewaClient()
	cb := signedCallback(t, e, "tx-1", "1000.00")
	require.NoError(t, e.VerifyCallbackSignature(&cb))
}

func TestVerifyCallbackSignatureRejectsTamperedAmount(t *testing.T) {
	e := testEsewaClient()
	cb := signedCallback(t, e, "tx-1", "1000.00")
	cb.TotalAmount = "1.00"
	assert.ErrorIs(t, e.VerifyCallbackSignature(&cb), ErrSignatureMismatch)
}

func TestVerifyCallbackSignatureRejectsStrippedFieldList(t *testing.T) {
	e := testEsewaClient()
	cb := signedCallback(t, e, "tx-1", "1000.00")

	// attacker declares only one harmless field as signed
	cb.SignedFieldNames = "product_code"
	cb.Signature = e.Signer.Sign([]string{"product_code"}, map[string]string{
		"product_code": cb.ProductCode,
	})
	assert.ErrorIs(t, e.VerifyCallbackSignature(&cb), ErrInvalidCallback)
}

/* ===================== Outbound payload ===================== */

func TestInitiatePaymentSelfVerifies(t *testing.T) {
	e := testEsewaClient()

	req, err := e.InitiatePayment(100_000, "tx-1", "reg-1")
	require.NoError(t, err)
	assert.Equal(t, "1000.00", req.TotalAmount)
	assert.Equal(t, "total_amount,transaction_uuid,product_code", req.SignedFieldNames)

	names := strings.Split(req.SignedFieldNames, ",")
	require.NoError(t, e.Signer.Verify(names, map[string]string{
		"total_amount":     req.TotalAmount,
		"transaction_uuid": req.TransactionUUID,
		"product_code":     req.ProductCode,
	}, req.Signature))
}

func TestInitiatePaymentRejectsNonPositiveAmount(t *testing.T) {
	e := testEsewaClient()
	_, err := e.InitiatePayment(0, "tx-1", "reg-1")
	assert.ErrorIs(t, err, ErrInvalidCallback)
}

/* ===================== Status query ===================== */

func TestVerifyTransactionComplete(t *testing.T) {
	e := testEsewaClient()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "tx-1", body["transaction_uuid"])
		assert.Equal(t, "1000.00", body["total_amount"])

		_ = json.NewEncoder(w).Encode(EsewaStatusResponse{
			ProductCode:     "EPAYTEST",
			TransactionUUID: "tx-1",
			TotalAmount:     "1000.00",
			Status:          EsewaStatusComplete,
			RefID:           "0001AB",
		})
	}))
	defer srv.Close()
	e.StatusURL = srv.URL

	st, err := e.VerifyTransaction(context.Background(), "tx-1", 100_000)
	require.NoError(t, err)
	assert.Equal(t, EsewaStatusComplete, st.Status)
	assert.Equal(t, "0001AB", st.RefID)
}

func TestVerifyTransactionPendingIsReturnedAsIs(t *testing.T) {
	e := testEsewaClient()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(EsewaStatusResponse{Status: EsewaStatusPending})
	}))
	defer srv.Close()
	e.StatusURL = srv.URL

	st, err := e.VerifyTransaction(context.Background(), "tx-1", 100_000)
	require.NoError(t, err)
	assert.Equal(t, EsewaStatusPending, st.Status)
}

func TestVerifyTransactionGatewayErrors(t *testing.T) {
	e := testEsewaClient()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	e.StatusURL = srv.URL

	_, err := e.VerifyTransaction(context.Background(), "tx-1", 100_000)
	assert.ErrorIs(t, err, ErrGatewayUnavailable)

	// connection refused once the server is gone
	srv.Close()
	_, err = e.VerifyTransaction(context.Background(), "tx-1", 100_000)
	assert.ErrorIs(t, err, ErrGatewayUnavailable)
}

/* ===================== Money formatting ===================== */

func TestFormatPaisa(t *testing.T) {
	assert.Equal(t, "1000.00", FormatPaisa(100_000))
	assert.Equal(t, "0.01", FormatPaisa(1))
	assert.Equal(t, "0.00", FormatPaisa(0))
	assert.Equal(t, "12345.67", FormatPaisa(1_234_567))
}

func TestParseRupees(t *testing.T) {
	got, err := ParseRupees("1000.00")
	require.NoError(t, err)
	assert.Equal(t, int64(100_000), got)

	got, err = ParseRupees(" 12.5 ")
	require.NoError(t, err)
	assert.Equal(t, int64(1_250), got)

	_, err = ParseRupees("12,5")
	assert.ErrorIs(t, err, ErrInvalidCallback)
}
