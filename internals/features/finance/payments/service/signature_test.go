package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignRoundTrip(t *testing.T) {
	s := Signer{SecretKey: "8gBm/:&EnhH.1/q"}

	names := []string{"total_amount", "transaction_uuid", "product_code"}
	fields := map[string]string{
		"total_amount":     "1000.00",
		"transaction_uuid": "tx-123",
		"product_code":     "EPAYTEST",
	}

	sig := s.Sign(names, fields)
	require.NotEmpty(t, sig)
	require.NoError(t, s.Verify(names, fields, sig))
}

func TestVerifyRejectsTamperedValue(t *testing.T) {
	s := Signer{SecretKey: "secret"}

	names := []string{"total_amount", "transaction_uuid", "product_code"}
	fields := map[string]string{
		"total_amount":     "1000.00",
		"transaction_uuid": "tx-123",
		"product_code":     "EPAYTEST",
	}
	sig := s.Sign(names, fields)

	fields["total_amount"] = "1.00"
	err := s.Verify(names, fields, sig)
	assert.ErrorIs(t, err, ErrSignatureMismatch)
}

func TestVerifyRejectsEmptySignature(t *testing.T) {
	s := Signer{SecretKey: "secret"}
	err := s.Verify([]string{"total_amount"}, map[string]string{"total_amount": "1.00"}, "")
	assert.ErrorIs(t, err, ErrSignatureMismatch)
}

func TestVerifyIsOrderSensitive(t *testing.T) {
	s := Signer{SecretKey: "secret"}
	fields := map[string]string{
		"total_amount":     "1000.00",
		"transaction_uuid": "tx-123",
		"product_code":     "EPAYTEST",
	}

	sig := s.Sign([]string{"total_amount", "transaction_uuid", "product_code"}, fields)
	err := s.Verify([]string{"product_code", "transaction_uuid", "total_amount"}, fields, sig)
	assert.ErrorIs(t, err, ErrSignatureMismatch)
}

func TestValidateSignedFieldNames(t *testing.T) {
	cases := []struct {
		name     string
		declared []string
		wantErr  bool
	}{
		{"required only", []string{"total_amount", "transaction_uuid", "product_code"}, false},
		{"full callback set", []string{"transaction_code", "status", "total_amount", "transaction_uuid", "product_code", "signed_field_names"}, false},
		{"missing required field", []string{"total_amount", "product_code"}, true},
		{"stripped to one field", []string{"total_amount"}, true},
		{"unknown field injected", []string{"total_amount", "transaction_uuid", "product_code", "attacker_field"}, true},
		{"empty entry", []string{"total_amount", "", "transaction_uuid", "product_code"}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateSignedFieldNames(tc.declared)
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidCallback))
			} else {
				require.NoError(t, err)
			}
		})
	}
}
