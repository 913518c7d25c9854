package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strings"
)

/* =========================================================
   Signature verifier (redirect gateway).
   message = "name1=value1,name2=value2,..." in the exact order of the
   signed field names; signature = base64(HMAC-SHA256(message, secret)).
========================================================= */

// RequiredSignedFields is the minimum set the gateway must sign. A callback
// whose signed_field_names omits any of these is rejected before the
// signature is even recomputed (signature-stripping guard).
var RequiredSignedFields = []string{"total_amount", "transaction_uuid", "product_code"}

// knownSignedFields is the universe of fields the gateway may legitimately
// declare as signed.
var knownSignedFields = map[string]bool{
	"total_amount":       true,
	"transaction_uuid":   true,
	"product_code":       true,
	"transaction_code":   true,
	"status":             true,
	"signed_field_names": true,
}

type Signer struct {
	SecretKey string
}

// Sign concatenates name=value pairs in the given order, joined by commas,
// and returns the base64 HMAC-SHA256 digest.
func (s Signer) Sign(fieldNames []string, fields map[string]string) string {
	pairs := make([]string, 0, len(fieldNames))
	for _, name := range fieldNames {
		pairs = append(pairs, name+"="+fields[name])
	}
	mac := hmac.New(sha256.New, []byte(s.SecretKey))
	mac.Write([]byte(strings.Join(pairs, ",")))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// Verify recomputes the signature over the declared fields and compares in
// constant time. Any mismatch is a hard failure.
func (s Signer) Verify(fieldNames []string, fields map[string]string, provided string) error {
	if strings.TrimSpace(provided) == "" {
		return ErrSignatureMismatch
	}
	want := s.Sign(fieldNames, fields)
	if !hmac.Equal([]byte(want), []byte(provided)) {
		return ErrSignatureMismatch
	}
	return nil
}

// ValidateSignedFieldNames checks the gateway-declared signed field list
// before it is used to recompute a signature: every declared field must be
// known, and every required field must be declared. An attacker must not be
// able to choose which fields count as signed.
func ValidateSignedFieldNames(declared []string) error {
	seen := make(map[string]bool, len(declared))
	for _, name := range declared {
		name = strings.TrimSpace(name)
		if name == "" || !knownSignedFields[name] {
			return fmt.Errorf("%w: unexpected signed field %q", ErrInvalidCallback, name)
		}
		seen[name] = true
	}
	for _, required := range RequiredSignedFields {
		if !seen[required] {
			return fmt.Errorf("%w: signed field list is missing %q", ErrInvalidCallback, required)
		}
	}
	return nil
}
