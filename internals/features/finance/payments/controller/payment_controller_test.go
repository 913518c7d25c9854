package controller

import (
	"crypto/sha512"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func notificationSig(orderID, statusCode, grossAmount, serverKey string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}

func TestVerifyNotificationSignature(t *testing.T) {
	const serverKey = "SB-Mid-server-test"

	n := &checkoutNotification{
		OrderID:      "cs-123",
		StatusCode:   "200",
		GrossAmount:  "1000.00",
		SignatureKey: notificationSig("cs-123", "200", "1000.00", serverKey),
	}
	assert.True(t, verifyNotificationSignature(n, serverKey))
}

func TestVerifyNotificationSignatureRejectsTampering(t *testing.T) {
	const serverKey = "SB-Mid-server-test"

	n := &checkoutNotification{
		OrderID:      "cs-123",
		StatusCode:   "200",
		GrossAmount:  "1000.00",
		SignatureKey: notificationSig("cs-123", "200", "1000.00", serverKey),
	}

	n.GrossAmount = "1.00"
	assert.False(t, verifyNotificationSignature(n, serverKey))

	n.GrossAmount = "1000.00"
	n.SignatureKey = ""
	assert.False(t, verifyNotificationSignature(n, serverKey))

	n.SignatureKey = notificationSig("cs-123", "200", "1000.00", "wrong-key")
	assert.False(t, verifyNotificationSignature(n, serverKey))
}
