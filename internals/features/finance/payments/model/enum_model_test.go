package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEnumMappings(t *testing.T) {
	require.NoError(t, ValidateEnumMappings())
}

func TestStatusWireRoundTrip(t *testing.T) {
	for _, st := range []PaymentStatus{
		PaymentStatusPending, PaymentStatusSuccess, PaymentStatusReleased,
		PaymentStatusDeclined, PaymentStatusRefunded,
	} {
		wire := st.Wire()
		require.NotEmpty(t, wire, "status %q has no wire value", st)

		back, err := ParseStatus(wire)
		require.NoError(t, err)
		assert.Equal(t, st, back)
	}
}

func TestMethodWireRoundTrip(t *testing.T) {
	for _, m := range []PaymentMethod{PaymentMethodEsewa, PaymentMethodCheckout, PaymentMethodOther} {
		wire := m.Wire()
		require.NotEmpty(t, wire, "method %q has no wire value", m)

		back, err := ParseMethod(wire)
		require.NoError(t, err)
		assert.Equal(t, m, back)
	}
}

func TestParseRejectsUnknownValues(t *testing.T) {
	_, err := ParseStatus("COMPLETE")
	assert.Error(t, err)
	_, err = ParseStatus("pending") // storage value is not a wire value
	assert.Error(t, err)
	_, err = ParseMethod("STRIPE")
	assert.Error(t, err)
}

func TestPaymentStatusHelpers(t *testing.T) {
	p := &Payment{PaymentStatus: PaymentStatusSuccess}
	assert.True(t, p.IsSuccess())
	assert.True(t, p.IsSettledOrBetter())
	assert.False(t, p.IsTerminal())

	p.PaymentStatus = PaymentStatusReleased
	assert.True(t, p.IsSettledOrBetter())
	assert.True(t, p.IsTerminal())

	p.PaymentStatus = PaymentStatusRefunded
	assert.False(t, p.IsSettledOrBetter())
	assert.True(t, p.IsTerminal())

	p.PaymentStatus = PaymentStatusPending
	assert.True(t, p.IsPending())
	assert.False(t, p.IsTerminal())
}
