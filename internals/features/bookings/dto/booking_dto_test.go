package dto

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	paymentModel "trekmandu_backend/internals/features/finance/payments/model"
)

func TestToInputMapsWireMethod(t *testing.T) {
	req := CreateBookingRequest{
		TrekEventID:  uuid.New(),
		UserID:       uuid.New(),
		ContactName:  "Pemba Sherpa",
		ContactPhone: "+977-9800000000",
		ContactEmail: "pemba@example.com",
		Participants: []ParticipantRequest{
			{Name: "Pemba Sherpa", Gender: "male", Nationality: "Nepali"},
			{Name: "Mingma Sherpa", Gender: "female", Nationality: "Nepali"},
		},
		AmountPaisa:   200_000,
		PaymentMethod: "ESEWA",
	}

	in, err := req.ToInput()
	require.NoError(t, err)
	assert.Equal(t, paymentModel.PaymentMethodEsewa, in.Method)
	assert.Len(t, in.Participants, 2)
	assert.Equal(t, "Mingma Sherpa", in.Participants[1].Name)
}

func TestToInputRejectsUnknownMethod(t *testing.T) {
	req := CreateBookingRequest{PaymentMethod: "esewa"} // storage value, not wire
	_, err := req.ToInput()
	assert.Error(t, err)

	req.PaymentMethod = "PAYPAL"
	_, err = req.ToInput()
	assert.Error(t, err)
}
