package dto

import (
	"github.com/google/uuid"

	svc "trekmandu_backend/internals/features/bookings/service"
	paymentModel "trekmandu_backend/internals/features/finance/payments/model"
)

/* =========================================================
   DTO: create booking (registration + pending payment + participants)
========================================================= */

type ParticipantRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Gender      string `json:"gender" validate:"required,oneof=male female other"`
	Nationality string `json:"nationality" validate:"required,max=60"`
}

type CreateBookingRequest struct {
	TrekEventID  uuid.UUID            `json:"trek_event_id" validate:"required"`
	UserID       uuid.UUID            `json:"user_id" validate:"required"`
	ContactName  string               `json:"contact_name" validate:"required,max=100"`
	ContactPhone string               `json:"contact_phone" validate:"required,max=30"`
	ContactEmail string               `json:"contact_email" validate:"required,email"`
	Participants []ParticipantRequest `json:"participants" validate:"required,min=1,dive"`

	AmountPaisa int64 `json:"amount_paisa" validate:"required,gt=0"`

	// wire value: ESEWA | CHECKOUT | OTHER
	PaymentMethod string `json:"payment_method" validate:"required"`
}

// ToInput maps the request onto the service input. The method string is
// resolved through the enum mapping table, never switched on inline.
func (r *CreateBookingRequest) ToInput() (svc.CreateBookingInput, error) {
	method, err := paymentModel.ParseMethod(r.PaymentMethod)
	if err != nil {
		return svc.CreateBookingInput{}, err
	}

	participants := make([]svc.ParticipantInput, 0, len(r.Participants))
	for _, p := range r.Participants {
		participants = append(participants, svc.ParticipantInput{
			Name:        p.Name,
			Gender:      p.Gender,
			Nationality: p.Nationality,
		})
	}

	return svc.CreateBookingInput{
		TrekEventID:  r.TrekEventID,
		UserID:       r.UserID,
		ContactName:  r.ContactName,
		ContactPhone: r.ContactPhone,
		ContactEmail: r.ContactEmail,
		Participants: participants,
		AmountPaisa:  r.AmountPaisa,
		Method:       method,
	}, nil
}

type MarkAttendanceRequest struct {
	Attended bool `json:"attended"`
}
