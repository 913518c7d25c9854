package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	bookingModel "trekmandu_backend/internals/features/bookings/model"
	eventModel "trekmandu_backend/internals/features/events/model"
	paymentModel "trekmandu_backend/internals/features/finance/payments/model"
	userModel "trekmandu_backend/internals/features/users/model"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
)

type BookingService struct {
	DB *gorm.DB
}

func NewBookingService(db *gorm.DB) *BookingService {
	return &BookingService{DB: db}
}

/* =========================================================
   Registration aggregate builder.
   Registration + Payment + Participants are one write unit: a participant
   row without a payment would break the 1:1 invariant every downstream
   consumer assumes, so partial writes must never be observable.
========================================================= */

type ParticipantInput struct {
	Name        string
	Gender      string
	Nationality string
}

type CreateBookingInput struct {
	TrekEventID  uuid.UUID
	UserID       uuid.UUID
	ContactName  string
	ContactPhone string
	ContactEmail string
	Participants []ParticipantInput
	AmountPaisa  int64
	Method       paymentModel.PaymentMethod
}

type BookingAggregate struct {
	Registration *bookingModel.Registration `json:"registration"`
	Payment      *paymentModel.Payment      `json:"payment"`
	TrekEvent    *eventModel.TrekEvent      `json:"trek_event"`
}

func (in *CreateBookingInput) validate() error {
	if len(in.Participants) == 0 {
		return fmt.Errorf("%w: at least one participant is required", ErrValidation)
	}
	if in.AmountPaisa <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	if strings.TrimSpace(in.ContactName) == "" || strings.TrimSpace(in.ContactEmail) == "" {
		return fmt.Errorf("%w: contact name and email are required", ErrValidation)
	}
	for _, pt := range in.Participants {
		if strings.TrimSpace(pt.Name) == "" {
			return fmt.Errorf("%w: participant name is required", ErrValidation)
		}
	}
	return nil
}

// CreateBooking validates the request, then atomically creates the
// registration, its pending payment, and one participant row per traveler.
// The populated aggregate is returned so the gateway adapter can embed the
// identifiers in its outbound request.
func (s *BookingService) CreateBooking(ctx context.Context, in CreateBookingInput) (*BookingAggregate, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var ev eventModel.TrekEvent
	if err := s.DB.WithContext(ctx).
		Preload("Organizer").
		First(&ev, "trek_event_id = ? AND trek_event_deleted_at IS NULL", in.TrekEventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: trek event %s", ErrNotFound, in.TrekEventID)
		}
		return nil, err
	}

	var usr userModel.User
	if err := s.DB.WithContext(ctx).
		First(&usr, "user_id = ? AND user_deleted_at IS NULL", in.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %s", ErrNotFound, in.UserID)
		}
		return nil, err
	}

	agg := &BookingAggregate{TrekEvent: &ev}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reg := &bookingModel.Registration{
			RegistrationID:           uuid.New(),
			RegistrationTrekEventID:  ev.TrekEventID,
			RegistrationUserID:       usr.UserID,
			RegistrationContactName:  strings.TrimSpace(in.ContactName),
			RegistrationContactPhone: strings.TrimSpace(in.ContactPhone),
			RegistrationContactEmail: strings.TrimSpace(in.ContactEmail),
			// booking intent is confirmed up front; only the payment is pending
			RegistrationStatus: bookingModel.RegistrationStatusConfirmed,
		}
		if err := tx.Create(reg).Error; err != nil {
			return err
		}

		pay := &paymentModel.Payment{
			PaymentID:             uuid.New(),
			PaymentRegistrationID: reg.RegistrationID,
			PaymentAmountPaisa:    in.AmountPaisa,
			PaymentStatus:         paymentModel.PaymentStatusPending,
			PaymentMethod:         in.Method,
			PaymentTransactionRef: uuid.NewString(),
		}
		if err := tx.Create(pay).Error; err != nil {
			return err
		}

		participants := make([]bookingModel.Participant, 0, len(in.Participants))
		for _, pt := range in.Participants {
			participants = append(participants, bookingModel.Participant{
				ParticipantID:             uuid.New(),
				ParticipantRegistrationID: reg.RegistrationID,
				ParticipantName:           strings.TrimSpace(pt.Name),
				ParticipantGender:         strings.TrimSpace(pt.Gender),
				ParticipantNationality:    strings.TrimSpace(pt.Nationality),
			})
		}
		if err := tx.Create(&participants).Error; err != nil {
			return err
		}

		reg.Participants = participants
		agg.Registration = reg
		agg.Payment = pay
		return nil
	})
	if err != nil {
		return nil, err
	}
	return agg, nil
}

/* ===================== Attendance ===================== */

// MarkAttendance flips the post-trek attendance marker, the only mutation a
// participant row allows.
func (s *BookingService) MarkAttendance(ctx context.Context, participantID uuid.UUID, attended bool) (*bookingModel.Participant, error) {
	var pt bookingModel.Participant
	if err := s.DB.WithContext(ctx).
		First(&pt, "participant_id = ? AND participant_deleted_at IS NULL", participantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: participant %s", ErrNotFound, participantID)
		}
		return nil, err
	}

	pt.ParticipantAttended = attended
	if attended {
		now := time.Now()
		pt.ParticipantAttendedAt = &now
	} else {
		pt.ParticipantAttendedAt = nil
	}
	if err := s.DB.WithContext(ctx).Save(&pt).Error; err != nil {
		return nil, err
	}
	return &pt, nil
}

/* ===================== Lookups ===================== */

func (s *BookingService) GetRegistration(ctx context.Context, id uuid.UUID) (*bookingModel.Registration, error) {
	var reg bookingModel.Registration
	if err := s.DB.WithContext(ctx).
		Preload("Participants").
		First(&reg, "registration_id = ? AND registration_deleted_at IS NULL", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: registration %s", ErrNotFound, id)
		}
		return nil, err
	}
	return &reg, nil
}
