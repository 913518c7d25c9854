package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* ===================== Enums (string) ===================== */
/* Booking-intent status — distinct from the owned payment's status.
   A registration is "confirmed" the moment the booking is accepted;
   it only becomes "cancelled" when the whole booking is withdrawn. */

type RegistrationStatus string

const (
	RegistrationStatusPending   RegistrationStatus = "pending"
	RegistrationStatusConfirmed RegistrationStatus = "confirmed"
	RegistrationStatusCancelled RegistrationStatus = "cancelled"
)

/* ===================== Model ===================== */

type Registration struct {
	RegistrationID uuid.UUID `gorm:"column:registration_id;type:uuid;default:gen_random_uuid();primaryKey" json:"registration_id"`

	RegistrationTrekEventID uuid.UUID `gorm:"column:registration_trek_event_id;type:uuid;not null;index" json:"registration_trek_event_id"`
	RegistrationUserID      uuid.UUID `gorm:"column:registration_user_id;type:uuid;not null;index" json:"registration_user_id"`

	RegistrationContactName  string `gorm:"column:registration_contact_name;type:varchar(100);not null" json:"registration_contact_name"`
	RegistrationContactPhone string `gorm:"column:registration_contact_phone;type:varchar(30);not null" json:"registration_contact_phone"`
	RegistrationContactEmail string `gorm:"column:registration_contact_email;type:varchar(255);not null" json:"registration_contact_email"`

	RegistrationStatus RegistrationStatus `gorm:"column:registration_status;type:registration_status;not null;default:'pending'" json:"registration_status"`

	Participants []Participant `gorm:"foreignKey:ParticipantRegistrationID;references:RegistrationID" json:"participants,omitempty"`

	CreatedAt time.Time      `gorm:"column:registration_created_at;autoCreateTime" json:"registration_created_at"`
	UpdatedAt time.Time      `gorm:"column:registration_updated_at;autoUpdateTime" json:"registration_updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:registration_deleted_at;index" json:"registration_deleted_at,omitempty"`
}

func (Registration) TableName() string { return "registrations" }

func (r *Registration) IsCancelled() bool {
	return r.RegistrationStatus == RegistrationStatusCancelled
}
