package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Participant rows are immutable after booking, except the attendance marker
// which the organizer flips after the trek.
type Participant struct {
	ParticipantID             uuid.UUID `gorm:"column:participant_id;type:uuid;default:gen_random_uuid();primaryKey" json:"participant_id"`
	ParticipantRegistrationID uuid.UUID `gorm:"column:participant_registration_id;type:uuid;not null;index" json:"participant_registration_id"`

	ParticipantName        string `gorm:"column:participant_name;type:varchar(100);not null" json:"participant_name"`
	ParticipantGender      string `gorm:"column:participant_gender;type:varchar(20);not null" json:"participant_gender"`
	ParticipantNationality string `gorm:"column:participant_nationality;type:varchar(60);not null" json:"participant_nationality"`

	ParticipantAttended   bool       `gorm:"column:participant_attended;not null;default:false" json:"participant_attended"`
	ParticipantAttendedAt *time.Time `gorm:"column:participant_attended_at" json:"participant_attended_at,omitempty"`

	CreatedAt time.Time      `gorm:"column:participant_created_at;autoCreateTime" json:"participant_created_at"`
	UpdatedAt time.Time      `gorm:"column:participant_updated_at;autoUpdateTime" json:"participant_updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:participant_deleted_at;index" json:"participant_deleted_at,omitempty"`
}

func (Participant) TableName() string { return "participants" }
