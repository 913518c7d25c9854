package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Organizer struct {
	OrganizerID           uuid.UUID `gorm:"column:organizer_id;type:uuid;default:gen_random_uuid();primaryKey" json:"organizer_id"`
	OrganizerName         string    `gorm:"column:organizer_name;type:varchar(100);not null" json:"organizer_name"`
	OrganizerOrganization string    `gorm:"column:organizer_organization;type:varchar(150);not null" json:"organizer_organization"`
	OrganizerEmail        string    `gorm:"column:organizer_email;type:varchar(255);not null" json:"organizer_email"`

	CreatedAt time.Time      `gorm:"column:organizer_created_at;autoCreateTime" json:"organizer_created_at"`
	UpdatedAt time.Time      `gorm:"column:organizer_updated_at;autoUpdateTime" json:"organizer_updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:organizer_deleted_at;index" json:"organizer_deleted_at,omitempty"`
}

func (Organizer) TableName() string { return "organizers" }
