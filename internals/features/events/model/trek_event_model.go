package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TrekEvent is the bookable unit (a scheduled trek/hike departure).
// CRUD for events lives in the organizer dashboard service; the payment core
// only reads price/capacity and the owning organizer.
type TrekEvent struct {
	TrekEventID          uuid.UUID `gorm:"column:trek_event_id;type:uuid;default:gen_random_uuid();primaryKey" json:"trek_event_id"`
	TrekEventOrganizerID uuid.UUID `gorm:"column:trek_event_organizer_id;type:uuid;not null;index" json:"trek_event_organizer_id"`

	TrekEventTitle     string    `gorm:"column:trek_event_title;type:varchar(200);not null" json:"trek_event_title"`
	TrekEventStartDate time.Time `gorm:"column:trek_event_start_date;not null" json:"trek_event_start_date"`

	// Price per booking in paisa (NPR minor units).
	TrekEventPricePaisa int64 `gorm:"column:trek_event_price_paisa;not null;check:trek_event_price_paisa >= 0" json:"trek_event_price_paisa"`
	TrekEventCapacity   int   `gorm:"column:trek_event_capacity;not null;default:0" json:"trek_event_capacity"`

	Organizer *Organizer `gorm:"foreignKey:TrekEventOrganizerID;references:OrganizerID" json:"organizer,omitempty"`

	CreatedAt time.Time      `gorm:"column:trek_event_created_at;autoCreateTime" json:"trek_event_created_at"`
	UpdatedAt time.Time      `gorm:"column:trek_event_updated_at;autoUpdateTime" json:"trek_event_updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:trek_event_deleted_at;index" json:"trek_event_deleted_at,omitempty"`
}

func (TrekEvent) TableName() string { return "trek_events" }
