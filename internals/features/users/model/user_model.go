package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is owned by the accounts service; this backend only reads it for
// booking validation and settlement reports.
type User struct {
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;default:gen_random_uuid();primaryKey" json:"user_id"`
	UserName  string    `gorm:"column:user_name;type:varchar(100);not null" json:"user_name"`
	UserEmail string    `gorm:"column:user_email;type:varchar(255);not null;uniqueIndex" json:"user_email"`

	CreatedAt time.Time      `gorm:"column:user_created_at;autoCreateTime" json:"user_created_at"`
	UpdatedAt time.Time      `gorm:"column:user_updated_at;autoUpdateTime" json:"user_updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:user_deleted_at;index" json:"user_deleted_at,omitempty"`
}

func (User) TableName() string { return "users" }
