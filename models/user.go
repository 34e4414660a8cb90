package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a staff identity record. The ID is the stable system-assigned key
// and never changes once assigned; ShortCode is the human-friendly badge
// code and may be reassigned over time, but is unique among active users.
// FullName and ShortCode carry a binary collation: badge resolution is
// byte-exact and must not inherit MySQL's case/accent folding.
type User struct {
	ID        string         `gorm:"type:char(36);primaryKey" json:"id"`
	FullName  string         `gorm:"type:varchar(255) COLLATE utf8mb4_bin;not null" json:"full_name"`
	ShortCode string         `gorm:"type:varchar(32) COLLATE utf8mb4_bin;uniqueIndex" json:"short_code"`
	Role      string         `gorm:"size:32" json:"role"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate assigns a UUID when the caller did not provide one.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	return nil
}
