package models

import "time"

// PushSubscription is a registered browser push endpoint with its key
// material. Endpoint is the natural dedup key: re-registering the same
// browser must not create a second row. Rows are pruned when a delivery
// reports the endpoint permanently gone.
type PushSubscription struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"type:char(36);index;not null" json:"user_id"`
	Endpoint  string    `gorm:"size:512;uniqueIndex;not null" json:"endpoint"`
	P256dh    string    `gorm:"size:255;not null" json:"p256dh"`
	Auth      string    `gorm:"size:255;not null" json:"auth"`
	UserAgent string    `gorm:"size:512" json:"user_agent"`
	CreatedAt time.Time `json:"created_at"`
}
