package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification type values. The lowercase "info" is legacy from the first
// schema version and is kept for compatibility with stored rows.
const (
	NotifTypeTaskAssigned = "TASK_ASSIGNED"
	NotifTypeNoteUpdated  = "NOTE_UPDATED"
	NotifTypeOrderCreated = "ORDER_CREATED"
	NotifTypeInfo         = "info"
)

// Notification is a durable in-app notification. A nil UserID marks a
// broadcast readable by every user; broadcasts are never pushed.
type Notification struct {
	ID        string    `gorm:"type:char(36);primaryKey" json:"id"`
	UserID    *string   `gorm:"type:char(36);index" json:"user_id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Type      string    `gorm:"size:32;not null;default:info" json:"type"`
	OrderID   *string   `gorm:"type:char(36)" json:"order_id,omitempty"`
	IsRead    bool      `gorm:"not null;default:false" json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate assigns the row ID.
func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	return nil
}

// ValidNotificationType reports whether t is one of the known type values.
func ValidNotificationType(t string) bool {
	switch t {
	case NotifTypeTaskAssigned, NotifTypeNoteUpdated, NotifTypeOrderCreated, NotifTypeInfo:
		return true
	}
	return false
}
