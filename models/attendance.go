package models

import "time"

// AttendanceRecord stores per-day login/logout timestamps for a user.
// At most one row exists per (user_id, day); the unique composite index is
// the conflict target for the atomic upserts that keep "first login wins,
// last logout wins" correct under concurrent scans.
type AttendanceRecord struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	UserID        string     `gorm:"type:char(36);index:idx_attendance_user_day,unique;not null" json:"user_id"`
	Day           time.Time  `gorm:"index:idx_attendance_user_day,unique;type:date;not null" json:"day"`
	EarliestLogin *time.Time `json:"earliest_login"`
	LatestLogout  *time.Time `json:"latest_logout"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// TableName keeps the table aligned with the original schema.
func (AttendanceRecord) TableName() string { return "attendance" }
