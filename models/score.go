package models

import "time"

// Score is one behavior score per user per day. Date is a plain calendar
// day; posting twice for the same day overwrites the row.
type Score struct {
	ID                    uint      `gorm:"primaryKey"`
	UserID                uint      `gorm:"index;uniqueIndex:idx_score_user_date;not null"`
	Date                  time.Time `gorm:"type:date;uniqueIndex:idx_score_user_date;not null"`
	Value                 int       `gorm:"not null"`
	UninterruptedTracking bool      `gorm:"not null;default:false"`
	CreatedAt             time.Time
	UpdatedAt             time.Time
}
