package models

import "time"

const (
	InterventionFull    = "FULL"
	InterventionPartial = "PARTIAL"
)

// RuleSettings are the mutable fields shared between a Rule and a pending
// RuleModificationRequest. Approval copies the whole block verbatim.
type RuleSettings struct {
	IsActive                    bool   `gorm:"not null;default:true" json:"isActive"`
	DailyMaxSeconds             int    `gorm:"not null;default:0" json:"dailyMaxSeconds"`
	HourlyMaxSeconds            int    `gorm:"not null;default:0" json:"hourlyMaxSeconds"`
	SessionMaxSeconds           int    `gorm:"not null;default:0" json:"sessionMaxSeconds"`
	IsDailyMaxSecondsEnforced   bool   `gorm:"not null;default:false" json:"isDailyMaxSecondsEnforced"`
	IsHourlyMaxSecondsEnforced  bool   `gorm:"not null;default:false" json:"isHourlyMaxSecondsEnforced"`
	IsSessionMaxSecondsEnforced bool   `gorm:"not null;default:false" json:"isSessionMaxSecondsEnforced"`
	DailyReset                  string `gorm:"size:8;not null;default:'00:00:00'" json:"dailyReset"` // HH:MM:SS
	InterventionType            string `gorm:"size:16;not null;default:'FULL'" json:"interventionType"`
	IsStartupDelayEnabled       bool   `gorm:"not null;default:false" json:"isStartupDelayEnabled"`
}

// Rule is a per-app usage limit owned by one user. One rule per (user, app).
// Rows are deleted for real, never soft-deleted: the composite unique index
// must free up as soon as a rule is gone.
type Rule struct {
	ID             uint   `gorm:"primaryKey"`
	UserID         uint   `gorm:"index;uniqueIndex:idx_rule_user_app;not null"`
	App            string `gorm:"uniqueIndex:idx_rule_user_app;size:256;not null"`
	AppDisplayName string `gorm:"size:256;not null;default:''"`
	RuleSettings
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RuleModificationRequest holds the proposed next state of a rule while it
// waits for the owner's duo partner to approve. At most one per (user, app);
// a newer proposal replaces the pending one, and approval or withdrawal
// consumes the row.
type RuleModificationRequest struct {
	ID     uint   `gorm:"primaryKey"`
	UserID uint   `gorm:"index;uniqueIndex:idx_modreq_user_app;not null"`
	App    string `gorm:"uniqueIndex:idx_modreq_user_app;size:256;not null"`
	RuleSettings
	CreatedAt time.Time
	UpdatedAt time.Time
}
