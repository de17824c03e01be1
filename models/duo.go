package models

import "time"

// Duo is a confirmed two-user pairing. A user appears in at most one duo at
// a time, enforced by the unique index on each column. Dissolving a duo
// deletes the row outright so either user can pair again.
type Duo struct {
	ID        uint `gorm:"primaryKey"`
	User1ID   uint `gorm:"uniqueIndex;not null"`
	User2ID   uint `gorm:"uniqueIndex;not null"`
	CreatedAt time.Time
}
