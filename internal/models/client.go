package models

import "time"

// Client is a loyalty-program member. Balance never goes negative and is
// only mutated through the points ledger (atomic deltas, never absolute
// writes from a stale read).
type Client struct {
	ID              uint `gorm:"primaryKey" json:"id"`
	EstablishmentID uint `gorm:"index" json:"establishment_id"`

	// UserID links the client to a login identity when they self-registered.
	UserID *uint `json:"user_id"`

	Name  string `gorm:"size:100;not null" json:"name"`
	Phone string `gorm:"size:20" json:"phone"`
	Email string `gorm:"size:100" json:"email"`

	// Code is the 6-character human-readable alternate key shown at the
	// desk (displayed as ABC-123). Unique per establishment.
	Code string `gorm:"size:6;index" json:"code"`

	Balance int `gorm:"default:0" json:"balance"`

	LastVisit *time.Time `json:"last_visit"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
