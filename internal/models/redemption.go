package models

import "time"

// Redemption is a pending canje: the client already paid the points (the
// balance was debited on request) and the reward is held for 24 hours until
// staff confirms delivery, the client cancels, or it expires.
//
// Client and reward fields are snapshotted at creation so later edits to
// the reward never alter the historical record.
type Redemption struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// Code has the form CJ-XXXXXX, unique per establishment while pending.
	Code string `gorm:"size:9;index" json:"code"`

	EstablishmentID uint `gorm:"index" json:"establishment_id"`

	ClientID   uint   `json:"client_id"`
	ClientName string `gorm:"size:100" json:"client_name"`

	RewardID   uint   `json:"reward_id"`
	RewardName string `gorm:"size:100" json:"reward_name"`
	RewardCost int    `json:"reward_cost"`

	Status string `gorm:"size:20;default:'pending'" json:"status"`

	ExpiresAt time.Time `json:"expires_at"`

	ConfirmedAt *time.Time `json:"confirmed_at"`
	ConfirmedBy *uint      `json:"confirmed_by"`
	CancelledAt *time.Time `json:"cancelled_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
