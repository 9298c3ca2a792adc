package models

import "time"

const (
	TransactionEarned   = "earned"
	TransactionRedeemed = "redeemed"
)

// Transaction is an append-only ledger entry. Rows are never updated or
// deleted; the live balance on Client is authoritative, this is the audit
// trail.
type Transaction struct {
	ID uint `gorm:"primaryKey" json:"id"`

	EstablishmentID uint `gorm:"index" json:"establishment_id"`
	ClientID        uint `gorm:"index" json:"client_id"`

	Type   string `gorm:"size:10;not null" json:"type"`
	Amount int    `gorm:"not null" json:"amount"`

	RewardID      *uint `json:"reward_id"`
	AppointmentID *uint `json:"appointment_id"`

	Notes string `gorm:"size:255" json:"notes"`

	// CreatedBy is the owner/staff user who recorded the movement.
	CreatedBy uint `json:"created_by"`

	CreatedAt time.Time `json:"created_at"`
}
