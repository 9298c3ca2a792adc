package models

import "time"

type Reward struct {
	ID              uint `gorm:"primaryKey" json:"id"`
	EstablishmentID uint `gorm:"index" json:"establishment_id"`

	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:255" json:"description"`

	// Cost in points.
	Cost int `json:"cost"`

	ImageURL string `gorm:"size:255" json:"image_url"`

	Active bool `gorm:"default:true" json:"active"`

	// RedemptionCount only moves through atomic increments on confirmed
	// or direct redemptions.
	RedemptionCount int `gorm:"default:0" json:"redemption_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
