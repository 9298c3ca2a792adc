package models

import "time"

// Establishment is the single business tenant of a deployment. Every
// employee, service, reward and client hangs off it.
type Establishment struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	OwnerID uint `json:"owner_id"`

	Name        string `gorm:"size:100;not null" json:"name"`
	Phone       string `gorm:"size:20" json:"phone"`
	Address     string `gorm:"size:255" json:"address"`
	Description string `gorm:"size:255" json:"description"`
	LogoURL     string `gorm:"size:255" json:"logo_url"`

	CurrencyName   string `gorm:"size:30;default:'puntos'" json:"currency_name"`
	CurrencySymbol string `gorm:"size:8;default:'★'" json:"currency_symbol"`

	Timezone string `gorm:"size:50" json:"timezone"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BusinessHour is the establishment-wide opening window for one weekday.
// Employees without their own hours for a weekday fall back to this.
type BusinessHour struct {
	ID              uint `gorm:"primaryKey" json:"id"`
	EstablishmentID uint `gorm:"index" json:"establishment_id"`

	Weekday int `json:"weekday"`

	Open   string `gorm:"size:5" json:"open"`
	Close  string `gorm:"size:5" json:"close"`
	Closed bool   `json:"closed"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
