package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	EstablishmentID uint `gorm:"index" json:"establishment_id"`

	ClientID uint   `json:"client_id"`
	Client   Client `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"client"`

	ServiceID uint    `json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"service"`

	EmployeeID uint     `gorm:"index" json:"employee_id"`
	Employee   Employee `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"employee"`

	StartTime time.Time `json:"start_time"`

	// DurationMin is copied from the service at booking time. Later edits
	// to the service do not resize existing appointments.
	DurationMin int       `json:"duration_min"`
	EndTime     time.Time `json:"end_time"`

	Status string `gorm:"size:20;default:'pending'" json:"status"`

	Notes       string     `gorm:"size:255" json:"notes"`
	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
