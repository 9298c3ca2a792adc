package schedule

import (
	"context"
	"time"

	"github.com/salonpuntos/loyalty-scheduler/internal/models"
)

// Repository is the slice of the entity store the scheduling core consumes.
type Repository interface {
	// -------- Establishment --------
	GetEstablishment(
		ctx context.Context,
		id uint,
	) (*models.Establishment, error)

	// -------- Service / Employee / Client --------
	GetService(
		ctx context.Context,
		establishmentID uint,
		serviceID uint,
	) (*models.Service, error)

	GetEmployee(
		ctx context.Context,
		establishmentID uint,
		employeeID uint,
	) (*models.Employee, error)

	GetClient(
		ctx context.Context,
		clientID uint,
	) (*models.Client, error)

	// -------- Availability --------
	EmployeeWeek(
		ctx context.Context,
		employeeID uint,
	) (WeekSchedule, error)

	EstablishmentWeek(
		ctx context.Context,
		establishmentID uint,
	) (WeekSchedule, error)

	// ListBusyIntervals returns active (non-cancelled) appointment spans
	// for the employee within [start, end), ordered by start time.
	ListBusyIntervals(
		ctx context.Context,
		employeeID uint,
		start time.Time,
		end time.Time,
	) ([]BusyInterval, error)

	// -------- Appointment (create / conflict) --------

	// CreateAppointmentSerialized re-checks the slot against active
	// appointments under a row lock and inserts in the same transaction,
	// closing the double-booking window between availability read and
	// create. Returns a time_conflict business error on overlap.
	CreateAppointmentSerialized(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Appointment (state change / queries) --------
	GetAppointment(
		ctx context.Context,
		appointmentID uint,
	) (*models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	ListForEstablishment(
		ctx context.Context,
		establishmentID uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	ListForClient(
		ctx context.Context,
		clientID uint,
	) ([]models.Appointment, error)
}
