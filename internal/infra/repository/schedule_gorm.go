package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/salonpuntos/loyalty-scheduler/internal/domain/schedule"
	"github.com/salonpuntos/loyalty-scheduler/internal/httperr"
	"github.com/salonpuntos/loyalty-scheduler/internal/models"
)

type ScheduleGormRepository struct {
	db *gorm.DB
}

func NewScheduleGormRepository(db *gorm.DB) *ScheduleGormRepository {
	return &ScheduleGormRepository{db: db}
}

// --------------------------------------------------
// Establishment
// --------------------------------------------------

func (r *ScheduleGormRepository) GetEstablishment(
	ctx context.Context,
	id uint,
) (*models.Establishment, error) {

	var est models.Establishment
	if err := r.db.WithContext(ctx).First(&est, id).Error; err != nil {
		return nil, err
	}
	return &est, nil
}

// --------------------------------------------------
// Service / Employee / Client
// --------------------------------------------------

func (r *ScheduleGormRepository) GetService(
	ctx context.Context,
	establishmentID uint,
	serviceID uint,
) (*models.Service, error) {

	var service models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND establishment_id = ?", serviceID, establishmentID).
		First(&service).Error; err != nil {
		return nil, err
	}
	return &service, nil
}

func (r *ScheduleGormRepository) GetEmployee(
	ctx context.Context,
	establishmentID uint,
	employeeID uint,
) (*models.Employee, error) {

	var employee models.Employee
	if err := r.db.WithContext(ctx).
		Where("id = ? AND establishment_id = ?", employeeID, establishmentID).
		First(&employee).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *ScheduleGormRepository) GetClient(
	ctx context.Context,
	clientID uint,
) (*models.Client, error) {

	var client models.Client
	if err := r.db.WithContext(ctx).First(&client, clientID).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

// --------------------------------------------------
// Availability
// --------------------------------------------------

func (r *ScheduleGormRepository) EmployeeWeek(
	ctx context.Context,
	employeeID uint,
) (domain.WeekSchedule, error) {

	var hours []models.EmployeeHour
	if err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Find(&hours).Error; err != nil {
		return nil, err
	}

	week := domain.WeekSchedule{}
	for _, h := range hours {
		if h.StartTime == "" || h.EndTime == "" {
			continue
		}
		week[time.Weekday(h.Weekday)] = domain.DayWindow{
			Start: h.StartTime,
			End:   h.EndTime,
		}
	}
	return week, nil
}

func (r *ScheduleGormRepository) EstablishmentWeek(
	ctx context.Context,
	establishmentID uint,
) (domain.WeekSchedule, error) {

	var hours []models.BusinessHour
	if err := r.db.WithContext(ctx).
		Where("establishment_id = ?", establishmentID).
		Find(&hours).Error; err != nil {
		return nil, err
	}

	week := domain.WeekSchedule{}
	for _, h := range hours {
		// A day marked closed never participates in the fallback chain.
		if h.Closed || h.Open == "" || h.Close == "" {
			continue
		}
		week[time.Weekday(h.Weekday)] = domain.DayWindow{
			Start: h.Open,
			End:   h.Close,
		}
	}
	return week, nil
}

func (r *ScheduleGormRepository) ListBusyIntervals(
	ctx context.Context,
	employeeID uint,
	start time.Time,
	end time.Time,
) ([]domain.BusyInterval, error) {

	var aps []models.Appointment
	if err := r.db.WithContext(ctx).
		Select("start_time", "end_time").
		Where(
			"employee_id = ? AND status <> ? AND start_time >= ? AND start_time < ?",
			employeeID, string(domain.StatusCancelled), start, end,
		).
		Order("start_time ASC").
		Find(&aps).Error; err != nil {
		return nil, err
	}

	busy := make([]domain.BusyInterval, 0, len(aps))
	for _, ap := range aps {
		busy = append(busy, domain.BusyInterval{
			Start: ap.StartTime,
			End:   ap.EndTime,
		})
	}
	return busy, nil
}

// --------------------------------------------------
// Appointment (create / conflict)
// --------------------------------------------------

func (r *ScheduleGormRepository) CreateAppointmentSerialized(
	ctx context.Context,
	ap *models.Appointment,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		var conflicts []models.Appointment
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(
				"employee_id = ? AND status <> ? AND start_time < ? AND end_time > ?",
				ap.EmployeeID, string(domain.StatusCancelled), ap.EndTime, ap.StartTime,
			).
			Find(&conflicts).Error; err != nil {
			return err
		}

		if len(conflicts) > 0 {
			return httperr.ErrBusinessDetail(
				"time_conflict",
				fmt.Sprintf("%d overlapping appointment(s)", len(conflicts)),
			)
		}

		return tx.Create(ap).Error
	})
}

// --------------------------------------------------
// Appointment (state change / queries)
// --------------------------------------------------

func (r *ScheduleGormRepository) GetAppointment(
	ctx context.Context,
	appointmentID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).First(&ap, appointmentID).Error; err != nil {
		return nil, err
	}
	return &ap, nil
}

func (r *ScheduleGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Save(ap).Error
}

func (r *ScheduleGormRepository) ListForEstablishment(
	ctx context.Context,
	establishmentID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var aps []models.Appointment
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Service").
		Preload("Employee").
		Where(
			"establishment_id = ? AND start_time >= ? AND start_time < ?",
			establishmentID, start, end,
		).
		Order("start_time ASC").
		Find(&aps).Error
	if err != nil {
		return nil, err
	}
	return aps, nil
}

func (r *ScheduleGormRepository) ListForClient(
	ctx context.Context,
	clientID uint,
) ([]models.Appointment, error) {

	var aps []models.Appointment
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Service").
		Preload("Employee").
		Where("client_id = ?", clientID).
		Order("start_time DESC").
		Find(&aps).Error
	if err != nil {
		return nil, err
	}
	return aps, nil
}

// Compile-time check
var _ domain.Repository = (*ScheduleGormRepository)(nil)
