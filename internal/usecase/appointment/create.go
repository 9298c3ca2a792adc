package appointment

import (
	"context"
	"time"

	"github.com/salonpuntos/loyalty-scheduler/internal/audit"
	"github.com/salonpuntos/loyalty-scheduler/internal/cache"
	domain "github.com/salonpuntos/loyalty-scheduler/internal/domain/schedule"
	"github.com/salonpuntos/loyalty-scheduler/internal/httperr"
	"github.com/salonpuntos/loyalty-scheduler/internal/models"
	"github.com/salonpuntos/loyalty-scheduler/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	EstablishmentID uint
	ClientID        uint
	ServiceID       uint
	EmployeeID      uint

	Date string // YYYY-MM-DD
	Time string // HH:MM

	Notes string

	ActingUserID uint
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo  domain.Repository
	slots *cache.SlotCache
	audit *audit.Dispatcher
}

func NewCreateAppointment(
	repo domain.Repository,
	slots *cache.SlotCache,
	audit *audit.Dispatcher,
) *CreateAppointment {
	return &CreateAppointment{
		repo:  repo,
		slots: slots,
		audit: audit,
	}
}

// Execute books a slot. The service's duration is copied onto the
// appointment at this moment; later service edits never resize existing
// bookings. The conflict re-check and the insert run in one serialized
// transaction so two clients who saw the same free slot cannot both win.
func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	if in.ClientID == 0 || in.ServiceID == 0 || in.EmployeeID == 0 ||
		in.Date == "" || in.Time == "" {
		return nil, httperr.ErrBusinessDetail("validation_failed", "missing required fields")
	}

	est, err := uc.repo.GetEstablishment(ctx, in.EstablishmentID)
	if err != nil {
		return nil, httperr.ErrBusiness("establishment_not_found")
	}

	start, err := time.ParseInLocation(
		"2006-01-02 15:04",
		in.Date+" "+in.Time,
		timezone.Location(est.Timezone),
	)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}

	service, err := uc.repo.GetService(ctx, in.EstablishmentID, in.ServiceID)
	if err != nil {
		return nil, httperr.ErrBusiness("service_not_found")
	}
	if !service.Active {
		return nil, httperr.ErrBusinessDetail("service_inactive", "este servicio ya no está disponible")
	}

	employee, err := uc.repo.GetEmployee(ctx, in.EstablishmentID, in.EmployeeID)
	if err != nil {
		return nil, httperr.ErrBusiness("employee_not_found")
	}
	if !employee.Active {
		return nil, httperr.ErrBusiness("employee_inactive")
	}

	client, err := uc.repo.GetClient(ctx, in.ClientID)
	if err != nil {
		return nil, httperr.ErrBusiness("client_not_found")
	}

	ap := &models.Appointment{
		EstablishmentID: in.EstablishmentID,
		ClientID:        client.ID,
		ServiceID:       service.ID,
		EmployeeID:      employee.ID,
		StartTime:       start,
		DurationMin:     service.DurationMin,
		EndTime:         start.Add(time.Duration(service.DurationMin) * time.Minute),
		Status:          string(domain.InitialStatus()),
		Notes:           in.Notes,
	}

	if err := uc.repo.CreateAppointmentSerialized(ctx, ap); err != nil {
		return nil, err
	}

	uc.slots.InvalidateDay(ctx, employee.ID, start.Format("2006-01-02"))

	uc.audit.Dispatch(audit.Event{
		EstablishmentID: in.EstablishmentID,
		UserID:          &in.ActingUserID,
		Action:          "appointment_created",
		Entity:          "appointment",
		EntityID:        &ap.ID,
	})

	return ap, nil
}
