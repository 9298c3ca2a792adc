package appointment

import (
	"context"
	"time"

	domain "github.com/salonpuntos/loyalty-scheduler/internal/domain/schedule"
	"github.com/salonpuntos/loyalty-scheduler/internal/dto"
	"github.com/salonpuntos/loyalty-scheduler/internal/httperr"
	"github.com/salonpuntos/loyalty-scheduler/internal/models"
	"github.com/salonpuntos/loyalty-scheduler/internal/timezone"
)

type ListAppointments struct {
	repo domain.Repository
}

func NewListAppointments(repo domain.Repository) *ListAppointments {
	return &ListAppointments{repo: repo}
}

// ByDate returns the establishment's appointments for one local calendar
// day, the agenda view.
func (uc *ListAppointments) ByDate(
	ctx context.Context,
	establishmentID uint,
	date time.Time,
) ([]dto.AppointmentListDTO, error) {

	start, end := domain.DayBounds(date)

	aps, err := uc.repo.ListForEstablishment(ctx, establishmentID, start, end)
	if err != nil {
		return nil, err
	}

	return toListDTOs(aps), nil
}

// ByMonth feeds the calendar view.
func (uc *ListAppointments) ByMonth(
	ctx context.Context,
	establishmentID uint,
	year int,
	month int,
) ([]dto.AppointmentListDTO, error) {

	est, err := uc.repo.GetEstablishment(ctx, establishmentID)
	if err != nil {
		return nil, httperr.ErrBusiness("establishment_not_found")
	}

	loc := timezone.Location(est.Timezone)
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 1, 0)

	aps, err := uc.repo.ListForEstablishment(ctx, establishmentID, start, end)
	if err != nil {
		return nil, err
	}

	return toListDTOs(aps), nil
}

// ByClient returns a client's own bookings, history and upcoming alike.
func (uc *ListAppointments) ByClient(
	ctx context.Context,
	clientID uint,
) ([]dto.AppointmentListDTO, error) {

	aps, err := uc.repo.ListForClient(ctx, clientID)
	if err != nil {
		return nil, err
	}

	return toListDTOs(aps), nil
}

// DayStats summarizes one day's appointments for the dashboard.
func (uc *ListAppointments) DayStats(
	ctx context.Context,
	establishmentID uint,
	date time.Time,
) (*dto.AppointmentDayStatsDTO, error) {

	start, end := domain.DayBounds(date)

	aps, err := uc.repo.ListForEstablishment(ctx, establishmentID, start, end)
	if err != nil {
		return nil, err
	}

	stats := &dto.AppointmentDayStatsDTO{Total: len(aps)}
	for _, ap := range aps {
		switch domain.Status(ap.Status) {
		case domain.StatusPending:
			stats.Pending++
		case domain.StatusConfirmed:
			stats.Confirmed++
		case domain.StatusCompleted:
			stats.Completed++
		}
	}

	return stats, nil
}

func toListDTOs(aps []models.Appointment) []dto.AppointmentListDTO {
	out := make([]dto.AppointmentListDTO, 0, len(aps))
	for _, ap := range aps {
		out = append(out, dto.AppointmentListDTO{
			ID:           ap.ID,
			StartTime:    ap.StartTime,
			EndTime:      ap.EndTime,
			DurationMin:  ap.DurationMin,
			Status:       ap.Status,
			ClientName:   ap.Client.Name,
			ServiceName:  ap.Service.Name,
			EmployeeName: ap.Employee.Name,
		})
	}
	return out
}
