package appointment

import (
	"context"
	"time"

	"github.com/salonpuntos/loyalty-scheduler/internal/cache"
	domain "github.com/salonpuntos/loyalty-scheduler/internal/domain/schedule"
	"github.com/salonpuntos/loyalty-scheduler/internal/httperr"
)

// ======================================================
// INPUT
// ======================================================

type AvailabilityInput struct {
	EstablishmentID uint
	EmployeeID      uint
	ServiceID       uint
	Date            time.Time
}

// ======================================================
// USE CASE
// ======================================================

type GetAvailability struct {
	repo  domain.Repository
	slots *cache.SlotCache
}

// NewGetAvailability wires the calculator. slots may be nil; availability
// then always recomputes.
func NewGetAvailability(repo domain.Repository, slots *cache.SlotCache) *GetAvailability {
	return &GetAvailability{repo: repo, slots: slots}
}

// Execute resolves the working window for the date (employee hours first,
// establishment hours as fallback) and returns the free "HH:MM" starts on
// the 30-minute grid. An empty list means fully booked or not working.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	in AvailabilityInput,
) ([]string, error) {

	service, err := uc.repo.GetService(ctx, in.EstablishmentID, in.ServiceID)
	if err != nil {
		return nil, httperr.ErrBusiness("service_not_found")
	}

	employee, err := uc.repo.GetEmployee(ctx, in.EstablishmentID, in.EmployeeID)
	if err != nil {
		return nil, httperr.ErrBusiness("employee_not_found")
	}

	day := in.Date.Format("2006-01-02")
	if cached, ok := uc.slots.Get(ctx, employee.ID, service.ID, day); ok {
		return cached, nil
	}

	empWeek, err := uc.repo.EmployeeWeek(ctx, employee.ID)
	if err != nil {
		return nil, err
	}

	estWeek, err := uc.repo.EstablishmentWeek(ctx, in.EstablishmentID)
	if err != nil {
		return nil, err
	}

	window, works := domain.ResolveDayWindow(empWeek, estWeek, in.Date.Weekday())
	if !works {
		return []string{}, nil
	}

	dayStart, dayEnd := domain.DayBounds(in.Date)
	busy, err := uc.repo.ListBusyIntervals(ctx, employee.ID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	slots := domain.ComputeSlots(in.Date, window, service.DurationMin, busy)

	uc.slots.Set(ctx, employee.ID, service.ID, day, slots)

	return slots, nil
}
