package appointment

import (
	"context"

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

type SetStatusInput struct {
	EstablishmentID uint
	AppointmentID   uint
	NewStatus       domain.Status

	// AsClient restricts the change to what a client may do: cancel their
	// own pending/confirmed appointment, nothing else.
	AsClient       bool
	ActingUserID   uint
	ActingClientID uint
}

// ======================================================
// USE CASE
// ======================================================

type SetStatus struct {
	repo  domain.Repository
	slots *cache.SlotCache
	audit *audit.Dispatcher
}

func NewSetStatus(
	repo domain.Repository,
	slots *cache.SlotCache,
	audit *audit.Dispatcher,
) *SetStatus {
	return &SetStatus{
		repo:  repo,
		slots: slots,
		audit: audit,
	}
}

// Execute drives the appointment state machine. Illegal transitions are
// rejected server-side instead of trusting the caller.
func (uc *SetStatus) Execute(
	ctx context.Context,
	in SetStatusInput,
) (*models.Appointment, error) {

	if !domain.ValidStatus(in.NewStatus) {
		return nil, httperr.ErrBusinessDetail("validation_failed", "unknown status "+string(in.NewStatus))
	}

	ap, err := uc.repo.GetAppointment(ctx, in.AppointmentID)
	if err != nil {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	if ap.EstablishmentID != in.EstablishmentID {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	if in.AsClient {
		if ap.ClientID != in.ActingClientID {
			return nil, httperr.ErrBusiness("appointment_not_found")
		}
		if in.NewStatus != domain.StatusCancelled {
			return nil, httperr.ErrBusinessDetail("invalid_state", "clients can only cancel appointments")
		}
		if err := domain.ClientCanCancel(domain.Status(ap.Status)); err != nil {
			return nil, err
		}
	}

	if err := domain.Transition(ap, in.NewStatus, timezone.Now()); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	// Cancelling frees the slot; any other transition leaves it occupied.
	if in.NewStatus == domain.StatusCancelled {
		uc.slots.InvalidateDay(ctx, ap.EmployeeID, ap.StartTime.Format("2006-01-02"))
	}

	uc.audit.Dispatch(audit.Event{
		EstablishmentID: in.EstablishmentID,
		UserID:          &in.ActingUserID,
		Action:          "appointment_" + string(in.NewStatus),
		Entity:          "appointment",
		EntityID:        &ap.ID,
	})

	return ap, nil
}
