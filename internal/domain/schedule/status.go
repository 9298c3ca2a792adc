package schedule

import (
	"time"

	"github.com/salonpuntos/loyalty-scheduler/internal/httperr"
	"github.com/salonpuntos/loyalty-scheduler/internal/models"
)

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// transitions is the legal state machine. completed and cancelled are
// terminal.
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

func Terminal(s Status) bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransition rejects any move the state machine does not allow.
func CanTransition(from, to Status) error {
	for _, next := range transitions[from] {
		if next == to {
			return nil
		}
	}
	return httperr.ErrBusinessDetail(
		"invalid_state",
		string(from)+" appointments cannot become "+string(to),
	)
}

// ClientCanCancel limits client-initiated changes: clients may only cancel,
// and only while the appointment is still pending or confirmed.
func ClientCanCancel(current Status) error {
	if current == StatusPending || current == StatusConfirmed {
		return nil
	}
	return httperr.ErrBusinessDetail(
		"invalid_state",
		"only pending or confirmed appointments can be cancelled",
	)
}

// ===============================
// Domain actions
// ===============================

func Transition(ap *models.Appointment, to Status, now time.Time) error {
	if err := CanTransition(Status(ap.Status), to); err != nil {
		return err
	}

	ap.Status = string(to)
	switch to {
	case StatusCancelled:
		ap.CancelledAt = &now
	case StatusCompleted:
		ap.CompletedAt = &now
	}
	return nil
}

func InitialStatus() Status {
	return StatusPending
}
