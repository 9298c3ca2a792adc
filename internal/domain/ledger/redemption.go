package ledger

import (
	"time"

	"github.com/salonpuntos/loyalty-scheduler/internal/httperr"
	"github.com/salonpuntos/loyalty-scheduler/internal/models"
)

// ===============================
// Redemption Status
// ===============================

type RedemptionStatus string

const (
	RedemptionPending   RedemptionStatus = "pending"
	RedemptionConfirmed RedemptionStatus = "confirmed"
	RedemptionCancelled RedemptionStatus = "cancelled"
	RedemptionExpired   RedemptionStatus = "expired"
)

// RedemptionTTL is how long a pending canje holds its reservation.
const RedemptionTTL = 24 * time.Hour

// CodeGenerationAttempts bounds uniqueness retries when minting a code.
const CodeGenerationAttempts = 10

// EnsurePending rejects any resolution attempted against an already
// resolved canje, naming the terminal state it sits in.
func EnsurePending(r *models.Redemption) error {
	status := RedemptionStatus(r.Status)
	if status == RedemptionPending {
		return nil
	}
	return httperr.ErrBusinessDetail(
		"redemption_"+r.Status,
		"este canje ya está "+spanishStatus(status),
	)
}

// Expired reports whether the reservation window has lapsed, regardless of
// whether the stored status caught up. Readers that notice staleness flip
// the record before acting on it.
func Expired(r *models.Redemption, now time.Time) bool {
	return now.After(r.ExpiresAt)
}

func spanishStatus(s RedemptionStatus) string {
	switch s {
	case RedemptionConfirmed:
		return "confirmado"
	case RedemptionCancelled:
		return "cancelado"
	case RedemptionExpired:
		return "expirado"
	default:
		return string(s)
	}
}
