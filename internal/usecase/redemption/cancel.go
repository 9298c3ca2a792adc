package redemption

import (
	"context"

	"github.com/salonpuntos/loyalty-scheduler/internal/audit"
	domain "github.com/salonpuntos/loyalty-scheduler/internal/domain/ledger"
	"github.com/salonpuntos/loyalty-scheduler/internal/httperr"
	"github.com/salonpuntos/loyalty-scheduler/internal/models"
	"github.com/salonpuntos/loyalty-scheduler/internal/timezone"
)

// CancelRedemption releases a pending canje: the reserved points go back to
// the client. No ledger entry is written for either leg, since the original
// debit was never recorded.
type CancelRedemption struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCancelRedemption(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CancelRedemption {
	return &CancelRedemption{
		repo:  repo,
		audit: audit,
	}
}

func (uc *CancelRedemption) Execute(
	ctx context.Context,
	redemptionID uint,
) (*models.Redemption, error) {

	r, err := uc.repo.GetRedemption(ctx, redemptionID)
	if err != nil || r == nil {
		return nil, httperr.ErrBusiness("redemption_not_found")
	}

	if err := domain.EnsurePending(r); err != nil {
		return nil, err
	}

	// Refund and state flip commit together; the credited amount is the
	// snapshotted cost, not the reward's current price.
	if err := uc.repo.CancelRedemptionRefunded(ctx, r, timezone.Now()); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		EstablishmentID: r.EstablishmentID,
		Action:          "redemption_cancelled",
		Entity:          "redemption",
		EntityID:        &r.ID,
		Metadata:        map[string]any{"refunded": r.RewardCost},
	})

	return r, nil
}
