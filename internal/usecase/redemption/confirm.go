package redemption

import (
	"context"

	"github.com/salonpuntos/loyalty-scheduler/internal/audit"
	domain "github.com/salonpuntos/loyalty-scheduler/internal/domain/ledger"
	"github.com/salonpuntos/loyalty-scheduler/internal/httperr"
	"github.com/salonpuntos/loyalty-scheduler/internal/models"
	"github.com/salonpuntos/loyalty-scheduler/internal/timezone"
)

// ConfirmRedemption finalizes a pending canje: the points were already
// debited on request, so confirmation only flips state and writes the single
// redeemed ledger entry for the snapshotted cost.
type ConfirmRedemption struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewConfirmRedemption(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *ConfirmRedemption {
	return &ConfirmRedemption{
		repo:  repo,
		audit: audit,
	}
}

func (uc *ConfirmRedemption) Execute(
	ctx context.Context,
	redemptionID uint,
	confirmedBy uint,
) (*models.Redemption, error) {

	r, err := uc.repo.GetRedemption(ctx, redemptionID)
	if err != nil || r == nil {
		return nil, httperr.ErrBusiness("redemption_not_found")
	}

	if err := domain.EnsurePending(r); err != nil {
		return nil, err
	}

	now := timezone.Now()

	// Lazy expiry: a confirm that arrives late flips the record instead of
	// honoring it.
	if domain.Expired(r, now) {
		r.Status = string(domain.RedemptionExpired)
		if err := uc.repo.UpdateRedemption(ctx, r); err != nil {
			return nil, err
		}
		return nil, httperr.ErrBusinessDetail("redemption_expired", "este canje ha expirado")
	}

	r.Status = string(domain.RedemptionConfirmed)
	r.ConfirmedAt = &now
	r.ConfirmedBy = &confirmedBy

	if err := uc.repo.UpdateRedemption(ctx, r); err != nil {
		return nil, err
	}

	tx := &models.Transaction{
		EstablishmentID: r.EstablishmentID,
		ClientID:        r.ClientID,
		Type:            models.TransactionRedeemed,
		Amount:          r.RewardCost,
		RewardID:        &r.RewardID,
		Notes:           "Canje confirmado: " + r.RewardName,
		CreatedBy:       confirmedBy,
	}
	if err := uc.repo.AppendTransaction(ctx, tx); err != nil {
		return nil, err
	}

	// Confirmed canjes count toward the reward's popularity the same as
	// direct redemptions.
	if err := uc.repo.IncrementRedemptionCount(ctx, r.RewardID); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		EstablishmentID: r.EstablishmentID,
		UserID:          &confirmedBy,
		Action:          "redemption_confirmed",
		Entity:          "redemption",
		EntityID:        &r.ID,
	})

	return r, nil
}
