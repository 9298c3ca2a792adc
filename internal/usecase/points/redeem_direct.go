package points

import (
	"context"

	"github.com/salonpuntos/loyalty-scheduler/internal/audit"
	domain "github.com/salonpuntos/loyalty-scheduler/internal/domain/ledger"
	"github.com/salonpuntos/loyalty-scheduler/internal/httperr"
	"github.com/salonpuntos/loyalty-scheduler/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type RedeemDirectInput struct {
	EstablishmentID uint
	RewardID        uint
	ClientID        uint
	ActingUserID    uint
}

// ======================================================
// USE CASE
// ======================================================

// RedeemDirect is the one-phase path: the owner redeems on the client's
// behalf at the desk. Debit, ledger entry and counter move in one call; no
// pending canje is involved.
type RedeemDirect struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewRedeemDirect(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *RedeemDirect {
	return &RedeemDirect{
		repo:  repo,
		audit: audit,
	}
}

func (uc *RedeemDirect) Execute(
	ctx context.Context,
	in RedeemDirectInput,
) (*models.Transaction, error) {

	reward, err := uc.repo.GetReward(ctx, in.EstablishmentID, in.RewardID)
	if err != nil {
		return nil, httperr.ErrBusiness("reward_not_found")
	}

	if !reward.Active {
		return nil, httperr.ErrBusinessDetail("reward_inactive", "esta recompensa ya no está disponible")
	}

	client, err := uc.repo.GetClient(ctx, in.ClientID)
	if err != nil {
		return nil, httperr.ErrBusiness("client_not_found")
	}

	// The guarded delta is the real balance check; the store refuses to go
	// negative even under concurrent redemptions.
	if err := uc.repo.AdjustBalance(ctx, client.ID, -reward.Cost, false); err != nil {
		return nil, err
	}

	tx := &models.Transaction{
		EstablishmentID: in.EstablishmentID,
		ClientID:        client.ID,
		Type:            models.TransactionRedeemed,
		Amount:          reward.Cost,
		RewardID:        &reward.ID,
		Notes:           "Canje: " + reward.Name,
		CreatedBy:       in.ActingUserID,
	}

	if err := uc.repo.AppendTransaction(ctx, tx); err != nil {
		return nil, err
	}

	if err := uc.repo.IncrementRedemptionCount(ctx, reward.ID); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		EstablishmentID: in.EstablishmentID,
		UserID:          &in.ActingUserID,
		Action:          "reward_redeemed",
		Entity:          "reward",
		EntityID:        &reward.ID,
		Metadata:        map[string]any{"client_id": client.ID, "cost": reward.Cost},
	})

	return tx, nil
}
