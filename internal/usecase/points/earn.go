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

type EarnPointsInput struct {
	EstablishmentID uint
	ClientID        uint
	Amount          int
	Notes           string
	ActingUserID    uint
}

// ======================================================
// USE CASE
// ======================================================

type EarnPoints struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewEarnPoints(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *EarnPoints {
	return &EarnPoints{
		repo:  repo,
		audit: audit,
	}
}

// Execute credits points to a client and appends the earned transaction.
// The balance moves as an atomic delta; last_visit is stamped in the same
// write.
func (uc *EarnPoints) Execute(
	ctx context.Context,
	in EarnPointsInput,
) (*models.Transaction, error) {

	if in.Amount <= 0 {
		return nil, httperr.ErrBusinessDetail("validation_failed", "amount must be positive")
	}

	client, err := uc.repo.GetClient(ctx, in.ClientID)
	if err != nil {
		return nil, httperr.ErrBusiness("client_not_found")
	}

	if err := uc.repo.AdjustBalance(ctx, client.ID, in.Amount, true); err != nil {
		return nil, err
	}

	tx := &models.Transaction{
		EstablishmentID: in.EstablishmentID,
		ClientID:        client.ID,
		Type:            models.TransactionEarned,
		Amount:          in.Amount,
		Notes:           in.Notes,
		CreatedBy:       in.ActingUserID,
	}

	if err := uc.repo.AppendTransaction(ctx, tx); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		EstablishmentID: in.EstablishmentID,
		UserID:          &in.ActingUserID,
		Action:          "points_earned",
		Entity:          "client",
		EntityID:        &client.ID,
		Metadata:        map[string]any{"amount": in.Amount},
	})

	return tx, nil
}
