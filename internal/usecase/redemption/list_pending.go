package redemption

import (
	"context"

	domain "github.com/salonpuntos/loyalty-scheduler/internal/domain/ledger"
	"github.com/salonpuntos/loyalty-scheduler/internal/models"
)

type ListRedemptions struct {
	repo domain.Repository
}

func NewListRedemptions(repo domain.Repository) *ListRedemptions {
	return &ListRedemptions{repo: repo}
}

func (uc *ListRedemptions) PendingByClient(
	ctx context.Context,
	clientID uint,
) ([]models.Redemption, error) {
	return uc.repo.ListPendingByClient(ctx, clientID)
}

func (uc *ListRedemptions) PendingByEstablishment(
	ctx context.Context,
	establishmentID uint,
) ([]models.Redemption, error) {
	return uc.repo.ListPendingByEstablishment(ctx, establishmentID)
}

func (uc *ListRedemptions) HistoryByClient(
	ctx context.Context,
	clientID uint,
) ([]models.Redemption, error) {
	return uc.repo.ListRedemptionsByClient(ctx, clientID)
}
