package redemption

import (
	"context"

	domain "github.com/salonpuntos/loyalty-scheduler/internal/domain/ledger"
	"github.com/salonpuntos/loyalty-scheduler/internal/httperr"
	"github.com/salonpuntos/loyalty-scheduler/internal/models"
	"github.com/salonpuntos/loyalty-scheduler/internal/timezone"
)

// FindRedemptionByCode is the desk lookup: staff types or scans the canje
// code the client presents.
type FindRedemptionByCode struct {
	repo domain.Repository
}

func NewFindRedemptionByCode(repo domain.Repository) *FindRedemptionByCode {
	return &FindRedemptionByCode{repo: repo}
}

func (uc *FindRedemptionByCode) Execute(
	ctx context.Context,
	establishmentID uint,
	code string,
) (*models.Redemption, error) {

	normalized := domain.NormalizeRedemptionCode(code)

	r, err := uc.repo.GetRedemptionByCode(ctx, establishmentID, normalized)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, httperr.ErrBusiness("redemption_not_found")
	}

	// A read that notices staleness flips the record so the desk sees the
	// truth instead of a confirmable-looking pending canje.
	if r.Status == string(domain.RedemptionPending) && domain.Expired(r, timezone.Now()) {
		r.Status = string(domain.RedemptionExpired)
		if err := uc.repo.UpdateRedemption(ctx, r); err != nil {
			return nil, err
		}
	}

	return r, nil
}
