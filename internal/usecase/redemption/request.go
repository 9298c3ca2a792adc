package redemption

import (
	"context"

	"github.com/salonpuntos/loyalty-scheduler/internal/audit"
	domain "github.com/salonpuntos/loyalty-scheduler/internal/domain/ledger"
	"github.com/salonpuntos/loyalty-scheduler/internal/httperr"
	"github.com/salonpuntos/loyalty-scheduler/internal/models"
	"github.com/salonpuntos/loyalty-scheduler/internal/timezone"
)

// ======================================================
// INPUT / OUTPUT
// ======================================================

type RequestRedemptionInput struct {
	EstablishmentID uint
	ClientID        uint
	RewardID        uint
}

type RequestRedemptionOutput struct {
	RedemptionID uint   `json:"redemption_id"`
	Code         string `json:"code"`
}

// ======================================================
// USE CASE
// ======================================================

// RequestRedemption opens the two-phase canje: the reward's cost is debited
// immediately (reserved), the pending record carries a denormalized snapshot
// of client and reward, and no ledger transaction is written until staff
// confirms. Debit and insert commit together.
type RequestRedemption struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewRequestRedemption(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *RequestRedemption {
	return &RequestRedemption{
		repo:  repo,
		audit: audit,
	}
}

func (uc *RequestRedemption) Execute(
	ctx context.Context,
	in RequestRedemptionInput,
) (*RequestRedemptionOutput, error) {

	client, err := uc.repo.GetClient(ctx, in.ClientID)
	if err != nil {
		return nil, httperr.ErrBusiness("client_not_found")
	}

	reward, err := uc.repo.GetReward(ctx, in.EstablishmentID, in.RewardID)
	if err != nil {
		return nil, httperr.ErrBusiness("reward_not_found")
	}

	if !reward.Active {
		return nil, httperr.ErrBusinessDetail("reward_inactive", "esta recompensa ya no está disponible")
	}

	// Friendly pre-check; the guarded delta inside the reservation is what
	// actually protects the balance under concurrency.
	if client.Balance < reward.Cost {
		return nil, httperr.ErrBusinessDetail("insufficient_balance", "no tienes suficientes puntos")
	}

	code, err := uc.uniqueCode(ctx, in.EstablishmentID)
	if err != nil {
		return nil, err
	}

	now := timezone.Now()
	r := &models.Redemption{
		Code:            code,
		EstablishmentID: in.EstablishmentID,
		ClientID:        client.ID,
		ClientName:      client.Name,
		RewardID:        reward.ID,
		RewardName:      reward.Name,
		RewardCost:      reward.Cost,
		Status:          string(domain.RedemptionPending),
		ExpiresAt:       now.Add(domain.RedemptionTTL),
	}

	if err := uc.repo.CreateRedemptionReserved(ctx, r); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		EstablishmentID: in.EstablishmentID,
		UserID:          client.UserID,
		Action:          "redemption_requested",
		Entity:          "redemption",
		EntityID:        &r.ID,
		Metadata:        map[string]any{"code": code, "cost": reward.Cost},
	})

	return &RequestRedemptionOutput{
		RedemptionID: r.ID,
		Code:         code,
	}, nil
}

// uniqueCode retries random generation against a per-establishment
// uniqueness check. The bounded loop mirrors client-code minting; after the
// attempts run out the last candidate is used anyway. At this alphabet size
// a surviving collision is vanishingly rare.
func (uc *RequestRedemption) uniqueCode(
	ctx context.Context,
	establishmentID uint,
) (string, error) {

	code := domain.NewRedemptionCode()
	for attempt := 0; attempt < domain.CodeGenerationAttempts; attempt++ {
		existing, err := uc.repo.GetRedemptionByCode(ctx, establishmentID, code)
		if err != nil {
			return "", err
		}
		if existing == nil {
			break
		}
		code = domain.NewRedemptionCode()
	}
	return code, nil
}
