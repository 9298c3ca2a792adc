package redemption

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	domain "github.com/salonpuntos/loyalty-scheduler/internal/domain/ledger"
	"github.com/salonpuntos/loyalty-scheduler/internal/httperr"
	"github.com/salonpuntos/loyalty-scheduler/internal/models"
)

// fakeLedger is an in-memory domain.Repository with the same guarded-delta
// balance semantics as the real store.
type fakeLedger struct {
	clients     map[uint]*models.Client
	rewards     map[uint]*models.Reward
	redemptions map[uint]*models.Redemption
	txs         []models.Transaction

	nextID uint

	// codeCollisions makes the first N uniqueness probes report a hit.
	codeCollisions int
	codeProbes     int
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		clients:     map[uint]*models.Client{},
		rewards:     map[uint]*models.Reward{},
		redemptions: map[uint]*models.Redemption{},
		nextID:      1,
	}
}

func (f *fakeLedger) GetClient(_ context.Context, id uint) (*models.Client, error) {
	c, ok := f.clients[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return c, nil
}

func (f *fakeLedger) GetClientByCode(_ context.Context, estID uint, code string) (*models.Client, error) {
	for _, c := range f.clients {
		if c.EstablishmentID == estID && c.Code == code {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeLedger) AdjustBalance(_ context.Context, clientID uint, delta int, stampVisit bool) error {
	c, ok := f.clients[clientID]
	if !ok {
		return httperr.ErrBusiness("client_not_found")
	}
	if c.Balance+delta < 0 {
		return httperr.ErrBusinessDetail("insufficient_balance", "no tienes suficientes puntos")
	}
	c.Balance += delta
	if stampVisit {
		now := time.Now()
		c.LastVisit = &now
	}
	return nil
}

func (f *fakeLedger) GetReward(_ context.Context, estID, id uint) (*models.Reward, error) {
	r, ok := f.rewards[id]
	if !ok || r.EstablishmentID != estID {
		return nil, errors.New("not found")
	}
	return r, nil
}

func (f *fakeLedger) IncrementRedemptionCount(_ context.Context, rewardID uint) error {
	f.rewards[rewardID].RedemptionCount++
	return nil
}

func (f *fakeLedger) AppendTransaction(_ context.Context, tx *models.Transaction) error {
	tx.ID = f.nextID
	f.nextID++
	f.txs = append(f.txs, *tx)
	return nil
}

func (f *fakeLedger) ListTransactionsByClient(_ context.Context, clientID uint) ([]models.Transaction, error) {
	var out []models.Transaction
	for _, tx := range f.txs {
		if tx.ClientID == clientID {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (f *fakeLedger) SumTransactionsForDay(_ context.Context, _ uint, _, _ time.Time) (int, int, int64, error) {
	var earned, redeemed int
	for _, tx := range f.txs {
		switch tx.Type {
		case models.TransactionEarned:
			earned += tx.Amount
		case models.TransactionRedeemed:
			redeemed += tx.Amount
		}
	}
	return earned, redeemed, int64(len(f.txs)), nil
}

func (f *fakeLedger) CreateRedemptionReserved(ctx context.Context, r *models.Redemption) error {
	if err := f.AdjustBalance(ctx, r.ClientID, -r.RewardCost, false); err != nil {
		return err
	}
	r.ID = f.nextID
	f.nextID++
	f.redemptions[r.ID] = r
	return nil
}

func (f *fakeLedger) GetRedemption(_ context.Context, id uint) (*models.Redemption, error) {
	r, ok := f.redemptions[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return r, nil
}

func (f *fakeLedger) GetRedemptionByCode(_ context.Context, estID uint, code string) (*models.Redemption, error) {
	f.codeProbes++
	if f.codeProbes <= f.codeCollisions {
		return &models.Redemption{ID: 999, Code: code}, nil
	}
	for _, r := range f.redemptions {
		if r.EstablishmentID == estID && r.Code == code {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeLedger) UpdateRedemption(_ context.Context, r *models.Redemption) error {
	f.redemptions[r.ID] = r
	return nil
}

func (f *fakeLedger) CancelRedemptionRefunded(ctx context.Context, r *models.Redemption, now time.Time) error {
	if err := f.AdjustBalance(ctx, r.ClientID, r.RewardCost, false); err != nil {
		return err
	}
	r.Status = string(domain.RedemptionCancelled)
	r.CancelledAt = &now
	f.redemptions[r.ID] = r
	return nil
}

func (f *fakeLedger) ListPendingByClient(_ context.Context, clientID uint) ([]models.Redemption, error) {
	var out []models.Redemption
	for _, r := range f.redemptions {
		if r.ClientID == clientID && r.Status == string(domain.RedemptionPending) {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeLedger) ListPendingByEstablishment(_ context.Context, estID uint) ([]models.Redemption, error) {
	var out []models.Redemption
	for _, r := range f.redemptions {
		if r.EstablishmentID == estID && r.Status == string(domain.RedemptionPending) {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeLedger) ListRedemptionsByClient(_ context.Context, clientID uint) ([]models.Redemption, error) {
	var out []models.Redemption
	for _, r := range f.redemptions {
		if r.ClientID == clientID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeLedger) ExpireOverdue(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for _, r := range f.redemptions {
		if r.Status == string(domain.RedemptionPending) && now.After(r.ExpiresAt) {
			r.Status = string(domain.RedemptionExpired)
			n++
		}
	}
	return n, nil
}

var _ domain.Repository = (*fakeLedger)(nil)

func seedClientAndReward(f *fakeLedger, balance, cost int) {
	f.clients[1] = &models.Client{
		ID: 1, EstablishmentID: 1, Name: "María", Code: "ABC234", Balance: balance,
	}
	f.rewards[2] = &models.Reward{
		ID: 2, EstablishmentID: 1, Name: "Corte gratis", Cost: cost, Active: true,
	}
}

func TestRequestReservesPointsImmediately(t *testing.T) {
	f := newFakeLedger()
	seedClientAndReward(f, 100, 40)

	uc := NewRequestRedemption(f, nil)
	out, err := uc.Execute(context.Background(), RequestRedemptionInput{
		EstablishmentID: 1, ClientID: 1, RewardID: 2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if f.clients[1].Balance != 60 {
		t.Errorf("balance = %d, want 60 (debited on request)", f.clients[1].Balance)
	}
	if !strings.HasPrefix(out.Code, "CJ-") || len(out.Code) != 9 {
		t.Errorf("code = %q, want CJ-XXXXXX", out.Code)
	}
	if len(f.txs) != 0 {
		t.Errorf("request must not write a ledger transaction, got %d", len(f.txs))
	}

	r := f.redemptions[out.RedemptionID]
	if r == nil {
		t.Fatal("redemption not stored")
	}
	if r.Status != string(domain.RedemptionPending) {
		t.Errorf("status = %q, want pending", r.Status)
	}
	if r.ClientName != "María" || r.RewardName != "Corte gratis" || r.RewardCost != 40 {
		t.Errorf("snapshot wrong: %+v", r)
	}
}

func TestRequestInsufficientBalance(t *testing.T) {
	f := newFakeLedger()
	seedClientAndReward(f, 30, 40)

	uc := NewRequestRedemption(f, nil)
	_, err := uc.Execute(context.Background(), RequestRedemptionInput{
		EstablishmentID: 1, ClientID: 1, RewardID: 2,
	})
	if !httperr.IsBusiness(err, "insufficient_balance") {
		t.Fatalf("want insufficient_balance, got %v", err)
	}
	if f.clients[1].Balance != 30 {
		t.Errorf("balance moved on failed request: %d", f.clients[1].Balance)
	}
	if len(f.redemptions) != 0 {
		t.Error("redemption stored despite failure")
	}
}

func TestRequestInactiveReward(t *testing.T) {
	f := newFakeLedger()
	seedClientAndReward(f, 100, 40)
	f.rewards[2].Active = false

	uc := NewRequestRedemption(f, nil)
	_, err := uc.Execute(context.Background(), RequestRedemptionInput{
		EstablishmentID: 1, ClientID: 1, RewardID: 2,
	})
	if !httperr.IsBusiness(err, "reward_inactive") {
		t.Fatalf("want reward_inactive, got %v", err)
	}
}

func TestRequestRetriesCollidingCodes(t *testing.T) {
	f := newFakeLedger()
	seedClientAndReward(f, 100, 40)
	f.codeCollisions = 3

	uc := NewRequestRedemption(f, nil)
	out, err := uc.Execute(context.Background(), RequestRedemptionInput{
		EstablishmentID: 1, ClientID: 1, RewardID: 2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.codeProbes != 4 {
		t.Errorf("probes = %d, want 4 (three collisions then a free code)", f.codeProbes)
	}
	if !strings.HasPrefix(out.Code, "CJ-") {
		t.Errorf("code = %q", out.Code)
	}
}

func pendingRedemption(f *fakeLedger, expiresAt time.Time) *models.Redemption {
	r := &models.Redemption{
		ID: 10, Code: "CJ-ABC234", EstablishmentID: 1,
		ClientID: 1, ClientName: "María",
		RewardID: 2, RewardName: "Corte gratis", RewardCost: 40,
		Status:    string(domain.RedemptionPending),
		ExpiresAt: expiresAt,
	}
	f.redemptions[r.ID] = r
	return r
}

func TestConfirmWritesSingleRedeemedTransaction(t *testing.T) {
	f := newFakeLedger()
	seedClientAndReward(f, 60, 40) // already debited at request time
	pendingRedemption(f, time.Now().Add(time.Hour))

	uc := NewConfirmRedemption(f, nil)
	r, err := uc.Execute(context.Background(), 10, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if r.Status != string(domain.RedemptionConfirmed) {
		t.Errorf("status = %q", r.Status)
	}
	if r.ConfirmedBy == nil || *r.ConfirmedBy != 7 {
		t.Errorf("confirmed_by = %v, want 7", r.ConfirmedBy)
	}
	if f.clients[1].Balance != 60 {
		t.Errorf("confirm must not touch the balance again, got %d", f.clients[1].Balance)
	}
	if len(f.txs) != 1 {
		t.Fatalf("want exactly one transaction, got %d", len(f.txs))
	}
	tx := f.txs[0]
	if tx.Type != models.TransactionRedeemed || tx.Amount != 40 {
		t.Errorf("tx = %+v, want redeemed/40", tx)
	}
	if f.rewards[2].RedemptionCount != 1 {
		t.Errorf("redemption count = %d, want 1", f.rewards[2].RedemptionCount)
	}
}

func TestConfirmOverdueFlipsToExpired(t *testing.T) {
	f := newFakeLedger()
	seedClientAndReward(f, 60, 40)
	pendingRedemption(f, time.Now().Add(-time.Hour))

	uc := NewConfirmRedemption(f, nil)
	_, err := uc.Execute(context.Background(), 10, 7)
	if !httperr.IsBusiness(err, "redemption_expired") {
		t.Fatalf("want redemption_expired, got %v", err)
	}

	if f.redemptions[10].Status != string(domain.RedemptionExpired) {
		t.Errorf("stored status = %q, want expired", f.redemptions[10].Status)
	}
	if len(f.txs) != 0 {
		t.Error("expired confirm must not write a transaction")
	}
	if f.rewards[2].RedemptionCount != 0 {
		t.Error("expired confirm must not bump the counter")
	}
}

func TestConfirmTwiceFails(t *testing.T) {
	f := newFakeLedger()
	seedClientAndReward(f, 60, 40)
	pendingRedemption(f, time.Now().Add(time.Hour))

	uc := NewConfirmRedemption(f, nil)
	if _, err := uc.Execute(context.Background(), 10, 7); err != nil {
		t.Fatalf("first confirm failed: %v", err)
	}

	_, err := uc.Execute(context.Background(), 10, 7)
	if !httperr.IsBusiness(err, "redemption_confirmed") {
		t.Fatalf("want redemption_confirmed, got %v", err)
	}
	if len(f.txs) != 1 {
		t.Errorf("second confirm appended a transaction: %d", len(f.txs))
	}
}

func TestCancelRefundsReservedPoints(t *testing.T) {
	f := newFakeLedger()
	seedClientAndReward(f, 60, 40)
	pendingRedemption(f, time.Now().Add(time.Hour))

	uc := NewCancelRedemption(f, nil)
	r, err := uc.Execute(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if r.Status != string(domain.RedemptionCancelled) {
		t.Errorf("status = %q", r.Status)
	}
	if f.clients[1].Balance != 100 {
		t.Errorf("balance = %d, want 100 (refunded)", f.clients[1].Balance)
	}
	if len(f.txs) != 0 {
		t.Error("cancel must not write a ledger transaction")
	}
}

// Cancelling an overdue-but-unswept pending canje still refunds; only the
// confirm path enforces the window.
func TestCancelOverduePendingStillRefunds(t *testing.T) {
	f := newFakeLedger()
	seedClientAndReward(f, 60, 40)
	pendingRedemption(f, time.Now().Add(-time.Hour))

	uc := NewCancelRedemption(f, nil)
	if _, err := uc.Execute(context.Background(), 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.clients[1].Balance != 100 {
		t.Errorf("balance = %d, want 100", f.clients[1].Balance)
	}
}

func TestCancelResolvedRedemptionFails(t *testing.T) {
	f := newFakeLedger()
	seedClientAndReward(f, 60, 40)
	r := pendingRedemption(f, time.Now().Add(time.Hour))
	r.Status = string(domain.RedemptionExpired)

	uc := NewCancelRedemption(f, nil)
	_, err := uc.Execute(context.Background(), 10)
	if !httperr.IsBusiness(err, "redemption_expired") {
		t.Fatalf("want redemption_expired, got %v", err)
	}
	if f.clients[1].Balance != 60 {
		t.Errorf("expired canje must not refund, balance = %d", f.clients[1].Balance)
	}
}

func TestFindByCodeNormalizesAndLazilyExpires(t *testing.T) {
	f := newFakeLedger()
	seedClientAndReward(f, 60, 40)
	pendingRedemption(f, time.Now().Add(-time.Hour))

	uc := NewFindRedemptionByCode(f)
	r, err := uc.Execute(context.Background(), 1, "  cj-abc234 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Status != string(domain.RedemptionExpired) {
		t.Errorf("status = %q, want expired after lazy flip", r.Status)
	}
	if f.redemptions[10].Status != string(domain.RedemptionExpired) {
		t.Error("lazy expiry not persisted")
	}
}

func TestFindByCodeUnknown(t *testing.T) {
	f := newFakeLedger()

	uc := NewFindRedemptionByCode(f)
	_, err := uc.Execute(context.Background(), 1, "CJ-ZZZZZZ")
	if !httperr.IsBusiness(err, "redemption_not_found") {
		t.Fatalf("want redemption_not_found, got %v", err)
	}
}
