package ledger

import (
	"context"
	"time"

	"github.com/salonpuntos/loyalty-scheduler/internal/models"
)

// Repository is the slice of the entity store the points/redemption core
// consumes. Balance never moves through absolute writes: every mutation is
// a guarded relative delta applied at the store.
type Repository interface {
	// -------- Client --------
	GetClient(
		ctx context.Context,
		clientID uint,
	) (*models.Client, error)

	GetClientByCode(
		ctx context.Context,
		establishmentID uint,
		code string,
	) (*models.Client, error)

	// AdjustBalance applies balance += delta atomically, refusing to go
	// negative (insufficient_balance business error). stampVisit also
	// touches last_visit, matching the earn flow.
	AdjustBalance(
		ctx context.Context,
		clientID uint,
		delta int,
		stampVisit bool,
	) error

	// -------- Reward --------
	GetReward(
		ctx context.Context,
		establishmentID uint,
		rewardID uint,
	) (*models.Reward, error)

	IncrementRedemptionCount(
		ctx context.Context,
		rewardID uint,
	) error

	// -------- Transaction (append-only) --------
	AppendTransaction(
		ctx context.Context,
		tx *models.Transaction,
	) error

	ListTransactionsByClient(
		ctx context.Context,
		clientID uint,
	) ([]models.Transaction, error)

	// SumTransactionsForDay feeds the daily dashboard stats.
	SumTransactionsForDay(
		ctx context.Context,
		establishmentID uint,
		dayStart time.Time,
		dayEnd time.Time,
	) (earned int, redeemed int, count int64, err error)

	// -------- Redemption --------

	// CreateRedemptionReserved debits the client's balance and inserts the
	// pending redemption in one transaction, so a crash can never leave a
	// debit without its canje record (or the reverse).
	CreateRedemptionReserved(
		ctx context.Context,
		r *models.Redemption,
	) error

	GetRedemption(
		ctx context.Context,
		redemptionID uint,
	) (*models.Redemption, error)

	GetRedemptionByCode(
		ctx context.Context,
		establishmentID uint,
		code string,
	) (*models.Redemption, error)

	UpdateRedemption(
		ctx context.Context,
		r *models.Redemption,
	) error

	// CancelRedemptionRefunded credits the snapshotted cost back and marks
	// the canje cancelled in one transaction.
	CancelRedemptionRefunded(
		ctx context.Context,
		r *models.Redemption,
		now time.Time,
	) error

	ListPendingByClient(
		ctx context.Context,
		clientID uint,
	) ([]models.Redemption, error)

	ListPendingByEstablishment(
		ctx context.Context,
		establishmentID uint,
	) ([]models.Redemption, error)

	ListRedemptionsByClient(
		ctx context.Context,
		clientID uint,
	) ([]models.Redemption, error)

	// ExpireOverdue flips pending redemptions whose window lapsed before
	// now. Returns how many rows moved.
	ExpireOverdue(
		ctx context.Context,
		now time.Time,
	) (int64, error)
}
