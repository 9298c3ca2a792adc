package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	domain "github.com/salonpuntos/loyalty-scheduler/internal/domain/ledger"
	"github.com/salonpuntos/loyalty-scheduler/internal/httperr"
	"github.com/salonpuntos/loyalty-scheduler/internal/models"
)

type LedgerGormRepository struct {
	db *gorm.DB
}

func NewLedgerGormRepository(db *gorm.DB) *LedgerGormRepository {
	return &LedgerGormRepository{db: db}
}

// --------------------------------------------------
// Client
// --------------------------------------------------

func (r *LedgerGormRepository) GetClient(
	ctx context.Context,
	clientID uint,
) (*models.Client, error) {

	var client models.Client
	if err := r.db.WithContext(ctx).First(&client, clientID).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *LedgerGormRepository) GetClientByCode(
	ctx context.Context,
	establishmentID uint,
	code string,
) (*models.Client, error) {

	var client models.Client
	err := r.db.WithContext(ctx).
		Where("establishment_id = ? AND code = ?", establishmentID, code).
		First(&client).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *LedgerGormRepository) AdjustBalance(
	ctx context.Context,
	clientID uint,
	delta int,
	stampVisit bool,
) error {
	return adjustBalance(r.db.WithContext(ctx), clientID, delta, stampVisit)
}

// adjustBalance is the single balance-mutation primitive: a guarded
// relative update executed at the store, so concurrent movements on the
// same client serialize on the row instead of losing writes, and the
// balance can never be driven below zero.
func adjustBalance(tx *gorm.DB, clientID uint, delta int, stampVisit bool) error {
	updates := map[string]any{
		"balance": gorm.Expr("balance + ?", delta),
	}
	if stampVisit {
		updates["last_visit"] = time.Now()
	}

	res := tx.Model(&models.Client{}).
		Where("id = ? AND balance + ? >= 0", clientID, delta).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		// Either the client vanished or the guard refused the debit.
		var count int64
		if err := tx.Model(&models.Client{}).Where("id = ?", clientID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return httperr.ErrBusiness("client_not_found")
		}
		return httperr.ErrBusinessDetail("insufficient_balance", "saldo insuficiente")
	}

	return nil
}

// --------------------------------------------------
// Reward
// --------------------------------------------------

func (r *LedgerGormRepository) GetReward(
	ctx context.Context,
	establishmentID uint,
	rewardID uint,
) (*models.Reward, error) {

	var reward models.Reward
	if err := r.db.WithContext(ctx).
		Where("id = ? AND establishment_id = ?", rewardID, establishmentID).
		First(&reward).Error; err != nil {
		return nil, err
	}
	return &reward, nil
}

func (r *LedgerGormRepository) IncrementRedemptionCount(
	ctx context.Context,
	rewardID uint,
) error {
	return r.db.WithContext(ctx).
		Model(&models.Reward{}).
		Where("id = ?", rewardID).
		UpdateColumn("redemption_count", gorm.Expr("redemption_count + 1")).
		Error
}

// --------------------------------------------------
// Transaction (append-only)
// --------------------------------------------------

func (r *LedgerGormRepository) AppendTransaction(
	ctx context.Context,
	tx *models.Transaction,
) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

func (r *LedgerGormRepository) ListTransactionsByClient(
	ctx context.Context,
	clientID uint,
) ([]models.Transaction, error) {

	var txs []models.Transaction
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Find(&txs).Error
	if err != nil {
		return nil, err
	}
	return txs, nil
}

func (r *LedgerGormRepository) SumTransactionsForDay(
	ctx context.Context,
	establishmentID uint,
	dayStart time.Time,
	dayEnd time.Time,
) (int, int, int64, error) {

	type row struct {
		Type  string
		Total int
		N     int64
	}

	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Select("type, COALESCE(SUM(amount), 0) AS total, COUNT(*) AS n").
		Where(
			"establishment_id = ? AND created_at >= ? AND created_at < ?",
			establishmentID, dayStart, dayEnd,
		).
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return 0, 0, 0, err
	}

	var earned, redeemed int
	var count int64
	for _, rw := range rows {
		count += rw.N
		switch rw.Type {
		case models.TransactionEarned:
			earned = rw.Total
		case models.TransactionRedeemed:
			redeemed = rw.Total
		}
	}
	return earned, redeemed, count, nil
}

// --------------------------------------------------
// Redemption
// --------------------------------------------------

func (r *LedgerGormRepository) CreateRedemptionReserved(
	ctx context.Context,
	red *models.Redemption,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := adjustBalance(tx, red.ClientID, -red.RewardCost, false); err != nil {
			return err
		}
		return tx.Create(red).Error
	})
}

func (r *LedgerGormRepository) GetRedemption(
	ctx context.Context,
	redemptionID uint,
) (*models.Redemption, error) {

	var red models.Redemption
	err := r.db.WithContext(ctx).First(&red, redemptionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &red, nil
}

func (r *LedgerGormRepository) GetRedemptionByCode(
	ctx context.Context,
	establishmentID uint,
	code string,
) (*models.Redemption, error) {

	var red models.Redemption
	err := r.db.WithContext(ctx).
		Where("establishment_id = ? AND code = ?", establishmentID, code).
		First(&red).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &red, nil
}

func (r *LedgerGormRepository) UpdateRedemption(
	ctx context.Context,
	red *models.Redemption,
) error {
	return r.db.WithContext(ctx).Save(red).Error
}

func (r *LedgerGormRepository) CancelRedemptionRefunded(
	ctx context.Context,
	red *models.Redemption,
	now time.Time,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := adjustBalance(tx, red.ClientID, red.RewardCost, false); err != nil {
			return err
		}

		red.Status = string(domain.RedemptionCancelled)
		red.CancelledAt = &now
		return tx.Save(red).Error
	})
}

func (r *LedgerGormRepository) ListPendingByClient(
	ctx context.Context,
	clientID uint,
) ([]models.Redemption, error) {
	return r.listRedemptions(ctx, "client_id = ? AND status = ?", clientID, string(domain.RedemptionPending))
}

func (r *LedgerGormRepository) ListPendingByEstablishment(
	ctx context.Context,
	establishmentID uint,
) ([]models.Redemption, error) {
	return r.listRedemptions(ctx, "establishment_id = ? AND status = ?", establishmentID, string(domain.RedemptionPending))
}

func (r *LedgerGormRepository) ListRedemptionsByClient(
	ctx context.Context,
	clientID uint,
) ([]models.Redemption, error) {
	return r.listRedemptions(ctx, "client_id = ?", clientID)
}

func (r *LedgerGormRepository) listRedemptions(
	ctx context.Context,
	query string,
	args ...any,
) ([]models.Redemption, error) {

	var reds []models.Redemption
	err := r.db.WithContext(ctx).
		Where(query, args...).
		Order("created_at DESC").
		Find(&reds).Error
	if err != nil {
		return nil, err
	}
	return reds, nil
}

func (r *LedgerGormRepository) ExpireOverdue(
	ctx context.Context,
	now time.Time,
) (int64, error) {

	res := r.db.WithContext(ctx).
		Model(&models.Redemption{}).
		Where("status = ? AND expires_at < ?", string(domain.RedemptionPending), now).
		Update("status", string(domain.RedemptionExpired))
	return res.RowsAffected, res.Error
}

// Compile-time check
var _ domain.Repository = (*LedgerGormRepository)(nil)
