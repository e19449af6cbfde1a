package vaultings

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/rmirandacr/vaultkeeper-backend/pkg/db/models"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/enums"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/pagination"
)

// Repository exposes vaulting persistence operations. The item_id unique
// constraint backs the one-vaulting-per-item invariant.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a vaultings repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new vaulting row.
func (r *Repository) Create(ctx context.Context, v *models.Vaulting) (*models.Vaulting, error) {
	if err := r.db.WithContext(ctx).Create(v).Error; err != nil {
		return nil, err
	}
	return v, nil
}

// FindByID loads a vaulting by id.
func (r *Repository) FindByID(ctx context.Context, id uint64) (*models.Vaulting, error) {
	var v models.Vaulting
	if err := r.db.WithContext(ctx).First(&v, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

// FindByItemID loads the vaulting for an item.
func (r *Repository) FindByItemID(ctx context.Context, itemID uint64) (*models.Vaulting, error) {
	var v models.Vaulting
	if err := r.db.WithContext(ctx).Where("item_id = ?", itemID).First(&v).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

// SetMintJob stores the mint job id handed back by the minting service.
func (r *Repository) SetMintJob(ctx context.Context, id uint64, jobID string) error {
	return r.db.WithContext(ctx).
		Model(&models.Vaulting{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{
			"mint_job_id": jobID,
			"updated_at":  time.Now().UTC(),
		}).Error
}

// ConfirmMint applies the mint confirmation fields and moves the record to
// minted. The collection address is case-normalized before persistence.
func (r *Repository) ConfirmMint(ctx context.Context, id uint64, chainID int64, collection, tokenID, mintTxHash string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Vaulting{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{
			"status":       enums.VaultingStatusMinted,
			"chain_id":     chainID,
			"collection":   strings.ToLower(collection),
			"token_id":     tokenID,
			"mint_tx_hash": mintTxHash,
			"minted_at":    at,
			"updated_at":   at,
		}).Error
}

// SetWithdrawing stores the burn job id and moves the record to withdrawing.
func (r *Repository) SetWithdrawing(ctx context.Context, id uint64, burnJobID string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Vaulting{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{
			"status":      enums.VaultingStatusWithdrawing,
			"burn_job_id": burnJobID,
			"updated_at":  at,
		}).Error
}

// ConfirmBurn applies the burn confirmation and moves the record to withdrawn.
func (r *Repository) ConfirmBurn(ctx context.Context, id uint64, burnTxHash string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Vaulting{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{
			"status":       enums.VaultingStatusWithdrawn,
			"burn_tx_hash": burnTxHash,
			"burned_at":    at,
			"updated_at":   at,
		}).Error
}

// ListFilter narrows a vaulting listing.
type ListFilter struct {
	UserID *uint64
	Status *enums.VaultingStatus
}

// List returns vaultings matching the filter, ordered by id.
func (r *Repository) List(ctx context.Context, filter ListFilter, page pagination.Params) ([]models.Vaulting, error) {
	q := r.db.WithContext(ctx).Model(&models.Vaulting{})
	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}

	var rows []models.Vaulting
	if err := page.Apply(q).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
