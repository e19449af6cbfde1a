package listings

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/rmirandacr/vaultkeeper-backend/pkg/db/models"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/enums"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/pagination"
)

// Repository persists listings.
type Repository struct {
	conn *gorm.DB
}

func NewRepository(conn *gorm.DB) *Repository {
	return &Repository{conn: conn}
}

// WithTx rebinds the repository to a transaction handle.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{conn: tx}
}

func (r *Repository) Create(ctx context.Context, listing *models.Listing) (*models.Listing, error) {
	if err := r.conn.WithContext(ctx).Create(listing).Error; err != nil {
		return nil, err
	}
	return listing, nil
}

func (r *Repository) FindByID(ctx context.Context, id uint64) (*models.Listing, error) {
	var listing models.Listing
	if err := r.conn.WithContext(ctx).First(&listing, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &listing, nil
}

func (r *Repository) FindByVaultingID(ctx context.Context, vaultingID uint64) (*models.Listing, error) {
	var listing models.Listing
	if err := r.conn.WithContext(ctx).First(&listing, "vaulting_id = ?", vaultingID).Error; err != nil {
		return nil, err
	}
	return &listing, nil
}

func (r *Repository) UpdatePrice(ctx context.Context, id uint64, priceCents int64) error {
	return r.conn.WithContext(ctx).
		Model(&models.Listing{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{
			"price_cents": priceCents,
			"updated_at":  time.Now().UTC(),
		}).Error
}

func (r *Repository) MarkSold(ctx context.Context, id uint64, at time.Time) error {
	return r.conn.WithContext(ctx).
		Model(&models.Listing{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{
			"status":     enums.ListingStatusSold,
			"sold_at":    at,
			"updated_at": at,
		}).Error
}

func (r *Repository) MarkEnded(ctx context.Context, id uint64, at time.Time) error {
	return r.conn.WithContext(ctx).
		Model(&models.Listing{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{
			"status":     enums.ListingStatusEnded,
			"ended_at":   at,
			"updated_at": at,
		}).Error
}

// ListFilter narrows List results. Nil fields are ignored.
type ListFilter struct {
	UserID *uint64
	Status *enums.ListingStatus
}

func (r *Repository) List(ctx context.Context, filter ListFilter, page pagination.Params) ([]models.Listing, error) {
	q := r.conn.WithContext(ctx).Model(&models.Listing{})
	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}

	var rows []models.Listing
	if err := page.Apply(q).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
