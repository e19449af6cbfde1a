package inventory

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/rmirandacr/vaultkeeper-backend/pkg/db/models"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/enums"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/pagination"
)

// Repository persists inventory slots.
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

func (r *Repository) Create(ctx context.Context, slot *models.InventorySlot) (*models.InventorySlot, error) {
	if err := r.conn.WithContext(ctx).Create(slot).Error; err != nil {
		return nil, err
	}
	return slot, nil
}

func (r *Repository) FindByID(ctx context.Context, id uint64) (*models.InventorySlot, error) {
	var slot models.InventorySlot
	if err := r.conn.WithContext(ctx).First(&slot, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *Repository) FindByItemID(ctx context.Context, itemID uint64) (*models.InventorySlot, error) {
	var slot models.InventorySlot
	if err := r.conn.WithContext(ctx).First(&slot, "item_id = ?", itemID).Error; err != nil {
		return nil, err
	}
	return &slot, nil
}

// ListStored returns every slot still physically occupied. Collision checks
// run against this set.
func (r *Repository) ListStored(ctx context.Context) ([]models.InventorySlot, error) {
	var rows []models.InventorySlot
	err := r.conn.WithContext(ctx).
		Where("status = ?", enums.InventoryStatusStored).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) Update(ctx context.Context, slot *models.InventorySlot) error {
	return r.conn.WithContext(ctx).
		Model(&models.InventorySlot{}).
		Where("id = ?", slot.ID).
		UpdateColumns(map[string]any{
			"vault":      slot.Vault,
			"zone":       slot.Zone,
			"shelf":      slot.Shelf,
			"row":        slot.Row,
			"box":        slot.Box,
			"slot":       slot.Slot,
			"label":      slot.Label,
			"note":       slot.Note,
			"updated_at": time.Now().UTC(),
		}).Error
}

// ReleaseByItemID frees the slot once the item leaves custody.
func (r *Repository) ReleaseByItemID(ctx context.Context, itemID uint64) error {
	result := r.conn.WithContext(ctx).
		Model(&models.InventorySlot{}).
		Where("item_id = ? AND status = ?", itemID, enums.InventoryStatusStored).
		UpdateColumns(map[string]any{
			"status":     enums.InventoryStatusReleased,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListFilter narrows List results. Nil fields are ignored.
type ListFilter struct {
	Status *enums.InventoryStatus
	Vault  *string
}

func (r *Repository) List(ctx context.Context, filter ListFilter, page pagination.Params) ([]models.InventorySlot, error) {
	q := r.conn.WithContext(ctx).Model(&models.InventorySlot{})
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if filter.Vault != nil {
		q = q.Where("vault = ?", *filter.Vault)
	}

	var rows []models.InventorySlot
	if err := page.Apply(q).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
