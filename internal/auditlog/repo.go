package auditlog

import (
	"context"

	"gorm.io/gorm"

	"github.com/rmirandacr/vaultkeeper-backend/pkg/db/models"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/enums"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/pagination"
)

// Repository persists append-only action log rows. Rows are never updated
// or deleted.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an audit log repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Append inserts one action log row.
func (r *Repository) Append(ctx context.Context, entry *models.ActionLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// ListFilter narrows an audit query by actor and/or entity.
type ListFilter struct {
	ActorID    *uint64
	ActorType  *enums.ActorType
	EntityID   *uint64
	EntityType *enums.EntityType
}

// List returns entries matching the filter, ordered by id.
func (r *Repository) List(ctx context.Context, filter ListFilter, page pagination.Params) ([]models.ActionLog, error) {
	q := r.db.WithContext(ctx).Model(&models.ActionLog{})

	if filter.ActorID != nil {
		q = q.Where("actor_id = ?", *filter.ActorID)
	}
	if filter.ActorType != nil {
		q = q.Where("actor_type = ?", *filter.ActorType)
	}
	if filter.EntityID != nil {
		q = q.Where("entity_id = ?", *filter.EntityID)
	}
	if filter.EntityType != nil {
		q = q.Where("entity_type = ?", *filter.EntityType)
	}

	var entries []models.ActionLog
	if err := page.Apply(q).Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
