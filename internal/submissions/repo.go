package submissions

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/rmirandacr/vaultkeeper-backend/pkg/db/models"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/enums"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/pagination"
)

// Repository exposes submission persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a submissions repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new submission row.
func (r *Repository) Create(ctx context.Context, sub *models.Submission) (*models.Submission, error) {
	if err := r.db.WithContext(ctx).Create(sub).Error; err != nil {
		return nil, err
	}
	return sub, nil
}

// FindByID loads a submission by id.
func (r *Repository) FindByID(ctx context.Context, id uint64) (*models.Submission, error) {
	var sub models.Submission
	if err := r.db.WithContext(ctx).First(&sub, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

// FindByItemID loads the submission for an item. Exactly one exists per item.
func (r *Repository) FindByItemID(ctx context.Context, itemID uint64) (*models.Submission, error) {
	var sub models.Submission
	if err := r.db.WithContext(ctx).Where("item_id = ?", itemID).First(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

// MarkReceived moves the submission to received and stamps received_at only.
func (r *Repository) MarkReceived(ctx context.Context, id uint64, at time.Time) error {
	return r.updateStatus(ctx, id, enums.SubmissionStatusReceived, "received_at", at)
}

// MarkApproved moves the submission to approved and stamps approved_at only.
func (r *Repository) MarkApproved(ctx context.Context, id uint64, at time.Time) error {
	return r.updateStatus(ctx, id, enums.SubmissionStatusApproved, "approved_at", at)
}

// MarkRejected moves the submission to rejected and stamps rejected_at only.
func (r *Repository) MarkRejected(ctx context.Context, id uint64, at time.Time) error {
	return r.updateStatus(ctx, id, enums.SubmissionStatusRejected, "rejected_at", at)
}

// MarkVaulted moves the submission to vaulted; no timestamp column belongs to
// this transition.
func (r *Repository) MarkVaulted(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).
		Model(&models.Submission{}).
		Where("id = ?", id).
		UpdateColumn("status", enums.SubmissionStatusVaulted).Error
}

func (r *Repository) updateStatus(ctx context.Context, id uint64, status enums.SubmissionStatus, stampColumn string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Submission{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{
			"status":    status,
			stampColumn: at,
		}).Error
}

// ListFilter narrows a submission listing.
type ListFilter struct {
	UserID *uint64
	Status *enums.SubmissionStatus
}

// List returns submissions matching the filter, ordered by id.
func (r *Repository) List(ctx context.Context, filter ListFilter, page pagination.Params) ([]models.Submission, error) {
	q := r.db.WithContext(ctx).Model(&models.Submission{})
	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}

	var subs []models.Submission
	if err := page.Apply(q).Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}
