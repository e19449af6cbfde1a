package users

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rmirandacr/vaultkeeper-backend/pkg/db"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/db/models"
)

// Repository exposes user-related persistence operations. Users are created
// lazily on the first reference to an unknown uuid and are never deleted.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// EnsureByUUID returns the user for the uuid, creating the row with the
// identity-provider source tag when it does not exist yet. A concurrent
// insert losing the unique-constraint race falls back to the winner's row.
func (r *Repository) EnsureByUUID(ctx context.Context, id uuid.UUID, source string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("uuid = ?", id).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !db.IsNotFound(err) {
		return nil, err
	}

	user = models.User{UUID: id, Source: source}
	if createErr := r.db.WithContext(ctx).Create(&user).Error; createErr != nil {
		if db.IsUniqueViolation(createErr) {
			var existing models.User
			if findErr := r.db.WithContext(ctx).Where("uuid = ?", id).First(&existing).Error; findErr == nil {
				return &existing, nil
			}
		}
		return nil, createErr
	}
	return &user, nil
}

// FindByUUID loads a user by their external uuid.
func (r *Repository) FindByUUID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("uuid = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID loads a user by their internal id.
func (r *Repository) FindByID(ctx context.Context, id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
