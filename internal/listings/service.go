package listings

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rmirandacr/vaultkeeper-backend/internal/auditlog"
	"github.com/rmirandacr/vaultkeeper-backend/internal/items"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/db"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/db/models"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/enums"
	pkgerrors "github.com/rmirandacr/vaultkeeper-backend/pkg/errors"
)

// Service manages the sale record attached to a vaulting. Sold and Ended are
// driven by external marketplace events; price changes stay with the owner.
type Service interface {
	Create(ctx context.Context, actor auditlog.Actor, itemUUID uuid.UUID, priceCents int64) (*ListingDTO, error)
	Get(ctx context.Context, itemUUID uuid.UUID) (*ListingDTO, error)
	UpdatePrice(ctx context.Context, actor auditlog.Actor, itemUUID uuid.UUID, priceCents int64) (*ListingDTO, error)
	MarkSold(ctx context.Context, actor auditlog.Actor, itemUUID uuid.UUID) (*ListingDTO, error)
	MarkEnded(ctx context.Context, actor auditlog.Actor, itemUUID uuid.UUID) (*ListingDTO, error)
}

type vaultingLoader interface {
	FindByItemID(ctx context.Context, itemID uint64) (*models.Vaulting, error)
}

type service struct {
	repo      *Repository
	itemRepo  *items.Repository
	vaultings vaultingLoader
	dbClient  *db.Client
	audit     auditlog.Service
}

// NewService constructs a listings service instance.
func NewService(
	repo *Repository,
	itemRepo *items.Repository,
	vaultings vaultingLoader,
	dbClient *db.Client,
	audit auditlog.Service,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("listings repository required")
	}
	if itemRepo == nil {
		return nil, fmt.Errorf("items repository required")
	}
	if vaultings == nil {
		return nil, fmt.Errorf("vaulting loader required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if audit == nil {
		return nil, fmt.Errorf("audit log service required")
	}
	return &service{
		repo:      repo,
		itemRepo:  itemRepo,
		vaultings: vaultings,
		dbClient:  dbClient,
		audit:     audit,
	}, nil
}

// Create lists a minted vaulting for sale. At most one listing ever exists
// per vaulting.
func (s *service) Create(ctx context.Context, actor auditlog.Actor, itemUUID uuid.UUID, priceCents int64) (*ListingDTO, error) {
	if priceCents <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
	}

	item, err := s.loadItem(ctx, itemUUID)
	if err != nil {
		return nil, err
	}

	var listing *models.Listing
	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		vaulting, loadErr := s.vaultings.FindByItemID(ctx, item.ID)
		if loadErr != nil {
			if db.IsNotFound(loadErr) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "vaulting not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, loadErr, "db: load vaulting")
		}
		if vaulting.Status != enums.VaultingStatusMinted {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "vaulting not minted")
		}

		created, createErr := txRepo.Create(ctx, &models.Listing{
			VaultingID: vaulting.ID,
			UserID:     item.UserID,
			PriceCents: priceCents,
			Status:     enums.ListingStatusListed,
		})
		if createErr != nil {
			if db.IsUniqueViolation(createErr) {
				return pkgerrors.New(pkgerrors.CodeConflict, "listing already exists for vaulting")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, createErr, "db: insert listing")
		}
		listing = created
		return nil
	})
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create listing")
	}

	s.audit.Record(ctx, auditlog.Entry{
		Action:     enums.ActionListingCreated,
		Actor:      actor,
		EntityID:   listing.ID,
		EntityType: enums.EntityTypeListing,
		Payload: map[string]any{
			"item_uuid":   itemUUID,
			"price_cents": priceCents,
		},
	})

	return NewListingDTO(listing, itemUUID), nil
}

func (s *service) Get(ctx context.Context, itemUUID uuid.UUID) (*ListingDTO, error) {
	item, err := s.loadItem(ctx, itemUUID)
	if err != nil {
		return nil, err
	}
	listing, err := s.loadListing(ctx, s.repo, item.ID)
	if err != nil {
		return nil, err
	}
	return NewListingDTO(listing, itemUUID), nil
}

// UpdatePrice changes the asking price. Only a live listing is repriceable.
func (s *service) UpdatePrice(ctx context.Context, actor auditlog.Actor, itemUUID uuid.UUID, priceCents int64) (*ListingDTO, error) {
	if priceCents <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
	}
	return s.transition(ctx, actor, itemUUID, enums.ActionListingPriceSet, func(txRepo *Repository, listing *models.Listing) error {
		if listing.Status != enums.ListingStatusListed {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "listing not listed")
		}
		return txRepo.UpdatePrice(ctx, listing.ID, priceCents)
	})
}

// MarkSold applies an external sale event.
func (s *service) MarkSold(ctx context.Context, actor auditlog.Actor, itemUUID uuid.UUID) (*ListingDTO, error) {
	return s.transition(ctx, actor, itemUUID, enums.ActionListingSold, func(txRepo *Repository, listing *models.Listing) error {
		if listing.Status != enums.ListingStatusListed {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "listing not listed")
		}
		return txRepo.MarkSold(ctx, listing.ID, time.Now().UTC())
	})
}

// MarkEnded applies an external cancellation event.
func (s *service) MarkEnded(ctx context.Context, actor auditlog.Actor, itemUUID uuid.UUID) (*ListingDTO, error) {
	return s.transition(ctx, actor, itemUUID, enums.ActionListingEnded, func(txRepo *Repository, listing *models.Listing) error {
		if listing.Status != enums.ListingStatusListed {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "listing not listed")
		}
		return txRepo.MarkEnded(ctx, listing.ID, time.Now().UTC())
	})
}

func (s *service) transition(
	ctx context.Context,
	actor auditlog.Actor,
	itemUUID uuid.UUID,
	action enums.ActionType,
	apply func(txRepo *Repository, listing *models.Listing) error,
) (*ListingDTO, error) {
	item, err := s.loadItem(ctx, itemUUID)
	if err != nil {
		return nil, err
	}

	var updated *models.Listing
	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		listing, loadErr := s.loadListing(ctx, txRepo, item.ID)
		if loadErr != nil {
			return loadErr
		}
		if applyErr := apply(txRepo, listing); applyErr != nil {
			if pkgerrors.As(applyErr) != nil {
				return applyErr
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, applyErr, "db: update listing")
		}

		reloaded, reloadErr := txRepo.FindByID(ctx, listing.ID)
		if reloadErr != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, reloadErr, "db: reload listing")
		}
		updated = reloaded
		return nil
	})
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update listing")
	}

	s.audit.Record(ctx, auditlog.Entry{
		Action:     action,
		Actor:      actor,
		EntityID:   updated.ID,
		EntityType: enums.EntityTypeListing,
		Payload: map[string]any{
			"item_uuid":   itemUUID,
			"status":      updated.Status,
			"price_cents": updated.PriceCents,
		},
	})

	return NewListingDTO(updated, itemUUID), nil
}

func (s *service) loadItem(ctx context.Context, itemUUID uuid.UUID) (*models.Item, error) {
	item, err := s.itemRepo.FindByUUID(ctx, itemUUID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load item")
	}
	return item, nil
}

func (s *service) loadListing(ctx context.Context, repo *Repository, itemID uint64) (*models.Listing, error) {
	vaulting, err := s.vaultings.FindByItemID(ctx, itemID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vaulting not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load vaulting")
	}
	listing, err := repo.FindByVaultingID(ctx, vaulting.ID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "listing not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load listing")
	}
	return listing, nil
}
