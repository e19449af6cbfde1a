package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rmirandacr/vaultkeeper-backend/internal/auditlog"
	"github.com/rmirandacr/vaultkeeper-backend/internal/items"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/db"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/db/models"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/enums"
	pkgerrors "github.com/rmirandacr/vaultkeeper-backend/pkg/errors"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/pagination"
)

// AssignInput places an item into a physical location. Dimensions left nil
// are wildcards.
type AssignInput struct {
	Location LocationKey
	Label    string
	Note     string
}

// Service allocates physical storage slots for vaulted items and guards the
// no-overlapping-locations invariant.
type Service interface {
	Assign(ctx context.Context, actor auditlog.Actor, itemUUID uuid.UUID, input AssignInput) (*SlotDTO, error)
	Update(ctx context.Context, actor auditlog.Actor, itemUUID uuid.UUID, input AssignInput) (*SlotDTO, error)
	Get(ctx context.Context, itemUUID uuid.UUID) (*SlotDTO, error)
	List(ctx context.Context, filter ListFilter, page pagination.Params) ([]SlotDTO, error)
}

type vaultingChecker interface {
	FindByItemID(ctx context.Context, itemID uint64) (*models.Vaulting, error)
}

type service struct {
	repo      *Repository
	itemRepo  *items.Repository
	vaultings vaultingChecker
	dbClient  *db.Client
	audit     auditlog.Service
}

// NewService constructs an inventory service instance.
func NewService(
	repo *Repository,
	itemRepo *items.Repository,
	vaultings vaultingChecker,
	dbClient *db.Client,
	audit auditlog.Service,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if itemRepo == nil {
		return nil, fmt.Errorf("items repository required")
	}
	if vaultings == nil {
		return nil, fmt.Errorf("vaulting checker required")
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

// Assign stores the item at the given location after checking that the item
// is vaulted, has no slot yet, and that no stored slot overlaps the key.
func (s *service) Assign(ctx context.Context, actor auditlog.Actor, itemUUID uuid.UUID, input AssignInput) (*SlotDTO, error) {
	item, err := s.loadItem(ctx, itemUUID)
	if err != nil {
		return nil, err
	}

	if _, err := s.vaultings.FindByItemID(ctx, item.ID); err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "item not vaulted")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load vaulting")
	}

	var slot *models.InventorySlot
	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		if _, findErr := txRepo.FindByItemID(ctx, item.ID); findErr == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "item already has an inventory slot")
		} else if !db.IsNotFound(findErr) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, findErr, "db: load inventory slot")
		}

		if collideErr := s.checkCollision(ctx, txRepo, input.Location, 0); collideErr != nil {
			return collideErr
		}

		created, createErr := txRepo.Create(ctx, &models.InventorySlot{
			ItemID: item.ID,
			Vault:  input.Location.Vault,
			Zone:   input.Location.Zone,
			Shelf:  input.Location.Shelf,
			Row:    input.Location.Row,
			Box:    input.Location.Box,
			Slot:   input.Location.Slot,
			Label:  input.Label,
			Note:   input.Note,
			Status: enums.InventoryStatusStored,
		})
		if createErr != nil {
			if db.IsUniqueViolation(createErr) {
				return pkgerrors.New(pkgerrors.CodeConflict, "item already has an inventory slot")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, createErr, "db: insert inventory slot")
		}
		slot = created
		return nil
	})
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "assign inventory slot")
	}

	s.audit.Record(ctx, auditlog.Entry{
		Action:     enums.ActionInventoryAssigned,
		Actor:      actor,
		EntityID:   slot.ID,
		EntityType: enums.EntityTypeInventory,
		Payload: map[string]any{
			"item_uuid": itemUUID,
			"location":  locationOf(slot).Render(),
		},
	})

	return NewSlotDTO(slot, itemUUID), nil
}

// Update moves the slot to a new location, re-running the collision check
// against every other stored slot.
func (s *service) Update(ctx context.Context, actor auditlog.Actor, itemUUID uuid.UUID, input AssignInput) (*SlotDTO, error) {
	item, err := s.loadItem(ctx, itemUUID)
	if err != nil {
		return nil, err
	}

	var slot *models.InventorySlot
	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		current, findErr := txRepo.FindByItemID(ctx, item.ID)
		if findErr != nil {
			if db.IsNotFound(findErr) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "inventory slot not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, findErr, "db: load inventory slot")
		}

		if collideErr := s.checkCollision(ctx, txRepo, input.Location, current.ID); collideErr != nil {
			return collideErr
		}

		current.Vault = input.Location.Vault
		current.Zone = input.Location.Zone
		current.Shelf = input.Location.Shelf
		current.Row = input.Location.Row
		current.Box = input.Location.Box
		current.Slot = input.Location.Slot
		current.Label = input.Label
		current.Note = input.Note
		if updateErr := txRepo.Update(ctx, current); updateErr != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, updateErr, "db: update inventory slot")
		}
		slot = current
		return nil
	})
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update inventory slot")
	}

	s.audit.Record(ctx, auditlog.Entry{
		Action:     enums.ActionInventoryUpdated,
		Actor:      actor,
		EntityID:   slot.ID,
		EntityType: enums.EntityTypeInventory,
		Payload: map[string]any{
			"item_uuid": itemUUID,
			"location":  locationOf(slot).Render(),
		},
	})

	return NewSlotDTO(slot, itemUUID), nil
}

func (s *service) Get(ctx context.Context, itemUUID uuid.UUID) (*SlotDTO, error) {
	item, err := s.loadItem(ctx, itemUUID)
	if err != nil {
		return nil, err
	}
	slot, err := s.repo.FindByItemID(ctx, item.ID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory slot not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load inventory slot")
	}
	return NewSlotDTO(slot, item.UUID), nil
}

func (s *service) List(ctx context.Context, filter ListFilter, page pagination.Params) ([]SlotDTO, error) {
	rows, err := s.repo.List(ctx, filter, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list inventory slots")
	}

	dtos := make([]SlotDTO, 0, len(rows))
	for i := range rows {
		item, itemErr := s.itemRepo.FindByID(ctx, rows[i].ItemID)
		if itemErr != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, itemErr, "db: load slot item")
		}
		dtos = append(dtos, *NewSlotDTO(&rows[i], item.UUID))
	}
	return dtos, nil
}

// checkCollision scans every stored slot except excludeID and fails with the
// rendering of the first overlapping key.
func (s *service) checkCollision(ctx context.Context, repo *Repository, key LocationKey, excludeID uint64) error {
	stored, err := repo.ListStored(ctx)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: scan inventory slots")
	}
	for i := range stored {
		if stored[i].ID == excludeID {
			continue
		}
		existing := locationOf(&stored[i])
		if key.Collides(existing) {
			return pkgerrors.New(pkgerrors.CodeConflict, "slot occupied").
				WithDetails(existing.Render())
		}
	}
	return nil
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
