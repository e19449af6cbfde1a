package inventory

import (
	"time"

	"github.com/google/uuid"

	"github.com/rmirandacr/vaultkeeper-backend/pkg/db/models"
)

// SlotDTO is the inventory slot shape returned to callers.
type SlotDTO struct {
	ID        uint64    `json:"id"`
	ItemUUID  uuid.UUID `json:"item_uuid"`
	Location  string    `json:"location"`
	Label     string    `json:"label,omitempty"`
	Note      string    `json:"note,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewSlotDTO(slot *models.InventorySlot, itemUUID uuid.UUID) *SlotDTO {
	return &SlotDTO{
		ID:        slot.ID,
		ItemUUID:  itemUUID,
		Location:  locationOf(slot).Render(),
		Label:     slot.Label,
		Note:      slot.Note,
		Status:    string(slot.Status),
		CreatedAt: slot.CreatedAt,
		UpdatedAt: slot.UpdatedAt,
	}
}
