package listings

import (
	"time"

	"github.com/google/uuid"

	"github.com/rmirandacr/vaultkeeper-backend/pkg/db/models"
)

// ListingDTO is the listing shape returned to callers.
type ListingDTO struct {
	ID         uint64     `json:"id"`
	VaultingID uint64     `json:"vaulting_id"`
	ItemUUID   uuid.UUID  `json:"item_uuid"`
	PriceCents int64      `json:"price_cents"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	SoldAt     *time.Time `json:"sold_at,omitempty"`
	EndedAt    *time.Time `json:"ended_at,omitempty"`
}

func NewListingDTO(listing *models.Listing, itemUUID uuid.UUID) *ListingDTO {
	return &ListingDTO{
		ID:         listing.ID,
		VaultingID: listing.VaultingID,
		ItemUUID:   itemUUID,
		PriceCents: listing.PriceCents,
		Status:     string(listing.Status),
		CreatedAt:  listing.CreatedAt,
		UpdatedAt:  listing.UpdatedAt,
		SoldAt:     listing.SoldAt,
		EndedAt:    listing.EndedAt,
	}
}
