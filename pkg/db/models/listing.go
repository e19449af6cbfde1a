package models

import (
	"time"

	"github.com/rmirandacr/vaultkeeper-backend/pkg/enums"
)

// Listing is the sale record for a vaulted item. At most one listing exists
// per vaulting.
type Listing struct {
	ID         uint64              `gorm:"primaryKey;autoIncrement"`
	VaultingID uint64              `gorm:"column:vaulting_id;not null;uniqueIndex:idx_listings_vaulting_id"`
	UserID     uint64              `gorm:"column:user_id;not null;index"`
	PriceCents int64               `gorm:"column:price_cents;not null"`
	Status     enums.ListingStatus `gorm:"column:status;not null;default:'not_listed'"`
	CreatedAt  time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time           `gorm:"column:updated_at;autoUpdateTime"`
	SoldAt     *time.Time          `gorm:"column:sold_at"`
	EndedAt    *time.Time          `gorm:"column:ended_at"`
}
