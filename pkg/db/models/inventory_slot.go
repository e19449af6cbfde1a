package models

import (
	"time"

	"github.com/rmirandacr/vaultkeeper-backend/pkg/enums"
)

// InventorySlot assigns a vaulted item to a physical storage location.
// Any location dimension may be left unspecified; an unspecified dimension
// is a wildcard for collision purposes.
type InventorySlot struct {
	ID        uint64                `gorm:"primaryKey;autoIncrement"`
	ItemID    uint64                `gorm:"column:item_id;not null;uniqueIndex"`
	Vault     *string               `gorm:"column:vault"`
	Zone      *string               `gorm:"column:zone"`
	Shelf     *string               `gorm:"column:shelf"`
	Row       *string               `gorm:"column:row"`
	Box       *string               `gorm:"column:box"`
	Slot      *string               `gorm:"column:slot"`
	Label     string                `gorm:"column:label"`
	Note      string                `gorm:"column:note"`
	Status    enums.InventoryStatus `gorm:"column:status;not null;default:'stored'"`
	CreatedAt time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
