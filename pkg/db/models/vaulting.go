package models

import (
	"time"

	"github.com/rmirandacr/vaultkeeper-backend/pkg/enums"
)

// Vaulting is the custody record binding an item to its externally minted
// token. At most one vaulting exists per item, ever. The collection address
// is case-normalized to lower case before persistence.
type Vaulting struct {
	ID         uint64               `gorm:"primaryKey;autoIncrement"`
	ItemID     uint64               `gorm:"column:item_id;not null;uniqueIndex:idx_vaultings_item_id"`
	UserID     uint64               `gorm:"column:user_id;not null;index"`
	Status     enums.VaultingStatus `gorm:"column:status;not null;default:'not_minted'"`
	MintJobID  *string              `gorm:"column:mint_job_id"`
	BurnJobID  *string              `gorm:"column:burn_job_id"`
	ChainID    *int64               `gorm:"column:chain_id"`
	Collection *string              `gorm:"column:collection"`
	TokenID    *string              `gorm:"column:token_id"`
	MintTxHash *string              `gorm:"column:mint_tx_hash"`
	BurnTxHash *string              `gorm:"column:burn_tx_hash"`
	CreatedAt  time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time            `gorm:"column:updated_at;autoUpdateTime"`
	MintedAt   *time.Time           `gorm:"column:minted_at"`
	BurnedAt   *time.Time           `gorm:"column:burned_at"`
}
