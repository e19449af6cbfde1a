package vaultings

import (
	"time"

	"github.com/google/uuid"

	"github.com/rmirandacr/vaultkeeper-backend/pkg/db/models"
)

// VaultingDTO is the transport shape for a custody record.
type VaultingDTO struct {
	ID         uint64     `json:"id"`
	ItemUUID   uuid.UUID  `json:"item_uuid"`
	Status     string     `json:"status"`
	MintJobID  *string    `json:"mint_job_id,omitempty"`
	BurnJobID  *string    `json:"burn_job_id,omitempty"`
	ChainID    *int64     `json:"chain_id,omitempty"`
	Collection *string    `json:"collection,omitempty"`
	TokenID    *string    `json:"token_id,omitempty"`
	MintTxHash *string    `json:"mint_tx_hash,omitempty"`
	BurnTxHash *string    `json:"burn_tx_hash,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	MintedAt   *time.Time `json:"minted_at,omitempty"`
	BurnedAt   *time.Time `json:"burned_at,omitempty"`
}

// NewVaultingDTO assembles the transport shape from the persisted rows.
func NewVaultingDTO(v *models.Vaulting, itemUUID uuid.UUID) *VaultingDTO {
	if v == nil {
		return nil
	}
	return &VaultingDTO{
		ID:         v.ID,
		ItemUUID:   itemUUID,
		Status:     string(v.Status),
		MintJobID:  v.MintJobID,
		BurnJobID:  v.BurnJobID,
		ChainID:    v.ChainID,
		Collection: v.Collection,
		TokenID:    v.TokenID,
		MintTxHash: v.MintTxHash,
		BurnTxHash: v.BurnTxHash,
		CreatedAt:  v.CreatedAt,
		UpdatedAt:  v.UpdatedAt,
		MintedAt:   v.MintedAt,
		BurnedAt:   v.BurnedAt,
	}
}
