package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// Item is a physical collectible tracked through custody. Attributes are
// immutable after creation except status.
type Item struct {
	ID             uint64           `gorm:"primaryKey;autoIncrement"`
	UUID           uuid.UUID        `gorm:"type:uuid;column:uuid;not null;uniqueIndex"`
	UserID         uint64           `gorm:"column:user_id;not null;index"`
	Title          string           `gorm:"column:title;not null"`
	Description    string           `gorm:"column:description"`
	Grade          *string          `gorm:"column:grade"`
	GradingCompany *string          `gorm:"column:grading_company"`
	EstimatedValue decimal.Decimal  `gorm:"column:estimated_value;type:numeric(14,2)"`
	Status         enums.ItemStatus `gorm:"column:status;not null;default:'pending'"`
	CreatedAt      time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
