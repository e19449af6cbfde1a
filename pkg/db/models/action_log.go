package models

import (
	"encoding/json"
	"time"

	"github.com/rmirandacr/vaultkeeper-backend/pkg/enums"
)

// ActionLog is an append-only audit entry. Rows are never updated or
// deleted.
type ActionLog struct {
	ID         uint64           `gorm:"primaryKey;autoIncrement"`
	Action     enums.ActionType `gorm:"column:action;not null"`
	ActorID    uint64           `gorm:"column:actor_id;not null;index:idx_action_logs_actor"`
	ActorType  enums.ActorType  `gorm:"column:actor_type;not null;index:idx_action_logs_actor"`
	EntityID   uint64           `gorm:"column:entity_id;not null;index:idx_action_logs_entity"`
	EntityType enums.EntityType `gorm:"column:entity_type;not null;index:idx_action_logs_entity"`
	Payload    json.RawMessage  `gorm:"column:payload;type:jsonb"`
	CreatedAt  time.Time        `gorm:"column:created_at;autoCreateTime"`
}
