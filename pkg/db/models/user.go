package models

import (
	"time"

	"github.com/google/uuid"
)

// User is the canonical identity record. Rows are created lazily on the
// first reference to an unknown uuid and are never deleted.
type User struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	UUID      uuid.UUID `gorm:"type:uuid;column:uuid;not null;uniqueIndex"`
	Source    string    `gorm:"column:source;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
