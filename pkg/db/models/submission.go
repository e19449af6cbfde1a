package models

import (
	"time"

	dbtypes "github.com/rmirandacr/vaultkeeper-backend/pkg/db/types"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/enums"
)

// Submission is the intake record for a graded item. Exactly one submission
// exists per item.
type Submission struct {
	ID         uint64                 `gorm:"primaryKey;autoIncrement"`
	UserID     uint64                 `gorm:"column:user_id;not null;index"`
	ItemID     uint64                 `gorm:"column:item_id;not null;uniqueIndex"`
	Status     enums.SubmissionStatus `gorm:"column:status;not null;default:'submitted'"`
	ImageURLs  dbtypes.StringArray    `gorm:"type:text[];column:image_urls;not null;default:'{}'"`
	CreatedAt  time.Time              `gorm:"column:created_at;autoCreateTime"`
	ReceivedAt *time.Time             `gorm:"column:received_at"`
	ApprovedAt *time.Time             `gorm:"column:approved_at"`
	RejectedAt *time.Time             `gorm:"column:rejected_at"`
}
