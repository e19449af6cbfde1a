package submissions

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rmirandacr/vaultkeeper-backend/pkg/db/models"
)

// SubmissionDTO is the transport shape for a submission plus its item.
type SubmissionDTO struct {
	ID         uint64     `json:"id"`
	UserUUID   uuid.UUID  `json:"user_uuid"`
	Status     string     `json:"status"`
	ImageURLs  []string   `json:"image_urls"`
	Item       ItemDTO    `json:"item"`
	CreatedAt  time.Time  `json:"created_at"`
	ReceivedAt *time.Time `json:"received_at,omitempty"`
	ApprovedAt *time.Time `json:"approved_at,omitempty"`
	RejectedAt *time.Time `json:"rejected_at,omitempty"`
}

// ItemDTO exposes the immutable item attributes alongside its status.
type ItemDTO struct {
	UUID           uuid.UUID       `json:"uuid"`
	Title          string          `json:"title"`
	Description    string          `json:"description,omitempty"`
	Grade          *string         `json:"grade,omitempty"`
	GradingCompany *string         `json:"grading_company,omitempty"`
	EstimatedValue decimal.Decimal `json:"estimated_value"`
	Status         string          `json:"status"`
}

// NewSubmissionDTO assembles the transport shape from the persisted rows.
func NewSubmissionDTO(sub *models.Submission, item *models.Item, userUUID uuid.UUID) *SubmissionDTO {
	if sub == nil || item == nil {
		return nil
	}
	return &SubmissionDTO{
		ID:        sub.ID,
		UserUUID:  userUUID,
		Status:    string(sub.Status),
		ImageURLs: append([]string(nil), sub.ImageURLs...),
		Item: ItemDTO{
			UUID:           item.UUID,
			Title:          item.Title,
			Description:    item.Description,
			Grade:          item.Grade,
			GradingCompany: item.GradingCompany,
			EstimatedValue: item.EstimatedValue,
			Status:         string(item.Status),
		},
		CreatedAt:  sub.CreatedAt,
		ReceivedAt: sub.ReceivedAt,
		ApprovedAt: sub.ApprovedAt,
		RejectedAt: sub.RejectedAt,
	}
}
