package submissions

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rmirandacr/vaultkeeper-backend/internal/auditlog"
	"github.com/rmirandacr/vaultkeeper-backend/internal/items"
	"github.com/rmirandacr/vaultkeeper-backend/internal/users"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/db"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/db/models"
	dbtypes "github.com/rmirandacr/vaultkeeper-backend/pkg/db/types"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/enums"
	pkgerrors "github.com/rmirandacr/vaultkeeper-backend/pkg/errors"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/pagination"
)

// Service drives the submission intake machine:
// submitted -> received -> {approved, rejected}.
type Service interface {
	Create(ctx context.Context, userUUID uuid.UUID, input CreateSubmissionInput) (*SubmissionDTO, error)
	Receive(ctx context.Context, actor auditlog.Actor, id uint64) (*SubmissionDTO, error)
	Approve(ctx context.Context, actor auditlog.Actor, id uint64) (*SubmissionDTO, error)
	Reject(ctx context.Context, actor auditlog.Actor, id uint64) (*SubmissionDTO, error)
	Get(ctx context.Context, id uint64) (*SubmissionDTO, error)
	List(ctx context.Context, input ListSubmissionsInput) ([]SubmissionDTO, error)
}

// CreateSubmissionInput holds the validated payload to open a submission.
type CreateSubmissionInput struct {
	Title          string
	Description    string
	Grade          *string
	GradingCompany *string
	EstimatedValue decimal.Decimal
	Images         []ImageUpload
	Source         string
}

// ImageUpload carries one raw image for the intake record.
type ImageUpload struct {
	Data   []byte
	Format string
}

// ListSubmissionsInput narrows and paginates a submission listing.
type ListSubmissionsInput struct {
	UserUUID *uuid.UUID
	Status   *enums.SubmissionStatus
	Page     pagination.Params
}

type imageStore interface {
	UploadImage(ctx context.Context, data []byte, prefix, format string) (string, error)
}

type service struct {
	repo     *Repository
	itemRepo *items.Repository
	userRepo *users.Repository
	dbClient *db.Client
	images   imageStore
	audit    auditlog.Service
}

// NewService constructs a submissions service instance.
func NewService(repo *Repository, itemRepo *items.Repository, userRepo *users.Repository, dbClient *db.Client, images imageStore, audit auditlog.Service) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("submissions repository required")
	}
	if itemRepo == nil {
		return nil, fmt.Errorf("items repository required")
	}
	if userRepo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if images == nil {
		return nil, fmt.Errorf("image store required")
	}
	if audit == nil {
		return nil, fmt.Errorf("audit log service required")
	}
	return &service{
		repo:     repo,
		itemRepo: itemRepo,
		userRepo: userRepo,
		dbClient: dbClient,
		images:   images,
		audit:    audit,
	}, nil
}

func (s *service) Create(ctx context.Context, userUUID uuid.UUID, input CreateSubmissionInput) (*SubmissionDTO, error) {
	if input.Title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if userUUID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user uuid is required")
	}

	user, err := s.userRepo.EnsureByUUID(ctx, userUUID, input.Source)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: ensure user")
	}

	// Image uploads hit the external store; keep them outside the
	// transaction so network I/O never holds a transaction open.
	urls := make([]string, 0, len(input.Images))
	for _, img := range input.Images {
		url, uploadErr := s.images.UploadImage(ctx, img.Data, "items", img.Format)
		if uploadErr != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, uploadErr, "image store: upload")
		}
		urls = append(urls, url)
	}

	var (
		item *models.Item
		sub  *models.Submission
	)
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txItems := s.itemRepo.WithTx(tx)
		txSubs := s.repo.WithTx(tx)

		created, createErr := txItems.Create(ctx, &models.Item{
			UUID:           uuid.New(),
			UserID:         user.ID,
			Title:          input.Title,
			Description:    input.Description,
			Grade:          input.Grade,
			GradingCompany: input.GradingCompany,
			EstimatedValue: input.EstimatedValue,
			Status:         enums.ItemStatusPending,
		})
		if createErr != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, createErr, "db: insert item")
		}
		item = created

		persisted, subErr := txSubs.Create(ctx, &models.Submission{
			UserID:    user.ID,
			ItemID:    created.ID,
			Status:    enums.SubmissionStatusSubmitted,
			ImageURLs: dbtypes.StringArray(urls),
		})
		if subErr != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, subErr, "db: insert submission")
		}
		sub = persisted
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create submission")
	}

	s.audit.Record(ctx, auditlog.Entry{
		Action:     enums.ActionSubmissionCreated,
		Actor:      auditlog.Actor{ID: user.ID, Type: enums.ActorTypeUser},
		EntityID:   sub.ID,
		EntityType: enums.EntityTypeSubmission,
		Payload: map[string]any{
			"item_uuid": item.UUID,
			"title":     item.Title,
			"images":    len(urls),
		},
	})

	return NewSubmissionDTO(sub, item, userUUID), nil
}

func (s *service) Receive(ctx context.Context, actor auditlog.Actor, id uint64) (*SubmissionDTO, error) {
	return s.transition(ctx, actor, id, enums.SubmissionStatusSubmitted, enums.ActionSubmissionReceived,
		"submission not in submitted state",
		func(txRepo *Repository, at time.Time) error {
			return txRepo.MarkReceived(ctx, id, at)
		})
}

func (s *service) Approve(ctx context.Context, actor auditlog.Actor, id uint64) (*SubmissionDTO, error) {
	return s.transition(ctx, actor, id, enums.SubmissionStatusReceived, enums.ActionSubmissionApproved,
		"submission not received yet",
		func(txRepo *Repository, at time.Time) error {
			return txRepo.MarkApproved(ctx, id, at)
		})
}

func (s *service) Reject(ctx context.Context, actor auditlog.Actor, id uint64) (*SubmissionDTO, error) {
	return s.transition(ctx, actor, id, enums.SubmissionStatusReceived, enums.ActionSubmissionRejected,
		"submission not received yet",
		func(txRepo *Repository, at time.Time) error {
			return txRepo.MarkRejected(ctx, id, at)
		})
}

func (s *service) transition(
	ctx context.Context,
	actor auditlog.Actor,
	id uint64,
	required enums.SubmissionStatus,
	action enums.ActionType,
	conflictMsg string,
	apply func(txRepo *Repository, at time.Time) error,
) (*SubmissionDTO, error) {
	var sub *models.Submission
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		current, findErr := txRepo.FindByID(ctx, id)
		if findErr != nil {
			if db.IsNotFound(findErr) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "submission not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, findErr, "db: load submission")
		}
		if current.Status != required {
			return pkgerrors.New(pkgerrors.CodeStateConflict, conflictMsg)
		}

		if applyErr := apply(txRepo, time.Now().UTC()); applyErr != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, applyErr, "db: update submission")
		}

		updated, reloadErr := txRepo.FindByID(ctx, id)
		if reloadErr != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, reloadErr, "db: reload submission")
		}
		sub = updated
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update submission")
	}

	s.audit.Record(ctx, auditlog.Entry{
		Action:     action,
		Actor:      actor,
		EntityID:   sub.ID,
		EntityType: enums.EntityTypeSubmission,
		Payload:    map[string]any{"status": sub.Status},
	})

	return s.assemble(ctx, sub)
}

func (s *service) Get(ctx context.Context, id uint64) (*SubmissionDTO, error) {
	sub, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "submission not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load submission")
	}
	return s.assemble(ctx, sub)
}

func (s *service) List(ctx context.Context, input ListSubmissionsInput) ([]SubmissionDTO, error) {
	filter := ListFilter{Status: input.Status}
	if input.UserUUID != nil {
		user, err := s.userRepo.FindByUUID(ctx, *input.UserUUID)
		if err != nil {
			if db.IsNotFound(err) {
				return []SubmissionDTO{}, nil
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load user")
		}
		filter.UserID = &user.ID
	}

	subs, err := s.repo.List(ctx, filter, input.Page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list submissions")
	}

	out := make([]SubmissionDTO, 0, len(subs))
	for i := range subs {
		dto, assembleErr := s.assemble(ctx, &subs[i])
		if assembleErr != nil {
			return nil, assembleErr
		}
		out = append(out, *dto)
	}
	return out, nil
}

func (s *service) assemble(ctx context.Context, sub *models.Submission) (*SubmissionDTO, error) {
	item, err := s.itemRepo.FindByID(ctx, sub.ItemID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load item")
	}
	owner, err := s.userRepo.FindByID(ctx, sub.UserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load user")
	}
	return NewSubmissionDTO(sub, item, owner.UUID), nil
}
