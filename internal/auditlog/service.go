package auditlog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rmirandacr/vaultkeeper-backend/pkg/db/models"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/enums"
	pkgerrors "github.com/rmirandacr/vaultkeeper-backend/pkg/errors"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/logger"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/pagination"
)

// Actor identifies who performed an audited action.
type Actor struct {
	ID   uint64
	Type enums.ActorType
}

// APIActor attributes webhook- and consumer-driven transitions.
func APIActor() Actor {
	return Actor{ID: 0, Type: enums.ActorTypeAPI}
}

// Entry is one state-changing action to record.
type Entry struct {
	Action     enums.ActionType
	Actor      Actor
	EntityID   uint64
	EntityType enums.EntityType
	Payload    any
}

// Service records and queries audit entries.
type Service interface {
	// Record appends an entry after the caller's transaction has committed.
	// Failures are logged and swallowed; an audit miss never fails the
	// primary operation.
	Record(ctx context.Context, entry Entry)
	List(ctx context.Context, filter ListFilter, page pagination.Params) ([]models.ActionLog, error)
}

type service struct {
	repo *Repository
	logg *logger.Logger
}

// NewService constructs the audit log service.
func NewService(repo *Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("audit log repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) Record(ctx context.Context, entry Entry) {
	var payload json.RawMessage
	if entry.Payload != nil {
		raw, err := json.Marshal(entry.Payload)
		if err != nil {
			s.logg.Error(ctx, "auditlog: marshal payload", err)
			return
		}
		payload = raw
	}

	row := &models.ActionLog{
		Action:     entry.Action,
		ActorID:    entry.Actor.ID,
		ActorType:  entry.Actor.Type,
		EntityID:   entry.EntityID,
		EntityType: entry.EntityType,
		Payload:    payload,
	}

	if err := s.repo.Append(ctx, row); err != nil {
		ctx = s.logg.WithFields(ctx, map[string]any{
			"action":      string(entry.Action),
			"entity_id":   entry.EntityID,
			"entity_type": string(entry.EntityType),
		})
		s.logg.Error(ctx, "auditlog: append failed", err)
	}
}

func (s *service) List(ctx context.Context, filter ListFilter, page pagination.Params) ([]models.ActionLog, error) {
	entries, err := s.repo.List(ctx, filter, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list action logs")
	}
	return entries, nil
}
