package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rmirandacr/vaultkeeper-backend/api/responses"
	"github.com/rmirandacr/vaultkeeper-backend/internal/auditlog"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/db/models"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/enums"
	pkgerrors "github.com/rmirandacr/vaultkeeper-backend/pkg/errors"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/logger"
)

type auditEntryResponse struct {
	ID         uint64           `json:"id"`
	Action     enums.ActionType `json:"action"`
	ActorID    uint64           `json:"actor_id"`
	ActorType  enums.ActorType  `json:"actor_type"`
	EntityID   uint64           `json:"entity_id"`
	EntityType enums.EntityType `json:"entity_type"`
	Payload    json.RawMessage  `json:"payload,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
}

func auditEntryFromModel(m models.ActionLog) auditEntryResponse {
	return auditEntryResponse{
		ID:         m.ID,
		Action:     m.Action,
		ActorID:    m.ActorID,
		ActorType:  m.ActorType,
		EntityID:   m.EntityID,
		EntityType: m.EntityType,
		Payload:    m.Payload,
		CreatedAt:  m.CreatedAt,
	}
}

// AuditList queries the audit log by actor or entity.
func AuditList(svc auditlog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := parseAuditFilter(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := parsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.List(r.Context(), filter, page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entries := make([]auditEntryResponse, 0, len(rows))
		for _, row := range rows {
			entries = append(entries, auditEntryFromModel(row))
		}
		responses.WriteSuccess(w, entries)
	}
}

func parseAuditFilter(r *http.Request) (auditlog.ListFilter, error) {
	var filter auditlog.ListFilter

	if raw := strings.TrimSpace(r.URL.Query().Get("actor_id")); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return filter, pkgerrors.New(pkgerrors.CodeValidation, "invalid actor_id filter")
		}
		filter.ActorID = &id
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("actor_type")); raw != "" {
		actorType, err := enums.ParseActorType(raw)
		if err != nil {
			return filter, pkgerrors.New(pkgerrors.CodeValidation, "invalid actor_type filter")
		}
		filter.ActorType = &actorType
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("entity_id")); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return filter, pkgerrors.New(pkgerrors.CodeValidation, "invalid entity_id filter")
		}
		filter.EntityID = &id
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("entity_type")); raw != "" {
		entityType, err := enums.ParseEntityType(raw)
		if err != nil {
			return filter, pkgerrors.New(pkgerrors.CodeValidation, "invalid entity_type filter")
		}
		filter.EntityType = &entityType
	}

	return filter, nil
}
