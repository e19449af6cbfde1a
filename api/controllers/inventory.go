package controllers

import (
	"net/http"
	"strings"

	"github.com/rmirandacr/vaultkeeper-backend/api/responses"
	"github.com/rmirandacr/vaultkeeper-backend/api/validators"
	"github.com/rmirandacr/vaultkeeper-backend/internal/inventory"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/enums"
	pkgerrors "github.com/rmirandacr/vaultkeeper-backend/pkg/errors"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/logger"
)

type inventoryAssignRequest struct {
	Vault *string `json:"vault"`
	Zone  *string `json:"zone"`
	Shelf *string `json:"shelf"`
	Row   *string `json:"row"`
	Box   *string `json:"box"`
	Slot  *string `json:"slot"`
	Label string  `json:"label"`
	Note  string  `json:"note"`
}

func (r inventoryAssignRequest) toInput() inventory.AssignInput {
	return inventory.AssignInput{
		Location: inventory.LocationKey{
			Vault: trimDim(r.Vault),
			Zone:  trimDim(r.Zone),
			Shelf: trimDim(r.Shelf),
			Row:   trimDim(r.Row),
			Box:   trimDim(r.Box),
			Slot:  trimDim(r.Slot),
		},
		Label: strings.TrimSpace(r.Label),
		Note:  strings.TrimSpace(r.Note),
	}
}

// trimDim normalizes a dimension: empty strings collapse to wildcard.
func trimDim(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// InventoryAssign places a vaulted item into a physical slot.
func InventoryAssign(svc inventory.Service, resolver *ActorResolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _, err := resolver.Resolve(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		itemUUID, err := parseItemUUID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload inventoryAssignRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Assign(r.Context(), actor, itemUUID, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// InventoryUpdate moves an item's slot to a new location.
func InventoryUpdate(svc inventory.Service, resolver *ActorResolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _, err := resolver.Resolve(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		itemUUID, err := parseItemUUID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload inventoryAssignRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Update(r.Context(), actor, itemUUID, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// InventoryGet returns the slot an item occupies.
func InventoryGet(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemUUID, err := parseItemUUID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Get(r.Context(), itemUUID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// InventoryList pages through slots, optionally filtered by status or vault.
func InventoryList(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := parsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var filter inventory.ListFilter
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, parseErr := enums.ParseInventoryStatus(raw)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter"))
				return
			}
			filter.Status = &status
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("vault")); raw != "" {
			filter.Vault = &raw
		}

		rows, err := svc.List(r.Context(), filter, page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, rows)
	}
}
