package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/rmirandacr/vaultkeeper-backend/api/responses"
	"github.com/rmirandacr/vaultkeeper-backend/api/validators"
	"github.com/rmirandacr/vaultkeeper-backend/internal/auditlog"
	"github.com/rmirandacr/vaultkeeper-backend/internal/listings"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/logger"
)

type listingCreateRequest struct {
	PriceCents int64 `json:"price_cents" validate:"required,gt=0"`
}

// ListingCreate lists a minted vaulting for sale.
func ListingCreate(svc listings.Service, resolver *ActorResolver, logg *logger.Logger) http.HandlerFunc {
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

		var payload listingCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Create(r.Context(), actor, itemUUID, payload.PriceCents)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// ListingGet returns the listing attached to an item's vaulting.
func ListingGet(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
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

// ListingUpdatePrice reprices a live listing.
func ListingUpdatePrice(svc listings.Service, resolver *ActorResolver, logg *logger.Logger) http.HandlerFunc {
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

		var payload listingCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.UpdatePrice(r.Context(), actor, itemUUID, payload.PriceCents)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// ListingMarkSold applies a sale reported by the marketplace.
func ListingMarkSold(svc listings.Service, resolver *ActorResolver, logg *logger.Logger) http.HandlerFunc {
	return listingTransition(resolver, logg, svc.MarkSold)
}

// ListingMarkEnded applies a cancellation reported by the marketplace.
func ListingMarkEnded(svc listings.Service, resolver *ActorResolver, logg *logger.Logger) http.HandlerFunc {
	return listingTransition(resolver, logg, svc.MarkEnded)
}

func listingTransition(
	resolver *ActorResolver,
	logg *logger.Logger,
	apply func(ctx context.Context, actor auditlog.Actor, itemUUID uuid.UUID) (*listings.ListingDTO, error),
) http.HandlerFunc {
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

		dto, err := apply(r.Context(), actor, itemUUID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}
