package webhooks

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/rmirandacr/vaultkeeper-backend/api/responses"
	"github.com/rmirandacr/vaultkeeper-backend/api/validators"
	"github.com/rmirandacr/vaultkeeper-backend/internal/vaultings"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/enums"
	pkgerrors "github.com/rmirandacr/vaultkeeper-backend/pkg/errors"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/logger"
)

type vaultingConfirmer interface {
	ConfirmMint(ctx context.Context, itemUUID uuid.UUID, conf vaultings.MintConfirmation) error
	ConfirmBurn(ctx context.Context, itemUUID uuid.UUID, conf vaultings.BurnConfirmation) error
}

type idempotencyGuard interface {
	CheckAndMark(ctx context.Context, jobID string) (bool, error)
	Release(ctx context.Context, jobID string) error
}

type mintingWebhookRequest struct {
	JobID      string `json:"job_id" validate:"required"`
	Type       string `json:"type" validate:"required"`
	ItemUUID   string `json:"item_uuid" validate:"required,uuid"`
	ChainID    int64  `json:"chain_id"`
	Collection string `json:"collection"`
	TokenID    string `json:"token_id"`
	MintTxHash string `json:"mint_tx_hash"`
	BurnTxHash string `json:"burn_tx_hash"`
}

// MintingWebhook applies mint/burn completions delivered over HTTP. Jobs are
// deduplicated in Redis before touching the state machine.
func MintingWebhook(svc vaultingConfirmer, guard idempotencyGuard, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload mintingWebhookRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		eventType, err := enums.ParseMintEventType(payload.Type)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown event type"))
			return
		}

		itemUUID, err := uuid.Parse(payload.ItemUUID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid item uuid"))
			return
		}

		ctx := logg.WithFields(r.Context(), map[string]any{
			"job_id":     payload.JobID,
			"event_type": string(eventType),
			"item_uuid":  itemUUID.String(),
		})

		already, err := guard.CheckAndMark(ctx, payload.JobID)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "idempotency check"))
			return
		}
		if already {
			logg.Info(ctx, "duplicate webhook delivery ignored")
			responses.WriteSuccess(w, map[string]string{"status": "duplicate"})
			return
		}

		switch eventType {
		case enums.MintEventMinted:
			err = svc.ConfirmMint(ctx, itemUUID, vaultings.MintConfirmation{
				ChainID:    payload.ChainID,
				Collection: payload.Collection,
				TokenID:    payload.TokenID,
				MintTxHash: payload.MintTxHash,
			})
		case enums.MintEventBurned:
			err = svc.ConfirmBurn(ctx, itemUUID, vaultings.BurnConfirmation{
				BurnTxHash: payload.BurnTxHash,
			})
		default:
			err = pkgerrors.New(pkgerrors.CodeValidation, "event type not deliverable over webhook")
		}
		if err != nil {
			// free the key so the sender's retry can land
			if releaseErr := guard.Release(ctx, payload.JobID); releaseErr != nil {
				logg.Error(ctx, "failed to release idempotency key", releaseErr)
			}
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "applied"})
	}
}
