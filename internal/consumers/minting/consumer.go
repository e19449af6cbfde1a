package minting

import (
	"context"
	"encoding/json"
	"errors"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/rmirandacr/vaultkeeper-backend/internal/vaultings"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/enums"
	pkgerrors "github.com/rmirandacr/vaultkeeper-backend/pkg/errors"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/logger"
)

type confirmer interface {
	ConfirmMint(ctx context.Context, itemUUID uuid.UUID, conf vaultings.MintConfirmation) error
	ConfirmBurn(ctx context.Context, itemUUID uuid.UUID, conf vaultings.BurnConfirmation) error
}

// Consumer applies asynchronous mint-service completions from Pub/Sub to the
// vaulting state machine.
type Consumer struct {
	vaultings    confirmer
	subscription *pubsub.Subscriber
	logg         *logger.Logger
}

// NewConsumer constructs a consumer that watches the provided subscription.
func NewConsumer(vaultingSvc confirmer, subscription *pubsub.Subscriber, logg *logger.Logger) (*Consumer, error) {
	if vaultingSvc == nil {
		return nil, errors.New("vaultings service is required")
	}
	if subscription == nil {
		return nil, errors.New("mint events subscription is required")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}
	return &Consumer{
		vaultings:    vaultingSvc,
		subscription: subscription,
		logg:         logg,
	}, nil
}

// Run processes messages until the context is canceled or the subscription errors.
func (c *Consumer) Run(ctx context.Context) error {
	return c.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		result := c.process(ctx, msg.ID, msg.Data)
		if result.nack {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

type processResult struct {
	ack  bool
	nack bool
}

// MintEvent is the wire shape published by the minting service.
type MintEvent struct {
	Type       enums.MintEventType `json:"type"`
	ItemUUID   uuid.UUID           `json:"item_uuid"`
	ChainID    int64               `json:"chain_id"`
	Collection string              `json:"collection"`
	TokenID    string              `json:"token_id"`
	MintTxHash string              `json:"mint_tx_hash"`
	BurnTxHash string              `json:"burn_tx_hash"`
	BurnJobID  string              `json:"burn_job_id"`
	Status     string              `json:"status"`
}

func (c *Consumer) process(ctx context.Context, messageID string, data []byte) processResult {
	var event MintEvent
	if err := json.Unmarshal(data, &event); err != nil {
		logCtx := c.logg.WithField(ctx, "message_id", messageID)
		c.logg.Error(logCtx, "failed to unmarshal mint event", err)
		return processResult{ack: true}
	}

	logCtx := c.logg.WithFields(ctx, map[string]any{
		"message_id": messageID,
		"event_type": event.Type,
		"item_uuid":  event.ItemUUID.String(),
	})

	if event.ItemUUID == uuid.Nil {
		c.logg.Error(logCtx, "mint event missing item uuid", errors.New("empty item_uuid"))
		return processResult{ack: true}
	}

	var err error
	switch event.Type {
	case enums.MintEventMinted:
		err = c.vaultings.ConfirmMint(ctx, event.ItemUUID, vaultings.MintConfirmation{
			ChainID:    event.ChainID,
			Collection: event.Collection,
			TokenID:    event.TokenID,
			MintTxHash: event.MintTxHash,
		})
	case enums.MintEventBurned:
		err = c.vaultings.ConfirmBurn(ctx, event.ItemUUID, vaultings.BurnConfirmation{
			BurnTxHash: event.BurnTxHash,
		})
	default:
		c.logg.Info(logCtx, "skipping unhandled mint event type")
		return processResult{ack: true}
	}
	if err != nil {
		return c.handleConfirmError(logCtx, err)
	}

	c.logg.Info(logCtx, "mint event applied")
	return processResult{ack: true}
}

func (c *Consumer) handleConfirmError(ctx context.Context, err error) processResult {
	if typed := pkgerrors.As(err); typed != nil {
		switch typed.Code() {
		case pkgerrors.CodeStateConflict:
			// redelivery of an already-applied confirmation
			c.logg.Info(ctx, "mint event already applied")
			return processResult{ack: true}
		case pkgerrors.CodeNotFound:
			c.logg.Warn(ctx, "mint event references unknown record")
			return processResult{ack: true}
		}
	}

	c.logg.Error(ctx, "failed to apply mint event", err)
	if isTransient(err) {
		return processResult{nack: true}
	}
	return processResult{ack: true}
}

func isTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return false
}
