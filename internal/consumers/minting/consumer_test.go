package minting

import (
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/rmirandacr/vaultkeeper-backend/internal/vaultings"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/enums"
	pkgerrors "github.com/rmirandacr/vaultkeeper-backend/pkg/errors"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/logger"
)

type stubConfirmer struct {
	mints    []vaultings.MintConfirmation
	burns    []vaultings.BurnConfirmation
	mintErr  error
	burnErr  error
	lastUUID uuid.UUID
}

func (s *stubConfirmer) ConfirmMint(_ context.Context, itemUUID uuid.UUID, conf vaultings.MintConfirmation) error {
	s.lastUUID = itemUUID
	if s.mintErr != nil {
		return s.mintErr
	}
	s.mints = append(s.mints, conf)
	return nil
}

func (s *stubConfirmer) ConfirmBurn(_ context.Context, itemUUID uuid.UUID, conf vaultings.BurnConfirmation) error {
	s.lastUUID = itemUUID
	if s.burnErr != nil {
		return s.burnErr
	}
	s.burns = append(s.burns, conf)
	return nil
}

func newTestConsumer(t *testing.T, confirm *stubConfirmer) *Consumer {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "consumer-test", Output: io.Discard})
	return &Consumer{vaultings: confirm, logg: logg}
}

func encodeEvent(t *testing.T, event MintEvent) []byte {
	t.Helper()
	data, err := json.Marshal(event)
	require.NoError(t, err)
	return data
}

func TestProcessMintedEventConfirmsMint(t *testing.T) {
	confirm := &stubConfirmer{}
	consumer := newTestConsumer(t, confirm)
	itemUUID := uuid.New()

	result := consumer.process(context.Background(), "m1", encodeEvent(t, MintEvent{
		Type:       enums.MintEventMinted,
		ItemUUID:   itemUUID,
		ChainID:    137,
		Collection: "0xAbC",
		TokenID:    "42",
		MintTxHash: "0xmint",
	}))
	require.True(t, result.ack)
	require.False(t, result.nack)
	require.Equal(t, itemUUID, confirm.lastUUID)
	require.Len(t, confirm.mints, 1)
	require.Equal(t, int64(137), confirm.mints[0].ChainID)
	require.Equal(t, "42", confirm.mints[0].TokenID)
}

func TestProcessBurnedEventConfirmsBurn(t *testing.T) {
	confirm := &stubConfirmer{}
	consumer := newTestConsumer(t, confirm)

	result := consumer.process(context.Background(), "m2", encodeEvent(t, MintEvent{
		Type:       enums.MintEventBurned,
		ItemUUID:   uuid.New(),
		BurnTxHash: "0xburn",
	}))
	require.True(t, result.ack)
	require.Len(t, confirm.burns, 1)
	require.Equal(t, "0xburn", confirm.burns[0].BurnTxHash)
}

func TestProcessSkipsProducerFacingEvents(t *testing.T) {
	confirm := &stubConfirmer{}
	consumer := newTestConsumer(t, confirm)

	result := consumer.process(context.Background(), "m3", encodeEvent(t, MintEvent{
		Type:     enums.MintEventToMint,
		ItemUUID: uuid.New(),
	}))
	require.True(t, result.ack)
	require.Empty(t, confirm.mints)
	require.Empty(t, confirm.burns)
}

func TestProcessAcksRedeliveredConfirmation(t *testing.T) {
	confirm := &stubConfirmer{mintErr: pkgerrors.New(pkgerrors.CodeStateConflict, "vaulting not minting")}
	consumer := newTestConsumer(t, confirm)

	result := consumer.process(context.Background(), "m4", encodeEvent(t, MintEvent{
		Type:     enums.MintEventMinted,
		ItemUUID: uuid.New(),
	}))
	require.True(t, result.ack)
	require.False(t, result.nack)
}

func TestProcessNacksTransientFailure(t *testing.T) {
	confirm := &stubConfirmer{mintErr: context.DeadlineExceeded}
	consumer := newTestConsumer(t, confirm)

	result := consumer.process(context.Background(), "m5", encodeEvent(t, MintEvent{
		Type:     enums.MintEventMinted,
		ItemUUID: uuid.New(),
	}))
	require.True(t, result.nack)
}

func TestProcessAcksMalformedPayload(t *testing.T) {
	confirm := &stubConfirmer{}
	consumer := newTestConsumer(t, confirm)

	result := consumer.process(context.Background(), "m6", []byte("not-json"))
	require.True(t, result.ack)

	result = consumer.process(context.Background(), "m7", encodeEvent(t, MintEvent{Type: enums.MintEventMinted}))
	require.True(t, result.ack)
	require.Empty(t, confirm.mints)
}
