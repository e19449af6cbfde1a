package listings

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/rmirandacr/vaultkeeper-backend/internal/auditlog"
	"github.com/rmirandacr/vaultkeeper-backend/internal/items"
	"github.com/rmirandacr/vaultkeeper-backend/internal/vaultings"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/db"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/db/models"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/enums"
	pkgerrors "github.com/rmirandacr/vaultkeeper-backend/pkg/errors"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/pagination"
)

func setupListingsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("opening sqlite: %v", err)
	}

	statements := []string{
		`CREATE TABLE items (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			uuid TEXT NOT NULL UNIQUE,
			user_id INTEGER NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			grade TEXT,
			grading_company TEXT,
			estimated_value TEXT NOT NULL DEFAULT '0',
			status TEXT NOT NULL DEFAULT 'pending',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE vaultings (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			item_id INTEGER NOT NULL UNIQUE,
			user_id INTEGER NOT NULL,
			status TEXT NOT NULL DEFAULT 'not_minted',
			mint_job_id TEXT,
			burn_job_id TEXT,
			chain_id INTEGER,
			collection TEXT,
			token_id TEXT,
			mint_tx_hash TEXT,
			burn_tx_hash TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			minted_at DATETIME,
			burned_at DATETIME
		)`,
		`CREATE TABLE listings (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			vaulting_id INTEGER NOT NULL UNIQUE,
			user_id INTEGER NOT NULL,
			price_cents INTEGER NOT NULL,
			status TEXT NOT NULL DEFAULT 'not_listed',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			sold_at DATETIME,
			ended_at DATETIME
		)`,
	}
	for _, stmt := range statements {
		if err := conn.Exec(stmt).Error; err != nil {
			t.Fatalf("creating schema: %v", err)
		}
	}

	t.Cleanup(func() {
		for _, table := range []string{"listings", "vaultings", "items"} {
			_ = conn.Exec("DROP TABLE IF EXISTS " + table).Error
		}
	})

	return conn
}

type stubAudit struct {
	entries []auditlog.Entry
}

func (s *stubAudit) Record(_ context.Context, entry auditlog.Entry) {
	s.entries = append(s.entries, entry)
}

func (s *stubAudit) List(context.Context, auditlog.ListFilter, pagination.Params) ([]models.ActionLog, error) {
	return nil, nil
}

func newListingsService(t *testing.T, conn *gorm.DB, audit *stubAudit) Service {
	t.Helper()
	svc, err := NewService(
		NewRepository(conn),
		items.NewRepository(conn),
		vaultings.NewRepository(conn),
		db.NewFromGorm(conn, sql.LevelDefault),
		audit,
	)
	require.NoError(t, err)
	return svc
}

// seedVaulting inserts an item plus its vaulting in the given status and
// returns the item uuid.
func seedVaulting(t *testing.T, conn *gorm.DB, status enums.VaultingStatus) uuid.UUID {
	t.Helper()
	ctx := context.Background()

	item, err := items.NewRepository(conn).Create(ctx, &models.Item{
		UUID:   uuid.New(),
		UserID: 1,
		Title:  "graded card",
		Status: enums.ItemStatusVaulted,
	})
	require.NoError(t, err)

	_, err = vaultings.NewRepository(conn).Create(ctx, &models.Vaulting{
		ItemID: item.ID,
		UserID: 1,
		Status: status,
	})
	require.NoError(t, err)
	return item.UUID
}

func TestCreateListingForMintedVaulting(t *testing.T) {
	conn := setupListingsTestDB(t)
	audit := &stubAudit{}
	svc := newListingsService(t, conn, audit)
	ctx := context.Background()
	seller := auditlog.Actor{ID: 1, Type: enums.ActorTypeUser}

	itemUUID := seedVaulting(t, conn, enums.VaultingStatusMinted)

	dto, err := svc.Create(ctx, seller, itemUUID, 250000)
	require.NoError(t, err)
	require.Equal(t, string(enums.ListingStatusListed), dto.Status)
	require.Equal(t, int64(250000), dto.PriceCents)

	require.Len(t, audit.entries, 1)
	require.Equal(t, enums.ActionListingCreated, audit.entries[0].Action)
}

func TestCreateListingRequiresMintedVaulting(t *testing.T) {
	conn := setupListingsTestDB(t)
	svc := newListingsService(t, conn, &stubAudit{})
	seller := auditlog.Actor{ID: 1, Type: enums.ActorTypeUser}

	itemUUID := seedVaulting(t, conn, enums.VaultingStatusMinting)

	_, err := svc.Create(context.Background(), seller, itemUUID, 1000)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}

func TestCreateListingDuplicateIsConflict(t *testing.T) {
	conn := setupListingsTestDB(t)
	svc := newListingsService(t, conn, &stubAudit{})
	ctx := context.Background()
	seller := auditlog.Actor{ID: 1, Type: enums.ActorTypeUser}

	itemUUID := seedVaulting(t, conn, enums.VaultingStatusMinted)

	_, err := svc.Create(ctx, seller, itemUUID, 1000)
	require.NoError(t, err)

	_, err = svc.Create(ctx, seller, itemUUID, 2000)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestCreateListingRejectsNonPositivePrice(t *testing.T) {
	conn := setupListingsTestDB(t)
	svc := newListingsService(t, conn, &stubAudit{})

	_, err := svc.Create(context.Background(), auditlog.APIActor(), uuid.New(), 0)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestUpdatePriceOnlyWhileListed(t *testing.T) {
	conn := setupListingsTestDB(t)
	audit := &stubAudit{}
	svc := newListingsService(t, conn, audit)
	ctx := context.Background()
	seller := auditlog.Actor{ID: 1, Type: enums.ActorTypeUser}

	itemUUID := seedVaulting(t, conn, enums.VaultingStatusMinted)
	_, err := svc.Create(ctx, seller, itemUUID, 1000)
	require.NoError(t, err)

	dto, err := svc.UpdatePrice(ctx, seller, itemUUID, 1500)
	require.NoError(t, err)
	require.Equal(t, int64(1500), dto.PriceCents)

	_, err = svc.MarkSold(ctx, auditlog.APIActor(), itemUUID)
	require.NoError(t, err)

	_, err = svc.UpdatePrice(ctx, seller, itemUUID, 2000)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}

func TestMarkSoldAndMarkEndedRequireListed(t *testing.T) {
	conn := setupListingsTestDB(t)
	audit := &stubAudit{}
	svc := newListingsService(t, conn, audit)
	ctx := context.Background()
	seller := auditlog.Actor{ID: 1, Type: enums.ActorTypeUser}

	itemUUID := seedVaulting(t, conn, enums.VaultingStatusMinted)
	_, err := svc.Create(ctx, seller, itemUUID, 1000)
	require.NoError(t, err)

	sold, err := svc.MarkSold(ctx, auditlog.APIActor(), itemUUID)
	require.NoError(t, err)
	require.Equal(t, string(enums.ListingStatusSold), sold.Status)
	require.NotNil(t, sold.SoldAt)
	require.Nil(t, sold.EndedAt)

	// terminal: a cancellation after a sale must not apply
	_, err = svc.MarkEnded(ctx, auditlog.APIActor(), itemUUID)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeStateConflict, typed.Code())

	last := audit.entries[len(audit.entries)-1]
	require.Equal(t, enums.ActionListingSold, last.Action)
}

func TestGetListingNotFound(t *testing.T) {
	conn := setupListingsTestDB(t)
	svc := newListingsService(t, conn, &stubAudit{})

	itemUUID := seedVaulting(t, conn, enums.VaultingStatusMinted)

	_, err := svc.Get(context.Background(), itemUUID)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
