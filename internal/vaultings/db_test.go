package vaultings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/rmirandacr/vaultkeeper-backend/internal/auditlog"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/db"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/db/models"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/minting"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/pagination"
)

func setupVaultingsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("opening sqlite: %v", err)
	}

	statements := []string{
		`CREATE TABLE users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			uuid TEXT NOT NULL UNIQUE,
			source TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
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
		`CREATE TABLE submissions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			item_id INTEGER NOT NULL UNIQUE,
			user_id INTEGER NOT NULL,
			status TEXT NOT NULL DEFAULT 'submitted',
			image_urls TEXT NOT NULL DEFAULT '{}',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			received_at DATETIME,
			approved_at DATETIME,
			rejected_at DATETIME
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
		for _, table := range []string{"listings", "vaultings", "submissions", "items", "users"} {
			_ = conn.Exec("DROP TABLE IF EXISTS " + table).Error
		}
	})

	return conn
}

func newTestClient(conn *gorm.DB) *db.Client {
	return db.NewFromGorm(conn, sql.LevelDefault)
}

type stubMinter struct {
	mintCalls []minting.MintRequest
	burnCalls []minting.BurnRequest
	mintJobID string
	burnJobID string
	mintErr   error
	burnErr   error
}

func (s *stubMinter) Mint(_ context.Context, req minting.MintRequest) (string, error) {
	s.mintCalls = append(s.mintCalls, req)
	if s.mintErr != nil {
		return "", s.mintErr
	}
	if s.mintJobID == "" {
		return fmt.Sprintf("mint-job-%d", len(s.mintCalls)), nil
	}
	return s.mintJobID, nil
}

func (s *stubMinter) Burn(_ context.Context, req minting.BurnRequest) (string, error) {
	s.burnCalls = append(s.burnCalls, req)
	if s.burnErr != nil {
		return "", s.burnErr
	}
	if s.burnJobID == "" {
		return fmt.Sprintf("burn-job-%d", len(s.burnCalls)), nil
	}
	return s.burnJobID, nil
}

type stubImages struct {
	objects map[string][]byte
}

func (s *stubImages) ReadObject(_ context.Context, key string) ([]byte, error) {
	if data, ok := s.objects[key]; ok {
		return data, nil
	}
	return nil, errors.New("object not found")
}

type stubListings struct {
	conn *gorm.DB
}

func (s *stubListings) FindByVaultingID(ctx context.Context, vaultingID uint64) (*models.Listing, error) {
	var listing models.Listing
	if err := s.conn.WithContext(ctx).Where("vaulting_id = ?", vaultingID).First(&listing).Error; err != nil {
		return nil, err
	}
	return &listing, nil
}

type stubSlots struct {
	released []uint64
	err      error
}

func (s *stubSlots) ReleaseByItemID(_ context.Context, itemID uint64) error {
	if s.err != nil {
		return s.err
	}
	s.released = append(s.released, itemID)
	return nil
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
