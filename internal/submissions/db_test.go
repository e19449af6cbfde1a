package submissions

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rmirandacr/vaultkeeper-backend/internal/auditlog"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/db"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/db/models"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/pagination"
)

func setupSubmissionsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	ddls := []string{`
CREATE TABLE IF NOT EXISTS users (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  uuid TEXT NOT NULL UNIQUE,
  source TEXT NOT NULL,
  created_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS items (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  uuid TEXT NOT NULL UNIQUE,
  user_id INTEGER NOT NULL,
  title TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  grade TEXT,
  grading_company TEXT,
  estimated_value TEXT NOT NULL DEFAULT '0',
  status TEXT NOT NULL DEFAULT 'pending',
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS submissions (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id INTEGER NOT NULL,
  item_id INTEGER NOT NULL UNIQUE,
  status TEXT NOT NULL DEFAULT 'submitted',
  image_urls TEXT NOT NULL DEFAULT '{}',
  created_at DATETIME,
  received_at DATETIME,
  approved_at DATETIME,
  rejected_at DATETIME
);`}
	for _, ddl := range ddls {
		require.NoError(t, conn.Exec(ddl).Error)
	}

	t.Cleanup(func() {
		for _, table := range []string{"submissions", "items", "users"} {
			_ = conn.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", table)).Error
		}
	})

	return conn
}

type stubImageStore struct {
	uploads int
	fail    error
}

func (s *stubImageStore) UploadImage(ctx context.Context, data []byte, prefix, format string) (string, error) {
	if s.fail != nil {
		return "", s.fail
	}
	s.uploads++
	return fmt.Sprintf("items/%d.%s", s.uploads, format), nil
}

type stubAudit struct {
	entries []auditlog.Entry
}

func (s *stubAudit) Record(ctx context.Context, entry auditlog.Entry) {
	s.entries = append(s.entries, entry)
}

func (s *stubAudit) List(ctx context.Context, filter auditlog.ListFilter, page pagination.Params) ([]models.ActionLog, error) {
	return nil, nil
}

func newTestClient(conn *gorm.DB) *db.Client {
	return db.NewFromGorm(conn, sql.LevelDefault)
}
