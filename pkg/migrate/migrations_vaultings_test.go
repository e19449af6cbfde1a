package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestVaultingsMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_vaultings.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no vaultings migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS vaultings",
		"CONSTRAINT idx_vaultings_item_id UNIQUE (item_id)",
		"FOREIGN KEY (item_id) REFERENCES items(id)",
		"CHECK (collection IS NULL OR collection = lower(collection))",
		"DROP TABLE IF EXISTS vaultings",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestListingsMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_listings.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no listings migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS listings",
		"CONSTRAINT idx_listings_vaulting_id UNIQUE (vaulting_id)",
		"CHECK (price_cents > 0)",
		"DROP TABLE IF EXISTS listings",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}
