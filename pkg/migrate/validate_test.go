package migrate

import "testing"

func TestValidateDirAcceptsShippedMigrations(t *testing.T) {
	if err := ValidateDir("migrations"); err != nil {
		t.Fatalf("expected shipped migrations to validate, got %v", err)
	}
}

func TestValidateDirRequiresDir(t *testing.T) {
	if err := ValidateDir(""); err == nil {
		t.Fatal("expected error for empty dir")
	}
}
