package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rferreira-dev/survshop-backend/pkg/migrate"
)

func TestMigrationsDirValidates(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations dir: %v", err)
	}
}

func TestInitMigrationCoversAllTables(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_init.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no init migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE catalog_items",
		"CREATE TABLE coupons",
		"CREATE TABLE pending_payments",
		"CREATE TABLE purchase_records",
		"CREATE TABLE entitlement_balances",
		"CREATE TABLE steam_links",
		"CREATE TABLE redemption_events",
		"DROP TABLE IF EXISTS purchase_records",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestCreateSQLMigrationRejectsEmptyName(t *testing.T) {
	if _, err := migrate.CreateSQLMigration(t.TempDir(), ""); err == nil {
		t.Fatal("expected error for empty name")
	}
}
