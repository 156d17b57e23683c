package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestStockMigrationEnforcesNonNegativeQuantity(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_pharmacy_medications.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no pharmacy_medications migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS pharmacy_medications",
		"PRIMARY KEY (pharmacy_id, medication_id)",
		"CHECK (quantity >= 0)",
		"FOREIGN KEY (pharmacy_id) REFERENCES pharmacies(id) ON DELETE CASCADE",
		"FOREIGN KEY (medication_id) REFERENCES medications(id) ON DELETE CASCADE",
		"DROP TABLE IF EXISTS pharmacy_medications",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestOrdersMigrationConstrainsQuantityAndStatus(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_orders.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no orders migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CHECK (quantity > 0)",
		"status TEXT NOT NULL DEFAULT 'new'",
		"DROP TABLE IF EXISTS orders",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}
