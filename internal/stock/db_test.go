package stock

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pharmstack/pharmacy-backend/pkg/db/models"
	"github.com/pharmstack/pharmacy-backend/pkg/enums"
)

var testDBSeq atomic.Int64

// openTestDB gives each test its own in-memory database. A single connection
// keeps concurrent writers serialized the way Postgres row locks would.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:stock_test_%d?mode=memory&cache=shared", testDBSeq.Add(1))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("failed to unwrap sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	if err := conn.AutoMigrate(&models.Pharmacy{}, &models.Medication{}, &models.PharmacyMedication{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return conn
}

func mustCreateTestPharmacy(t *testing.T, db *gorm.DB, name string) *models.Pharmacy {
	t.Helper()
	pharmacy := &models.Pharmacy{Name: name, Address: "1 Main St"}
	if err := db.Create(pharmacy).Error; err != nil {
		t.Fatalf("create pharmacy: %v", err)
	}
	return pharmacy
}

func mustCreateTestMedication(t *testing.T, db *gorm.DB, name string) *models.Medication {
	t.Helper()
	medication := &models.Medication{
		Name:  name,
		Form:  enums.MedicationFormTablet,
		Price: decimal.NewFromFloat(4.50),
	}
	if err := db.Create(medication).Error; err != nil {
		t.Fatalf("create medication: %v", err)
	}
	return medication
}
