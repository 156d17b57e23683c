package stock

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pharmstack/pharmacy-backend/pkg/db"
	"github.com/pharmstack/pharmacy-backend/pkg/db/models"
	"github.com/pharmstack/pharmacy-backend/pkg/enums"
	pkgerrors "github.com/pharmstack/pharmacy-backend/pkg/errors"
)

// LowStockRow is one shortage observed by the threshold scan, joined with the
// medication fields needed to render a notification line.
type LowStockRow struct {
	PharmacyID     int64                `gorm:"column:pharmacy_id"`
	MedicationID   int64                `gorm:"column:medication_id"`
	MedicationName string               `gorm:"column:medication_name"`
	Form           enums.MedicationForm `gorm:"column:form"`
	Price          decimal.Decimal      `gorm:"column:price"`
	Quantity       int                  `gorm:"column:quantity"`
}

// Shortfall is attached as error details when a debit cannot be satisfied.
type Shortfall struct {
	Requested int `json:"requested"`
	Available int `json:"available"`
}

// Repository persists the per-pharmacy stock ledger.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Get loads the ledger row for one (pharmacy, medication) pair.
func (r *Repository) Get(ctx context.Context, pharmacyID, medicationID int64) (*models.PharmacyMedication, error) {
	var row models.PharmacyMedication
	err := r.db.WithContext(ctx).
		First(&row, "pharmacy_id = ? AND medication_id = ?", pharmacyID, medicationID).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notStockedErr(pharmacyID, medicationID)
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &row, nil
}

// Upsert creates the ledger row or replaces its quantity.
func (r *Repository) Upsert(ctx context.Context, pharmacyID, medicationID int64, quantity int) error {
	if quantity < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "stock quantity cannot be negative")
	}
	row := models.PharmacyMedication{
		PharmacyID:   pharmacyID,
		MedicationID: medicationID,
		Quantity:     quantity,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "pharmacy_id"}, {Name: "medication_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"quantity", "updated_at"}),
		}).
		Create(&row).Error
	if err != nil {
		if db.IsCheckViolation(err, "pharmacy_medications_quantity_check") {
			return pkgerrors.New(pkgerrors.CodeValidation, "stock quantity cannot be negative")
		}
		return fmt.Errorf("upsert stock: %w", err)
	}
	return nil
}

// Debit decrements on-hand quantity by amount in a single conditional UPDATE,
// so concurrent debits can never oversell. Zero rows affected means the guard
// failed; a follow-up read tells a missing association apart from a shortage.
func (r *Repository) Debit(ctx context.Context, pharmacyID, medicationID int64, amount int) error {
	if amount <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "debit amount must be positive")
	}

	res := r.db.WithContext(ctx).
		Model(&models.PharmacyMedication{}).
		Where("pharmacy_id = ? AND medication_id = ? AND quantity >= ?", pharmacyID, medicationID, amount).
		Update("quantity", gorm.Expr("quantity - ?", amount))
	if res.Error != nil {
		return fmt.Errorf("debit stock: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var row models.PharmacyMedication
	err := r.db.WithContext(ctx).
		First(&row, "pharmacy_id = ? AND medication_id = ?", pharmacyID, medicationID).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notStockedErr(pharmacyID, medicationID)
		}
		return fmt.Errorf("debit stock lookup: %w", err)
	}
	return pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock for medication").
		WithDetails(Shortfall{Requested: amount, Available: row.Quantity})
}

// ListBelowThreshold returns a snapshot of every ledger row strictly below the
// threshold, joined with medication data, ordered for stable message output.
func (r *Repository) ListBelowThreshold(ctx context.Context, threshold int) ([]LowStockRow, error) {
	var rows []LowStockRow
	err := r.db.WithContext(ctx).
		Table("pharmacy_medications AS pm").
		Select("pm.pharmacy_id, pm.medication_id, m.name AS medication_name, m.form, m.price, pm.quantity").
		Joins("JOIN medications m ON m.id = pm.medication_id").
		Where("pm.quantity < ?", threshold).
		Order("pm.pharmacy_id, m.name, pm.medication_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	return rows, nil
}

func notStockedErr(pharmacyID, medicationID int64) error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "medication is not stocked at this pharmacy").
		WithDetails(map[string]int64{
			"pharmacy_id":   pharmacyID,
			"medication_id": medicationID,
		})
}
