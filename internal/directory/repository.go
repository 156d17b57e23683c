package directory

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/pharmstack/pharmacy-backend/pkg/db/models"
	pkgerrors "github.com/pharmstack/pharmacy-backend/pkg/errors"
)

// Repository resolves the chain's reference entities: pharmacies, medications,
// employees and customers. Order placement uses it to validate the actors a
// request names; the low-stock scan uses it to find notification recipients.
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

// GetPharmacy loads one pharmacy by id.
func (r *Repository) GetPharmacy(ctx context.Context, id int64) (*models.Pharmacy, error) {
	var pharmacy models.Pharmacy
	if err := r.db.WithContext(ctx).First(&pharmacy, "id = ?", id).Error; err != nil {
		return nil, translateLookupErr(err, "pharmacy", id)
	}
	return &pharmacy, nil
}

// GetMedication loads one medication by id.
func (r *Repository) GetMedication(ctx context.Context, id int64) (*models.Medication, error) {
	var medication models.Medication
	if err := r.db.WithContext(ctx).First(&medication, "id = ?", id).Error; err != nil {
		return nil, translateLookupErr(err, "medication", id)
	}
	return &medication, nil
}

// GetEmployee loads one employee by id.
func (r *Repository) GetEmployee(ctx context.Context, id int64) (*models.Employee, error) {
	var employee models.Employee
	if err := r.db.WithContext(ctx).First(&employee, "id = ?", id).Error; err != nil {
		return nil, translateLookupErr(err, "employee", id)
	}
	return &employee, nil
}

// GetCustomer loads one customer by id.
func (r *Repository) GetCustomer(ctx context.Context, id int64) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.WithContext(ctx).First(&customer, "id = ?", id).Error; err != nil {
		return nil, translateLookupErr(err, "customer", id)
	}
	return &customer, nil
}

// ListEmployeesByPharmacy returns every employee working at the pharmacy,
// ordered by id. An unknown pharmacy yields an empty slice, not an error.
func (r *Repository) ListEmployeesByPharmacy(ctx context.Context, pharmacyID int64) ([]models.Employee, error) {
	var employees []models.Employee
	err := r.db.WithContext(ctx).
		Where("pharmacy_id = ?", pharmacyID).
		Order("id").
		Find(&employees).Error
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	return employees, nil
}

func translateLookupErr(err error, kind string, id int64) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("%s not found", kind)).
			WithDetails(map[string]any{"kind": kind, "id": id})
	}
	return fmt.Errorf("get %s: %w", kind, err)
}
