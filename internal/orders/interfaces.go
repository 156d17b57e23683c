package orders

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/pharmstack/pharmacy-backend/pkg/db/models"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Repository defines persistence operations for customer orders.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	Update(ctx context.Context, order *models.Order) (*models.Order, error)
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*models.Order, error)
	List(ctx context.Context) ([]models.Order, error)
	FindByCustomerPhone(ctx context.Context, phone string) ([]models.Order, error)
	TotalsByDateRange(ctx context.Context, from, to time.Time) (*OrderTotals, error)
}

// EntityResolver resolves the reference entities an order request names.
type EntityResolver interface {
	GetPharmacy(ctx context.Context, id int64) (*models.Pharmacy, error)
	GetMedication(ctx context.Context, id int64) (*models.Medication, error)
	GetEmployee(ctx context.Context, id int64) (*models.Employee, error)
	GetCustomer(ctx context.Context, id int64) (*models.Customer, error)
}

// StockDebitor decrements on-hand stock inside the caller's transaction.
type StockDebitor interface {
	Debit(ctx context.Context, tx *gorm.DB, pharmacyID, medicationID int64, amount int) error
}
