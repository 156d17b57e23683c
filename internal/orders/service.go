package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pharmstack/pharmacy-backend/internal/stock"
	"github.com/pharmstack/pharmacy-backend/pkg/db/models"
	"github.com/pharmstack/pharmacy-backend/pkg/enums"
	pkgerrors "github.com/pharmstack/pharmacy-backend/pkg/errors"
	"github.com/pharmstack/pharmacy-backend/pkg/logger"
)

// Service runs the order workflow: validate the request, resolve the actors,
// then debit stock and write the order in one transaction.
type Service struct {
	repo     Repository
	resolver EntityResolver
	stock    StockDebitor
	tx       txRunner
	logg     *logger.Logger
}

// NewService builds an order service with the required dependencies.
func NewService(repo Repository, resolver EntityResolver, debitor StockDebitor, tx txRunner, logg *logger.Logger) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if resolver == nil {
		return nil, fmt.Errorf("entity resolver required")
	}
	if debitor == nil {
		return nil, fmt.Errorf("stock debitor required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Service{repo: repo, resolver: resolver, stock: debitor, tx: tx, logg: logg}, nil
}

// PlaceOrder fulfills an order request. The stock debit and the order insert
// share one transaction; if either fails nothing is persisted.
func (s *Service) PlaceOrder(ctx context.Context, req OrderRequest) (*models.Order, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	medication, err := s.resolveActors(ctx, req)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		CustomerID:   req.CustomerID,
		EmployeeID:   req.EmployeeID,
		PharmacyID:   req.PharmacyID,
		MedicationID: req.MedicationID,
		Quantity:     req.Quantity,
		TotalAmount:  orderTotal(medication, req.Quantity),
		OrderDate:    time.Now().UTC(),
		Status:       enums.OrderStatusNew,
	}
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.stock.Debit(ctx, tx, req.PharmacyID, req.MedicationID, req.Quantity); err != nil {
			return err
		}
		created, err := s.repo.WithTx(tx).Create(ctx, order)
		if err != nil {
			return err
		}
		order = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	logCtx := s.logg.WithOrderID(ctx, order.ID)
	logCtx = s.logg.WithPharmacyID(logCtx, order.PharmacyID)
	s.logg.Info(logCtx, "order placed")
	return order, nil
}

// UpdateOrder replaces an existing order with the request's content. The new
// quantity is debited in full; the original debit is not returned.
func (s *Service) UpdateOrder(ctx context.Context, id int64, req OrderRequest) (*models.Order, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	medication, err := s.resolveActors(ctx, req)
	if err != nil {
		return nil, err
	}

	order.CustomerID = req.CustomerID
	order.EmployeeID = req.EmployeeID
	order.PharmacyID = req.PharmacyID
	order.MedicationID = req.MedicationID
	order.Quantity = req.Quantity
	order.TotalAmount = orderTotal(medication, req.Quantity)

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.stock.Debit(ctx, tx, req.PharmacyID, req.MedicationID, req.Quantity); err != nil {
			return err
		}
		updated, err := s.repo.WithTx(tx).Update(ctx, order)
		if err != nil {
			return err
		}
		order = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithOrderID(ctx, order.ID), "order updated")
	return order, nil
}

// DeleteOrder removes the order record. Stock debited when the order was
// placed stays debited.
func (s *Service) DeleteOrder(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logg.Info(s.logg.WithOrderID(ctx, id), "order deleted")
	return nil
}

// GetOrder loads one order by id.
func (s *Service) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	return s.repo.FindByID(ctx, id)
}

// ListOrders returns all orders, newest first.
func (s *Service) ListOrders(ctx context.Context) ([]models.Order, error) {
	return s.repo.List(ctx)
}

// FindOrdersByCustomerPhone returns the orders placed for the customer with
// the given phone number.
func (s *Service) FindOrdersByCustomerPhone(ctx context.Context, phone string) ([]models.Order, error) {
	if phone == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer phone required")
	}
	return s.repo.FindByCustomerPhone(ctx, phone)
}

// TotalsByDateRange aggregates order count, quantity and amount for orders
// whose order date falls inside [from, to].
func (s *Service) TotalsByDateRange(ctx context.Context, from, to time.Time) (*OrderTotals, error) {
	if from.After(to) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date range start is after its end")
	}
	return s.repo.TotalsByDateRange(ctx, from, to)
}

// resolveActors loads every entity the request names and checks the employee
// actually works at the target pharmacy.
func (s *Service) resolveActors(ctx context.Context, req OrderRequest) (*models.Medication, error) {
	employee, err := s.resolver.GetEmployee(ctx, req.EmployeeID)
	if err != nil {
		return nil, err
	}
	if employee.PharmacyID != req.PharmacyID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "employee does not work at this pharmacy").
			WithDetails(map[string]int64{
				"employee_id":          req.EmployeeID,
				"employee_pharmacy_id": employee.PharmacyID,
				"pharmacy_id":          req.PharmacyID,
			})
	}
	if _, err := s.resolver.GetCustomer(ctx, req.CustomerID); err != nil {
		return nil, err
	}
	if _, err := s.resolver.GetPharmacy(ctx, req.PharmacyID); err != nil {
		return nil, err
	}
	medication, err := s.resolver.GetMedication(ctx, req.MedicationID)
	if err != nil {
		return nil, err
	}
	return medication, nil
}

func orderTotal(medication *models.Medication, quantity int) decimal.Decimal {
	return medication.Price.Mul(decimal.NewFromInt(int64(quantity)))
}

type stockDebitorImpl struct{}

func (stockDebitorImpl) Debit(ctx context.Context, tx *gorm.DB, pharmacyID, medicationID int64, amount int) error {
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "transaction required for stock debit")
	}
	return stock.NewRepository(tx).Debit(ctx, pharmacyID, medicationID, amount)
}

// LedgerDebitor returns the stock-ledger-backed debitor used in production
// wiring.
func LedgerDebitor() StockDebitor {
	return stockDebitorImpl{}
}
