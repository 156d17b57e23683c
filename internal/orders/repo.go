package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/pharmstack/pharmacy-backend/pkg/db/models"
	pkgerrors "github.com/pharmstack/pharmacy-backend/pkg/errors"
)

type gormRepository struct {
	db *gorm.DB
}

// NewRepository builds the GORM-backed order repository.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) WithTx(tx *gorm.DB) Repository {
	return &gormRepository{db: tx}
}

func (r *gormRepository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	return order, nil
}

func (r *gormRepository) Update(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Save(order).Error; err != nil {
		return nil, fmt.Errorf("update order: %w", err)
	}
	return order, nil
}

func (r *gormRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&models.Order{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete order: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return orderNotFoundErr(id)
	}
	return nil
}

func (r *gormRepository) FindByID(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, orderNotFoundErr(id)
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	return &order, nil
}

func (r *gormRepository) List(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Order("order_date DESC, id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

func (r *gormRepository) FindByCustomerPhone(ctx context.Context, phone string) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Joins("JOIN customers ON customers.id = orders.customer_id").
		Where("customers.phone = ?", phone).
		Order("orders.order_date DESC, orders.id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("find orders by phone: %w", err)
	}
	return orders, nil
}

func (r *gormRepository) TotalsByDateRange(ctx context.Context, from, to time.Time) (*OrderTotals, error) {
	var totals OrderTotals
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("COUNT(*) AS order_count, COALESCE(SUM(quantity), 0) AS total_quantity, COALESCE(SUM(total_amount), 0) AS total_amount").
		Where("order_date >= ? AND order_date <= ?", from, to).
		Scan(&totals).Error
	if err != nil {
		return nil, fmt.Errorf("order totals: %w", err)
	}
	return &totals, nil
}

func orderNotFoundErr(id int64) error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "order not found").
		WithDetails(map[string]int64{"id": id})
}
