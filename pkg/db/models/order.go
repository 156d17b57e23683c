package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/pharmstack/pharmacy-backend/pkg/enums"
)

// Order is the persisted record of a fulfilled stock debit. TotalAmount is
// quantity times the medication unit price at the time the order was placed.
type Order struct {
	ID           int64             `gorm:"column:id;primaryKey;autoIncrement"`
	CustomerID   int64             `gorm:"column:customer_id;not null"`
	EmployeeID   int64             `gorm:"column:employee_id;not null"`
	PharmacyID   int64             `gorm:"column:pharmacy_id;not null"`
	MedicationID int64             `gorm:"column:medication_id;not null"`
	Quantity     int               `gorm:"column:quantity;not null"`
	TotalAmount  decimal.Decimal   `gorm:"column:total_amount;type:numeric(12,2);not null"`
	OrderDate    time.Time         `gorm:"column:order_date;not null"`
	Status       enums.OrderStatus `gorm:"column:status;type:text;not null;default:'new'"`
	CreatedAt    time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
