package orders

import (
	"github.com/shopspring/decimal"
)

// OrderRequest is the payload for placing or updating an order. Every id must
// reference an existing entity; quantity is the number of units to debit from
// the pharmacy's stock.
type OrderRequest struct {
	CustomerID   int64 `json:"customer_id" validate:"required,gt=0"`
	EmployeeID   int64 `json:"employee_id" validate:"required,gt=0"`
	PharmacyID   int64 `json:"pharmacy_id" validate:"required,gt=0"`
	MedicationID int64 `json:"medication_id" validate:"required,gt=0"`
	Quantity     int   `json:"quantity" validate:"required,gt=0"`
}

// OrderTotals aggregates orders placed inside a date range.
type OrderTotals struct {
	OrderCount    int64           `gorm:"column:order_count" json:"order_count"`
	TotalQuantity int64           `gorm:"column:total_quantity" json:"total_quantity"`
	TotalAmount   decimal.Decimal `gorm:"column:total_amount" json:"total_amount"`
}
