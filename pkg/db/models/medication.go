package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/pharmstack/pharmacy-backend/pkg/enums"
)

// Medication is a sellable product; price is the unit price used when an
// order's total amount is computed.
type Medication struct {
	ID             int64                `gorm:"column:id;primaryKey;autoIncrement"`
	Name           string               `gorm:"column:name;not null"`
	Form           enums.MedicationForm `gorm:"column:form;type:text;not null"`
	Price          decimal.Decimal      `gorm:"column:price;type:numeric(12,2);not null"`
	ExpirationDate *time.Time           `gorm:"column:expiration_date"`
	CreatedAt      time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
