package models

import (
	"time"

	"github.com/pharmstack/pharmacy-backend/pkg/enums"
)

// Employee works at exactly one pharmacy; the email is the notification target
// for low-stock alerts.
type Employee struct {
	ID         int64                  `gorm:"column:id;primaryKey;autoIncrement"`
	Name       string                 `gorm:"column:name;not null"`
	Position   enums.EmployeePosition `gorm:"column:position;type:text;not null"`
	Email      string                 `gorm:"column:email;not null"`
	PharmacyID int64                  `gorm:"column:pharmacy_id;not null"`
	CreatedAt  time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
