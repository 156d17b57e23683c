package models

import "time"

// PharmacyMedication is the stock ledger row: on-hand quantity per
// (pharmacy, medication) pair. Quantity never goes below zero; a row at zero
// stays queryable until an operator removes the association.
type PharmacyMedication struct {
	PharmacyID   int64     `gorm:"column:pharmacy_id;primaryKey"`
	MedicationID int64     `gorm:"column:medication_id;primaryKey"`
	Quantity     int       `gorm:"column:quantity;not null;default:0"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
