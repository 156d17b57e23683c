package enums

import "fmt"

// MedicationForm describes the allowed values for the `form` column in medications.
type MedicationForm string

const (
	MedicationFormTablet    MedicationForm = "tablet"
	MedicationFormCapsule   MedicationForm = "capsule"
	MedicationFormSyrup     MedicationForm = "syrup"
	MedicationFormInjection MedicationForm = "injection"
	MedicationFormOintment  MedicationForm = "ointment"
)

var validMedicationForms = []MedicationForm{
	MedicationFormTablet,
	MedicationFormCapsule,
	MedicationFormSyrup,
	MedicationFormInjection,
	MedicationFormOintment,
}

// IsValid reports whether the value matches the canonical medication form enum.
func (m MedicationForm) IsValid() bool {
	for _, candidate := range validMedicationForms {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMedicationForm converts the raw string to MedicationForm.
func ParseMedicationForm(value string) (MedicationForm, error) {
	for _, candidate := range validMedicationForms {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid medication form %q", value)
}
