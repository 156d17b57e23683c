package enums

import "fmt"

// EmployeePosition describes the staff roles recorded per pharmacy employee.
type EmployeePosition string

const (
	EmployeePositionPharmacist EmployeePosition = "pharmacist"
	EmployeePositionTechnician EmployeePosition = "technician"
	EmployeePositionManager    EmployeePosition = "manager"
)

var validEmployeePositions = []EmployeePosition{
	EmployeePositionPharmacist,
	EmployeePositionTechnician,
	EmployeePositionManager,
}

// IsValid reports whether the value matches the canonical employee position enum.
func (e EmployeePosition) IsValid() bool {
	for _, candidate := range validEmployeePositions {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseEmployeePosition converts the raw string to EmployeePosition.
func ParseEmployeePosition(value string) (EmployeePosition, error) {
	for _, candidate := range validEmployeePositions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid employee position %q", value)
}
