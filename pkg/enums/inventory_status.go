package enums

import "fmt"

// InventoryStatus tracks whether a physical slot assignment is active.
type InventoryStatus string

const (
	InventoryStatusStored   InventoryStatus = "stored"
	InventoryStatusReleased InventoryStatus = "released"
)

var validInventoryStatuses = []InventoryStatus{
	InventoryStatusStored,
	InventoryStatusReleased,
}

// IsValid reports whether the value is a known InventoryStatus.
func (i InventoryStatus) IsValid() bool {
	for _, candidate := range validInventoryStatuses {
		if candidate == i {
			return true
		}
	}
	return false
}

// ParseInventoryStatus converts the raw string to InventoryStatus.
func ParseInventoryStatus(value string) (InventoryStatus, error) {
	for _, candidate := range validInventoryStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid inventory status %q", value)
}
