package enums

import "fmt"

// ItemStatus tracks the custody state of a collectible item.
type ItemStatus string

const (
	ItemStatusPending   ItemStatus = "pending"
	ItemStatusVaulted   ItemStatus = "vaulted"
	ItemStatusWithdrawn ItemStatus = "withdrawn"
)

var validItemStatuses = []ItemStatus{
	ItemStatusPending,
	ItemStatusVaulted,
	ItemStatusWithdrawn,
}

// IsValid reports whether the value is a known ItemStatus.
func (i ItemStatus) IsValid() bool {
	for _, candidate := range validItemStatuses {
		if candidate == i {
			return true
		}
	}
	return false
}

// ParseItemStatus converts the raw string to ItemStatus.
func ParseItemStatus(value string) (ItemStatus, error) {
	for _, candidate := range validItemStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid item status %q", value)
}
