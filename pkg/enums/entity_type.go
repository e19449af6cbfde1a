package enums

import "fmt"

// EntityType identifies which record an audited action touched.
type EntityType string

const (
	EntityTypeUser       EntityType = "user"
	EntityTypeItem       EntityType = "item"
	EntityTypeSubmission EntityType = "submission"
	EntityTypeVaulting   EntityType = "vaulting"
	EntityTypeListing    EntityType = "listing"
	EntityTypeInventory  EntityType = "inventory"
)

var validEntityTypes = []EntityType{
	EntityTypeUser,
	EntityTypeItem,
	EntityTypeSubmission,
	EntityTypeVaulting,
	EntityTypeListing,
	EntityTypeInventory,
}

// IsValid reports whether the value is a known EntityType.
func (e EntityType) IsValid() bool {
	for _, candidate := range validEntityTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseEntityType converts the raw string to EntityType.
func ParseEntityType(value string) (EntityType, error) {
	for _, candidate := range validEntityTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid entity type %q", value)
}
