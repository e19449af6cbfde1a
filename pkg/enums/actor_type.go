package enums

import "fmt"

// ActorType identifies who performed an audited action.
type ActorType string

const (
	ActorTypeUser  ActorType = "user"
	ActorTypeAdmin ActorType = "admin"
	ActorTypeAPI   ActorType = "api"
)

var validActorTypes = []ActorType{
	ActorTypeUser,
	ActorTypeAdmin,
	ActorTypeAPI,
}

// IsValid reports whether the value is a known ActorType.
func (a ActorType) IsValid() bool {
	for _, candidate := range validActorTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseActorType converts the raw string to ActorType.
func ParseActorType(value string) (ActorType, error) {
	for _, candidate := range validActorTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid actor type %q", value)
}
