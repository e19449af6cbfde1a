package enums

import "fmt"

// ListingStatus tracks a marketplace listing for a vaulted item.
type ListingStatus string

const (
	ListingStatusNotListed ListingStatus = "not_listed"
	ListingStatusListed    ListingStatus = "listed"
	ListingStatusSold      ListingStatus = "sold"
	ListingStatusEnded     ListingStatus = "ended"
)

var validListingStatuses = []ListingStatus{
	ListingStatusNotListed,
	ListingStatusListed,
	ListingStatusSold,
	ListingStatusEnded,
}

// String implements fmt.Stringer.
func (l ListingStatus) String() string {
	return string(l)
}

// IsValid reports whether the value is a known ListingStatus.
func (l ListingStatus) IsValid() bool {
	for _, candidate := range validListingStatuses {
		if candidate == l {
			return true
		}
	}
	return false
}

// ParseListingStatus converts the raw string to ListingStatus.
func ParseListingStatus(value string) (ListingStatus, error) {
	for _, candidate := range validListingStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid listing status %q", value)
}
