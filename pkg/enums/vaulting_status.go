package enums

import "fmt"

// VaultingStatus tracks the custody token lifecycle for a vaulted item.
type VaultingStatus string

const (
	VaultingStatusNotMinted   VaultingStatus = "not_minted"
	VaultingStatusMinting     VaultingStatus = "minting"
	VaultingStatusMinted      VaultingStatus = "minted"
	VaultingStatusLocking     VaultingStatus = "locking"
	VaultingStatusLocked      VaultingStatus = "locked"
	VaultingStatusWithdrawing VaultingStatus = "withdrawing"
	VaultingStatusWithdrawn   VaultingStatus = "withdrawn"
)

var validVaultingStatuses = []VaultingStatus{
	VaultingStatusNotMinted,
	VaultingStatusMinting,
	VaultingStatusMinted,
	VaultingStatusLocking,
	VaultingStatusLocked,
	VaultingStatusWithdrawing,
	VaultingStatusWithdrawn,
}

// String implements fmt.Stringer.
func (v VaultingStatus) String() string {
	return string(v)
}

// IsValid reports whether the value is a known VaultingStatus.
func (v VaultingStatus) IsValid() bool {
	for _, candidate := range validVaultingStatuses {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseVaultingStatus converts the raw string to VaultingStatus.
func ParseVaultingStatus(value string) (VaultingStatus, error) {
	for _, candidate := range validVaultingStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid vaulting status %q", value)
}
