package enums

import "fmt"

// MintEventType labels callbacks from the minting service.
type MintEventType string

const (
	MintEventToMint MintEventType = "to_mint"
	MintEventMinted MintEventType = "minted"
	MintEventToBurn MintEventType = "to_burn"
	MintEventBurned MintEventType = "burned"
)

var validMintEventTypes = []MintEventType{
	MintEventToMint,
	MintEventMinted,
	MintEventToBurn,
	MintEventBurned,
}

// IsValid reports whether the value is a known MintEventType.
func (m MintEventType) IsValid() bool {
	for _, candidate := range validMintEventTypes {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMintEventType converts the raw string to MintEventType.
func ParseMintEventType(value string) (MintEventType, error) {
	for _, candidate := range validMintEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid mint event type %q", value)
}
