package enums

import "fmt"

// ActionType is the canonical action recorded in the audit log.
type ActionType string

const (
	ActionSubmissionCreated  ActionType = "submission_created"
	ActionSubmissionReceived ActionType = "submission_received"
	ActionSubmissionApproved ActionType = "submission_approved"
	ActionSubmissionRejected ActionType = "submission_rejected"
	ActionVaultingCreated    ActionType = "vaulting_created"
	ActionVaultingMinted     ActionType = "vaulting_minted"
	ActionVaultingWithdraw   ActionType = "vaulting_withdraw_requested"
	ActionVaultingWithdrawn  ActionType = "vaulting_withdrawn"
	ActionListingCreated     ActionType = "listing_created"
	ActionListingPriceSet    ActionType = "listing_price_updated"
	ActionListingSold        ActionType = "listing_sold"
	ActionListingEnded       ActionType = "listing_ended"
	ActionInventoryAssigned  ActionType = "inventory_assigned"
	ActionInventoryUpdated   ActionType = "inventory_updated"
)

var validActionTypes = []ActionType{
	ActionSubmissionCreated,
	ActionSubmissionReceived,
	ActionSubmissionApproved,
	ActionSubmissionRejected,
	ActionVaultingCreated,
	ActionVaultingMinted,
	ActionVaultingWithdraw,
	ActionVaultingWithdrawn,
	ActionListingCreated,
	ActionListingPriceSet,
	ActionListingSold,
	ActionListingEnded,
	ActionInventoryAssigned,
	ActionInventoryUpdated,
}

// IsValid reports whether the value is a known ActionType.
func (a ActionType) IsValid() bool {
	for _, candidate := range validActionTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseActionType converts the raw string to ActionType.
func ParseActionType(value string) (ActionType, error) {
	for _, candidate := range validActionTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid action type %q", value)
}
