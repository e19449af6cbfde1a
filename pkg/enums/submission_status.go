package enums

import "fmt"

// SubmissionStatus tracks a grading submission through intake.
type SubmissionStatus string

const (
	SubmissionStatusSubmitted SubmissionStatus = "submitted"
	SubmissionStatusReceived  SubmissionStatus = "received"
	SubmissionStatusRejected  SubmissionStatus = "rejected"
	SubmissionStatusApproved  SubmissionStatus = "approved"
	SubmissionStatusVaulted   SubmissionStatus = "vaulted"
	SubmissionStatusFailed    SubmissionStatus = "failed"
)

var validSubmissionStatuses = []SubmissionStatus{
	SubmissionStatusSubmitted,
	SubmissionStatusReceived,
	SubmissionStatusRejected,
	SubmissionStatusApproved,
	SubmissionStatusVaulted,
	SubmissionStatusFailed,
}

// String implements fmt.Stringer.
func (s SubmissionStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SubmissionStatus.
func (s SubmissionStatus) IsValid() bool {
	for _, candidate := range validSubmissionStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSubmissionStatus converts the raw string to SubmissionStatus.
func ParseSubmissionStatus(value string) (SubmissionStatus, error) {
	for _, candidate := range validSubmissionStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid submission status %q", value)
}
