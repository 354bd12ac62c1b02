package enums

import "fmt"

// VariantStatus tracks the lifecycle of a provisioned catalog variant.
type VariantStatus string

const (
	// VariantStatusCreated means the variant exists remotely but no cart line
	// references it yet.
	VariantStatusCreated VariantStatus = "created"
	// VariantStatusAttached means a cart line referencing the variant exists.
	VariantStatusAttached VariantStatus = "attached"
	// VariantStatusOrphaned means attachment failed and compensation did not
	// remove the remote variant; the cleanup job will retry.
	VariantStatusOrphaned VariantStatus = "orphaned"
	// VariantStatusRemoved means the remote variant was deleted.
	VariantStatusRemoved VariantStatus = "removed"
)

var validVariantStatuses = []VariantStatus{
	VariantStatusCreated,
	VariantStatusAttached,
	VariantStatusOrphaned,
	VariantStatusRemoved,
}

// String implements fmt.Stringer.
func (v VariantStatus) String() string {
	return string(v)
}

// IsValid reports whether the value is a known VariantStatus.
func (v VariantStatus) IsValid() bool {
	for _, candidate := range validVariantStatuses {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseVariantStatus converts raw input into a VariantStatus.
func ParseVariantStatus(value string) (VariantStatus, error) {
	for _, candidate := range validVariantStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid variant status %q", value)
}
