package enums

import "fmt"

// ActivityKind discriminates entries in the merged recent-activity feed.
type ActivityKind string

const (
	ActivityKindOffer   ActivityKind = "offer"
	ActivityKindRequest ActivityKind = "request"
)

var validActivityKinds = []ActivityKind{
	ActivityKindOffer,
	ActivityKindRequest,
}

// String implements fmt.Stringer.
func (a ActivityKind) String() string {
	return string(a)
}

// IsValid reports whether the value is a known ActivityKind.
func (a ActivityKind) IsValid() bool {
	for _, candidate := range validActivityKinds {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseActivityKind converts raw input into an ActivityKind.
func ParseActivityKind(value string) (ActivityKind, error) {
	for _, candidate := range validActivityKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid activity kind %q", value)
}
