package domain

import "fmt"

// SoftCapacityCeiling is the capacity above which a range save is warned
// about but not blocked.
const SoftCapacityCeiling = 500

// ValidateRange validates a cell's color-code range and capacity before a
// configuration save. Bounds must be set together and are compared as plain
// strings, matching how they are persisted ("9" sorts after "10"; codes with
// suffixes like "23011737.1" make numeric parsing unreliable either way).
// The returned warning is non-fatal and empty unless the capacity exceeds
// SoftCapacityCeiling.
func ValidateRange(start, end *string, capacity int) (string, error) {
	if (start == nil) != (end == nil) {
		return "", ErrRangeIncomplete
	}
	if start != nil && *start > *end {
		return "", ErrRangeInverted
	}
	if capacity < 1 {
		return "", ErrInvalidCapacity
	}
	if capacity > SoftCapacityCeiling {
		return fmt.Sprintf("capacity %d exceeds the usual ceiling of %d", capacity, SoftCapacityCeiling), nil
	}
	return "", nil
}
