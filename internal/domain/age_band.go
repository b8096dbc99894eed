package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// AgeBand is an inclusive age range gating which curriculum items a learner
// is eligible for. It is represented on the wire as "<min>-<max>", e.g. "5-6".
type AgeBand struct {
	Min int
	Max int
}

// ParseAgeBand parses a "<min>-<max>" band string.
// Returns ErrInvalidAgeBand if the string is malformed or the range is
// inverted.
func ParseAgeBand(s string) (AgeBand, error) {
	lo, hi, ok := strings.Cut(s, "-")
	if !ok {
		return AgeBand{}, fmt.Errorf("%w: %q", ErrInvalidAgeBand, s)
	}

	min, err := strconv.Atoi(strings.TrimSpace(lo))
	if err != nil {
		return AgeBand{}, fmt.Errorf("%w: %q", ErrInvalidAgeBand, s)
	}
	max, err := strconv.Atoi(strings.TrimSpace(hi))
	if err != nil {
		return AgeBand{}, fmt.Errorf("%w: %q", ErrInvalidAgeBand, s)
	}

	if min < 0 || max < min {
		return AgeBand{}, fmt.Errorf("%w: %q", ErrInvalidAgeBand, s)
	}

	return AgeBand{Min: min, Max: max}, nil
}

// String returns the canonical "<min>-<max>" form.
func (b AgeBand) String() string {
	return fmt.Sprintf("%d-%d", b.Min, b.Max)
}

// Overlaps reports whether this band shares at least one age with the
// given item range.
func (b AgeBand) Overlaps(minAge, maxAge int) bool {
	return minAge <= b.Max && maxAge >= b.Min
}
