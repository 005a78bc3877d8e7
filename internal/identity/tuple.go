package identity

import (
	"fmt"
	"strconv"
	"strings"
)

// Tuple is one device-identifying entry of an axis, e.g. (msm-id, soc-rev).
type Tuple []uint32

// IsZero reports whether every element is zero. Bootloaders treat the
// all-zero tuple as a wildcard.
func (t Tuple) IsZero() bool {
	for _, v := range t {
		if v != 0 {
			return false
		}
	}
	return true
}

// String renders the tuple as "(a, b, ...)".
func (t Tuple) String() string {
	parts := make([]string, len(t))
	for i, v := range t {
		parts[i] = strconv.FormatUint(uint64(v), 10)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// key is the canonical, order-preserving encoding used for set membership.
func (t Tuple) key() string {
	parts := make([]string, len(t))
	for i, v := range t {
		parts[i] = strconv.FormatUint(uint64(v), 10)
	}
	return strings.Join(parts, ".")
}

func (t Tuple) clone() Tuple {
	out := make(Tuple, len(t))
	copy(out, t)
	return out
}

// compareTuples orders tuples lexicographically, shorter first on a common prefix.
func compareTuples(a, b Tuple) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	return len(a) - len(b)
}

// TuplesFromValues splits a flat property value list into tuples of the given arity.
func TuplesFromValues(values []uint32, arity int) ([]Tuple, error) {
	if arity < 1 {
		return nil, fmt.Errorf("invalid tuple arity %d", arity)
	}
	if len(values)%arity != 0 {
		return nil, fmt.Errorf("%d values cannot be split into tuples of %d", len(values), arity)
	}
	tuples := make([]Tuple, 0, len(values)/arity)
	for i := 0; i < len(values); i += arity {
		tuples = append(tuples, Tuple(values[i:i+arity]).clone())
	}
	return tuples, nil
}
