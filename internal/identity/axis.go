package identity

import (
	"slices"
	"strings"
)

// AxisKind tags the representation of an Axis.
type AxisKind uint8

const (
	// Unconstrained matches every device on the axis.
	Unconstrained AxisKind = iota
	// ExactTuple matches exactly one tuple.
	ExactTuple
	// TupleSet matches any of two or more tuples.
	TupleSet
)

func (k AxisKind) String() string {
	switch k {
	case Unconstrained:
		return "unconstrained"
	case ExactTuple:
		return "exact"
	case TupleSet:
		return "set"
	default:
		return "unknown"
	}
}

// Axis is the restriction of one identity axis. The zero value is Unconstrained.
// A constrained axis always holds at least one tuple; tuples are kept sorted
// and free of duplicates so that equality is structural.
type Axis struct {
	kind   AxisKind
	tuples []Tuple
}

// Any returns an unconstrained axis.
func Any() Axis {
	return Axis{}
}

// Of returns a constrained axis holding the given tuples.
// It panics when called without tuples: a constrained axis is never empty.
func Of(tuples ...Tuple) Axis {
	a, ok := newAxis(tuples)
	if !ok {
		panic("identity: constrained axis requires at least one tuple")
	}
	return a
}

// AxisFromValues builds an axis from a flat property value list. An empty list
// yields an unconstrained axis.
func AxisFromValues(values []uint32, arity int) (Axis, error) {
	tuples, err := TuplesFromValues(values, arity)
	if err != nil {
		return Axis{}, err
	}
	if len(tuples) == 0 {
		return Any(), nil
	}
	return Of(tuples...), nil
}

// newAxis normalizes tuples into an axis. ok is false when no tuples remain.
func newAxis(tuples []Tuple) (Axis, bool) {
	if len(tuples) == 0 {
		return Axis{}, false
	}
	sorted := make([]Tuple, 0, len(tuples))
	for _, t := range tuples {
		sorted = append(sorted, t.clone())
	}
	slices.SortFunc(sorted, compareTuples)
	sorted = slices.CompactFunc(sorted, func(a, b Tuple) bool {
		return compareTuples(a, b) == 0
	})

	kind := TupleSet
	if len(sorted) == 1 {
		kind = ExactTuple
	}
	return Axis{kind: kind, tuples: sorted}, true
}

// Kind returns the axis representation tag.
func (a Axis) Kind() AxisKind {
	return a.kind
}

// Constrained reports whether the axis restricts devices at all.
func (a Axis) Constrained() bool {
	return a.kind != Unconstrained
}

// Tuples returns a copy of the axis tuples in canonical order.
func (a Axis) Tuples() []Tuple {
	out := make([]Tuple, len(a.tuples))
	for i, t := range a.tuples {
		out[i] = t.clone()
	}
	return out
}

// Values flattens the axis into a property value list.
func (a Axis) Values() []uint32 {
	var values []uint32
	for _, t := range a.tuples {
		values = append(values, t...)
	}
	return values
}

// Equal reports structural equality.
func (a Axis) Equal(b Axis) bool {
	if a.kind != b.kind || len(a.tuples) != len(b.tuples) {
		return false
	}
	for i := range a.tuples {
		if compareTuples(a.tuples[i], b.tuples[i]) != 0 {
			return false
		}
	}
	return true
}

func (a Axis) has(t Tuple) bool {
	_, found := slices.BinarySearchFunc(a.tuples, t, compareTuples)
	return found
}

// subsetOf reports whether every tuple of a is in b. Both must be constrained.
func (a Axis) subsetOf(b Axis) bool {
	for _, t := range a.tuples {
		if !b.has(t) {
			return false
		}
	}
	return true
}

// contains: b unconstrained, or both constrained and b ⊆ a.
func (a Axis) contains(b Axis) bool {
	if !b.Constrained() {
		return true
	}
	return a.Constrained() && b.subsetOf(a)
}

// intersect yields Unconstrained when either side is, otherwise the common
// tuples. ok is false when two constrained axes share nothing.
func (a Axis) intersect(b Axis) (Axis, bool) {
	if !a.Constrained() || !b.Constrained() {
		return Any(), true
	}
	var common []Tuple
	for _, t := range a.tuples {
		if b.has(t) {
			common = append(common, t)
		}
	}
	return newAxis(common)
}

// minus removes b's tuples from a. Both must be constrained; ok is false when
// nothing remains.
func (a Axis) minus(b Axis) (Axis, bool) {
	var rest []Tuple
	for _, t := range a.tuples {
		if !b.has(t) {
			rest = append(rest, t)
		}
	}
	return newAxis(rest)
}

func (a Axis) overlaps(b Axis) bool {
	for _, t := range a.tuples {
		if b.has(t) {
			return true
		}
	}
	return false
}

func (a Axis) hasZeroTuple() bool {
	for _, t := range a.tuples {
		if t.IsZero() {
			return true
		}
	}
	return false
}

// String renders "*" for unconstrained, otherwise the tuples.
func (a Axis) String() string {
	if !a.Constrained() {
		return "*"
	}
	parts := make([]string, len(a.tuples))
	for i, t := range a.tuples {
		parts[i] = t.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (a Axis) key() string {
	if !a.Constrained() {
		return "*"
	}
	parts := make([]string, len(a.tuples))
	for i, t := range a.tuples {
		parts[i] = t.key()
	}
	return strings.Join(parts, ",")
}
