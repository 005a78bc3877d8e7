package identity

import "strings"

// AxisID names one of the three identity axes.
type AxisID int

const (
	Plat AxisID = iota
	Board
	Pmic
)

const axisCount = 3

// AxisIDs lists the axes in canonical order.
var AxisIDs = [axisCount]AxisID{Plat, Board, Pmic}

func (id AxisID) String() string {
	switch id {
	case Plat:
		return "plat"
	case Board:
		return "board"
	case Pmic:
		return "pmic"
	default:
		return "unknown"
	}
}

// Identity is the set of devices a blob matches: the conjunction of its axes.
// Identities are values; operations never modify their receiver.
type Identity struct {
	axes [axisCount]Axis
}

// New returns an identity from its three axes.
func New(plat, board, pmic Axis) Identity {
	return Identity{axes: [axisCount]Axis{plat, board, pmic}}
}

// Plat returns the platform id axis.
func (id Identity) Plat() Axis { return id.axes[Plat] }

// Board returns the board id axis.
func (id Identity) Board() Axis { return id.axes[Board] }

// Pmic returns the pmic id axis.
func (id Identity) Pmic() Axis { return id.axes[Pmic] }

// Axis returns the given axis.
func (id Identity) Axis(ax AxisID) Axis {
	return id.axes[ax]
}

// With returns a copy of id with one axis replaced.
func (id Identity) With(ax AxisID, a Axis) Identity {
	id.axes[ax] = a
	return id
}

// Constrained reports whether at least one axis is constrained.
func (id Identity) Constrained() bool {
	for _, a := range id.axes {
		if a.Constrained() {
			return true
		}
	}
	return false
}

// Equal reports whether both identities restrict every axis identically.
func (id Identity) Equal(other Identity) bool {
	for ax := range id.axes {
		if !id.axes[ax].Equal(other.axes[ax]) {
			return false
		}
	}
	return true
}

// Contains reports, per axis, that other is unconstrained or that both are
// constrained with other's tuples a subset of id's. An unconstrained axis of
// id does not contain a constrained axis of other.
func (id Identity) Contains(other Identity) bool {
	for ax := range id.axes {
		if !id.axes[ax].contains(other.axes[ax]) {
			return false
		}
	}
	return true
}

// Intersect combines two identities axis by axis. An axis left unconstrained
// by either side is unconstrained in the result, so it can never block a
// later Contains check. ok is false when some constrained axes share no tuple,
// meaning the identities have no device in common.
func (id Identity) Intersect(other Identity) (Identity, bool) {
	var out Identity
	for ax := range id.axes {
		a, ok := id.axes[ax].intersect(other.axes[ax])
		if !ok {
			return Identity{}, false
		}
		out.axes[ax] = a
	}
	return out, true
}

// Difference splits id into disjoint pieces whose union is id, one of which
// (always the first) carries other's value on every axis where other is
// constrained and differs from id. Every other piece takes, on each differing
// axis, either other's tuples or id's remaining tuples; all 2^k combinations
// over the k differing axes are produced. A single piece means no split.
//
// Difference returns nil unless id.Contains(other).
func (id Identity) Difference(other Identity) []Identity {
	if !id.Contains(other) {
		return nil
	}

	var differing []AxisID
	for _, ax := range AxisIDs {
		if other.axes[ax].Constrained() && !id.axes[ax].Equal(other.axes[ax]) {
			differing = append(differing, ax)
		}
	}

	pieces := make([]Identity, 0, 1<<len(differing))
	for mask := 0; mask < 1<<len(differing); mask++ {
		piece := id
		for bit, ax := range differing {
			if mask&(1<<bit) == 0 {
				piece.axes[ax] = other.axes[ax]
				continue
			}
			// other ⊊ id on a differing axis, so the remainder is never empty.
			rest, _ := id.axes[ax].minus(other.axes[ax])
			piece.axes[ax] = rest
		}
		pieces = append(pieces, piece)
	}
	return pieces
}

// MoreSpecificThan applies the bootloader matching rule: id is considered a
// refinement of other when other constrains at least one axis and every axis
// is unconstrained on one side, carries the all-zero wildcard tuple in other,
// or shares a tuple.
func (id Identity) MoreSpecificThan(other Identity) bool {
	if !other.Constrained() {
		return false
	}
	for ax := range id.axes {
		a, b := id.axes[ax], other.axes[ax]
		if !a.Constrained() || !b.Constrained() {
			continue
		}
		if b.hasZeroTuple() {
			continue
		}
		if !a.overlaps(b) {
			return false
		}
	}
	return true
}

// Key is a canonical serialization suitable for stable hashing.
func (id Identity) Key() string {
	parts := make([]string, len(id.axes))
	for i, ax := range AxisIDs {
		parts[i] = ax.String() + "=" + id.axes[ax].key()
	}
	return strings.Join(parts, ";")
}

// String renders the identity for logs.
func (id Identity) String() string {
	parts := make([]string, len(id.axes))
	for i, ax := range AxisIDs {
		parts[i] = ax.String() + ":" + id.axes[ax].String()
	}
	return strings.Join(parts, " ")
}
