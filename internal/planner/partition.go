package planner

import (
	"github.com/danieljhkim/dtmerge/internal/blob"
	"github.com/danieljhkim/dtmerge/internal/identity"
)

// Partition is one output unit of a base: the devices it covers and the
// techpacks merged into it, in application order.
type Partition struct {
	// Base is the base blob this partition derives from
	Base *blob.Record

	// Identity is the partition's (possibly narrowed) identity
	Identity identity.Identity

	// Techpacks is the ordered list of techpacks applied so far
	Techpacks []*blob.Record
}

// Narrowed reports whether the partition covers less than its whole base.
func (p *Partition) Narrowed() bool {
	return !p.Identity.Equal(p.Base.Identity)
}

// TechpackPaths returns the applied techpack paths in order.
func (p *Partition) TechpackPaths() []string {
	paths := make([]string, len(p.Techpacks))
	for i, tp := range p.Techpacks {
		paths[i] = tp.Path
	}
	return paths
}

func (p *Partition) has(tp *blob.Record) bool {
	for _, applied := range p.Techpacks {
		if applied.Path == tp.Path {
			return true
		}
	}
	return false
}

// refine returns a copy of p restricted to id. The techpack list is copied so
// later appends to one piece never leak into another.
func (p *Partition) refine(id identity.Identity) *Partition {
	return &Partition{
		Base:      p.Base,
		Identity:  id,
		Techpacks: append([]*blob.Record(nil), p.Techpacks...),
	}
}

// PartitionSet owns every partition derived from one base.
type PartitionSet struct {
	base       *blob.Record
	partitions []*Partition
}

// NewPartitionSet creates a set holding a single partition equal to base.
func NewPartitionSet(base *blob.Record) *PartitionSet {
	return &PartitionSet{
		base: base,
		partitions: []*Partition{
			{Base: base, Identity: base.Identity, Techpacks: []*blob.Record{}},
		},
	}
}

// Base returns the base record.
func (s *PartitionSet) Base() *blob.Record {
	return s.base
}

// Partitions returns the current partitions in creation order.
func (s *PartitionSet) Partitions() []*Partition {
	return append([]*Partition(nil), s.partitions...)
}

// TryAdd offers a techpack to the set and reports whether any partition
// received it.
//
// Algorithm steps:
// 1. For every current partition, intersect its identity with the techpack's
// 2. Skip partitions the overlap does not fall within
// 3. Otherwise split the partition so one piece equals the overlap
// 4. Swap in the refined partition list
// 5. Append the techpack to every partition its identity contains
//
// A techpack already applied to a partition is not appended again, so
// offering the same techpack twice is a no-op.
func (s *PartitionSet) TryAdd(tp *blob.Record) bool {
	next := make([]*Partition, 0, len(s.partitions))
	for _, p := range s.partitions {
		overlap, ok := tp.Identity.Intersect(p.Identity)
		if !ok || !p.Identity.Contains(overlap) {
			next = append(next, p)
			continue
		}

		pieces := p.Identity.Difference(overlap)
		if len(pieces) <= 1 {
			next = append(next, p)
			continue
		}
		for _, id := range pieces {
			next = append(next, p.refine(id))
		}
	}
	s.partitions = next

	matched := false
	for _, p := range s.partitions {
		if !tp.Identity.Contains(p.Identity) {
			continue
		}
		matched = true
		if !p.has(tp) {
			p.Techpacks = append(p.Techpacks, tp)
		}
	}
	return matched
}
