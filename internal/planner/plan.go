package planner

import (
	"github.com/danieljhkim/dtmerge/internal/blob"
	"github.com/danieljhkim/dtmerge/internal/identity"
)

// SavePlan represents the outputs to produce for a set of final partitions.
type SavePlan struct {
	// Techpacks is the dependency-ordered list of techpack paths
	Techpacks []string

	// Operations is the ordered list of outputs to produce
	Operations []Operation

	// Conflicts is a list of detected output name conflicts (empty if none)
	Conflicts []Conflict
}

// Operation represents a single output to produce.
type Operation struct {
	// Type is the operation type: "copy" or "merge"
	Type string

	// SourcePath is the base blob path
	SourcePath string

	// Overlays is the ordered list of techpack paths merged into the base
	Overlays []string

	// DestName is the output file name inside the output directory
	DestName string

	// Kind is the role of the output (tree or overlay), inherited from its base
	Kind blob.Kind

	// Identity is the partition identity the output is valid for
	Identity identity.Identity

	// Patch reports whether the identity properties must be written into
	// the output after it is produced
	Patch bool
}

// Conflict represents an output name collision detected during planning.
type Conflict struct {
	// Name is the output file name that collides
	Name string

	// Reason is a human-readable explanation of the conflict
	Reason string

	// Existing describes what already claims the name
	Existing string

	// Incoming describes the partition that wants the name
	Incoming string
}

// Operation type constants
const (
	OpCopy  = "copy"
	OpMerge = "merge"
)

// NewSavePlan creates a new empty SavePlan.
func NewSavePlan(techpacks []string) *SavePlan {
	return &SavePlan{
		Techpacks:  techpacks,
		Operations: []Operation{},
		Conflicts:  []Conflict{},
	}
}

// HasConflicts returns true if the plan has any conflicts.
func (p *SavePlan) HasConflicts() bool {
	return len(p.Conflicts) > 0
}

// AddOperation adds an operation to the plan.
func (p *SavePlan) AddOperation(op Operation) {
	p.Operations = append(p.Operations, op)
}

// AddConflict adds a conflict to the plan.
func (p *SavePlan) AddConflict(conflict Conflict) {
	p.Conflicts = append(p.Conflicts, conflict)
}

// OperationsOf returns the operations producing outputs of the given kind.
func (p *SavePlan) OperationsOf(kind blob.Kind) []Operation {
	var ops []Operation
	for _, op := range p.Operations {
		if op.Kind == kind {
			ops = append(ops, op)
		}
	}
	return ops
}
