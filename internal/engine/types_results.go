package engine

import (
	"path/filepath"
	"time"

	"github.com/danieljhkim/dtmerge/internal/identity"
	"github.com/danieljhkim/dtmerge/internal/planner"
)

// OutputInfo describes one output file.
type OutputInfo struct {
	// Name is the output file name
	Name string `json:"name"`

	// Path is the output path (empty for plans)
	Path string `json:"path,omitempty"`

	// Base is the base blob the output derives from
	Base string `json:"base"`

	// Kind is "tree" or "overlay"
	Kind string `json:"kind"`

	// Operation is "copy" or "merge"
	Operation string `json:"operation"`

	// Identity is the output identity in display form
	Identity string `json:"identity"`

	// Techpacks is the ordered list of techpacks merged into the output
	Techpacks []string `json:"techpacks"`
}

// CheckFailure records an overlay output that failed to apply to a base output.
type CheckFailure struct {
	// Base is the base-type output name
	Base string `json:"base"`

	// Overlay is the overlay-type output name
	Overlay string `json:"overlay"`

	// Error is the checker's failure message
	Error string `json:"error"`
}

// PlanResult represents the resolved partitions of a run.
type PlanResult struct {
	// Plan is the generated save plan
	Plan *planner.SavePlan `json:"-"`

	// Bases is the list of discovered base blobs
	Bases []string `json:"bases"`

	// Techpacks is the dependency-ordered list of techpacks
	Techpacks []string `json:"techpacks"`

	// Outputs is the list of outputs the plan would produce
	Outputs []OutputInfo `json:"outputs"`

	// Unmatched is the list of techpacks no base partition received
	Unmatched []string `json:"unmatched"`
}

// MergeResult represents the result of a merge run.
type MergeResult struct {
	PlanResult

	// Applied reports whether outputs were produced (false for dry runs)
	Applied bool `json:"applied"`

	// Checked is the number of applicability checks run
	Checked int `json:"checked"`

	// CheckFailures is the list of failed applicability checks
	CheckFailures []CheckFailure `json:"checkFailures"`

	// Elapsed is the wall time of the run
	Elapsed time.Duration `json:"elapsed"`
}

// InspectResult describes a single blob.
type InspectResult struct {
	Path     string            `json:"path"`
	Kind     string            `json:"kind"`
	Identity map[string]string `json:"identity"`
	Exports  []string          `json:"exports"`
	Imports  []string          `json:"imports"`
}

func outputInfo(op planner.Operation) OutputInfo {
	techpacks := make([]string, len(op.Overlays))
	for i, p := range op.Overlays {
		techpacks[i] = filepath.Base(p)
	}
	return OutputInfo{
		Name:      op.DestName,
		Base:      op.SourcePath,
		Kind:      op.Kind.String(),
		Operation: op.Type,
		Identity:  op.Identity.String(),
		Techpacks: techpacks,
	}
}

func identityInfo(id identity.Identity) map[string]string {
	out := make(map[string]string, len(identity.AxisIDs))
	for _, ax := range identity.AxisIDs {
		out[ax.String()] = id.Axis(ax).String()
	}
	return out
}
