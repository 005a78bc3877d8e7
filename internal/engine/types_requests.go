package engine

import (
	"fmt"
	"path/filepath"
)

// MergeRequest represents a request to merge techpacks into bases.
type MergeRequest struct {
	// BaseDir is the root searched recursively for base blobs
	BaseDir string

	// TechpackDir is the root searched recursively for techpacks
	TechpackDir string

	// OutDir is the flat output directory (created if missing)
	OutDir string

	// StrictCheck makes applicability check failures fatal (also enabled by
	// the output.strict_check setting)
	StrictCheck bool

	// DryRun performs planning only without producing outputs
	DryRun bool
}

// PlanRequest represents a request to resolve partitions without producing
// outputs.
type PlanRequest struct {
	// BaseDir is the root searched recursively for base blobs
	BaseDir string

	// TechpackDir is the root searched recursively for techpacks
	TechpackDir string

	// OutDir is the output directory names are checked against (optional)
	OutDir string
}

func validateDirs(baseDir, techpackDir string) error {
	if baseDir == "" {
		return fmt.Errorf("%w: base directory is required", ErrValidation)
	}
	if techpackDir == "" {
		return fmt.Errorf("%w: techpack directory is required", ErrValidation)
	}
	if filepath.Clean(baseDir) == filepath.Clean(techpackDir) {
		return fmt.Errorf("%w: base and techpack directories must differ", ErrValidation)
	}
	return nil
}

// Validate checks the request for missing or inconsistent fields.
func (r *MergeRequest) Validate() error {
	if err := validateDirs(r.BaseDir, r.TechpackDir); err != nil {
		return err
	}
	if r.OutDir == "" {
		return fmt.Errorf("%w: output directory is required", ErrValidation)
	}
	return nil
}

// Validate checks the request for missing or inconsistent fields.
func (r *PlanRequest) Validate() error {
	return validateDirs(r.BaseDir, r.TechpackDir)
}
