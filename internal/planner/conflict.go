package planner

import (
	"fmt"
	"path/filepath"

	"github.com/danieljhkim/dtmerge/internal/fsops"
)

// ConflictChecker checks output names for collisions, both within one plan
// and against files already present in the output directory.
type ConflictChecker struct {
	fs      fsops.FS
	outDir  string
	claimed map[string]string
}

// NewConflictChecker creates a new ConflictChecker for outDir. An empty outDir
// only detects collisions within the plan.
func NewConflictChecker(fs fsops.FS, outDir string) *ConflictChecker {
	return &ConflictChecker{
		fs:      fs,
		outDir:  outDir,
		claimed: make(map[string]string),
	}
}

// CheckName checks whether name can be claimed by the partition described by
// incoming. Returns a Conflict if one is detected, or nil after claiming the
// name.
func (c *ConflictChecker) CheckName(name, incoming string) *Conflict {
	if err := c.fs.ValidateName(name); err != nil {
		return &Conflict{
			Name:     name,
			Reason:   fmt.Sprintf("Invalid output name: %v", err),
			Existing: "none",
			Incoming: incoming,
		}
	}

	if owner, ok := c.claimed[name]; ok {
		return &Conflict{
			Name:     name,
			Reason:   "Two partitions resolve to the same output name",
			Existing: owner,
			Incoming: incoming,
		}
	}

	if c.outDir != "" {
		if conflict := c.checkExisting(name, incoming); conflict != nil {
			return conflict
		}
	}

	c.claimed[name] = incoming
	return nil
}

func (c *ConflictChecker) checkExisting(name, incoming string) *Conflict {
	path := filepath.Join(c.outDir, name)
	exists, err := c.fs.Exists(path)
	if err != nil {
		return &Conflict{
			Name:     name,
			Reason:   fmt.Sprintf("Failed to check output path: %v", err),
			Existing: "unknown",
			Incoming: incoming,
		}
	}
	if exists {
		return &Conflict{
			Name:     name,
			Reason:   "Output file already exists",
			Existing: path,
			Incoming: incoming,
		}
	}
	return nil
}

// IsClaimed returns true if name was claimed by an earlier partition.
func (c *ConflictChecker) IsClaimed(name string) bool {
	_, ok := c.claimed[name]
	return ok
}
