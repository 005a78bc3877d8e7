// Package engine orchestrates dtmerge runs.
//
// The engine package sits between CLI commands and the lower-level packages.
// It discovers input blobs, loads their records through the fdt tool, lets
// the planner resolve partitions, and produces the outputs.
//
// Key components:
//   - Engine: Main orchestrator that coordinates all operations
//   - Merge: resolve, save every partition, check overlay applicability
//   - Plan: resolve and name outputs without producing them
//   - Inspect: report the record of a single blob
package engine

import (
	"go.uber.org/zap"

	"github.com/danieljhkim/dtmerge/internal/blob"
	"github.com/danieljhkim/dtmerge/internal/clock"
	"github.com/danieljhkim/dtmerge/internal/config"
	"github.com/danieljhkim/dtmerge/internal/fdt"
	"github.com/danieljhkim/dtmerge/internal/fsops"
	"github.com/danieljhkim/dtmerge/internal/hash"
)

// Engine orchestrates all dtmerge operations.
// It is the main API surface called by the CLI.
type Engine struct {
	tool   fdt.Tool
	fs     fsops.FS
	hasher hash.Hasher
	clock  clock.Clock
	cfg    *config.Config
	loader *blob.Loader
	log    *zap.Logger
}

// New creates a new Engine with the given dependencies.
func New(
	tool fdt.Tool,
	fs fsops.FS,
	hasher hash.Hasher,
	clk clock.Clock,
	cfg *config.Config,
	log *zap.Logger,
) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		tool:   tool,
		fs:     fs,
		hasher: hasher,
		clock:  clk,
		cfg:    cfg,
		loader: blob.NewLoader(tool, cfg.Schema()),
		log:    log.Named("engine"),
	}
}
