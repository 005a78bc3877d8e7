package engine

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/danieljhkim/dtmerge/internal/blob"
	"github.com/danieljhkim/dtmerge/internal/fdt"
	"github.com/danieljhkim/dtmerge/internal/planner"
)

// checkOutputs dry-runs every overlay-type output onto every tree-type output
// it is more specific than. A checker that ran and rejected the pair is a
// CheckFailure; a checker that could not run at all is returned as an error.
func (e *Engine) checkOutputs(ctx context.Context, plan *planner.SavePlan, dir string) ([]CheckFailure, int, error) {
	failures := []CheckFailure{}
	checked := 0

	overlays := plan.OperationsOf(blob.Overlay)
	for _, tree := range plan.OperationsOf(blob.Tree) {
		for _, ovl := range overlays {
			if !ovl.Identity.MoreSpecificThan(tree.Identity) {
				continue
			}
			checked++

			err := e.tool.CheckOverlay(ctx,
				filepath.Join(dir, tree.DestName),
				filepath.Join(dir, ovl.DestName),
				e.cfg.Output.Discard)
			if err == nil {
				continue
			}
			if !errors.Is(err, fdt.ErrToolFailed) {
				return failures, checked, fmt.Errorf("failed to check %s on %s: %w", ovl.DestName, tree.DestName, err)
			}

			e.log.Warn("Overlay does not apply",
				zap.String("base", tree.DestName),
				zap.String("overlay", ovl.DestName),
				zap.Error(err))
			failures = append(failures, CheckFailure{
				Base:    tree.DestName,
				Overlay: ovl.DestName,
				Error:   err.Error(),
			})
		}
	}

	return failures, checked, nil
}
