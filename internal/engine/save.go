package engine

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/danieljhkim/dtmerge/internal/identity"
	"github.com/danieljhkim/dtmerge/internal/planner"
)

// executeOperation produces a single output inside dir.
func (e *Engine) executeOperation(ctx context.Context, op planner.Operation, dir string) error {
	out := filepath.Join(dir, op.DestName)

	switch op.Type {
	case planner.OpCopy:
		if err := e.fs.Copy(op.SourcePath, out); err != nil {
			return fmt.Errorf("failed to copy: %w", err)
		}
	case planner.OpMerge:
		if err := e.tool.MergeOverlay(ctx, op.SourcePath, op.Overlays, out); err != nil {
			return fmt.Errorf("failed to merge: %w", err)
		}
	default:
		return fmt.Errorf("unknown operation type: %s", op.Type)
	}

	if op.Patch {
		return e.patchIdentity(ctx, out, op.Identity)
	}
	return nil
}

// patchIdentity writes the constrained axes of id into blob. Unconstrained
// axes are left as the merge produced them.
func (e *Engine) patchIdentity(ctx context.Context, blob string, id identity.Identity) error {
	schema := e.cfg.Schema()
	for _, ax := range identity.AxisIDs {
		axis := id.Axis(ax)
		if !axis.Constrained() {
			continue
		}
		prop := schema.Prop(ax)
		if err := e.tool.WriteProperty(ctx, blob, schema.IdentityNode, prop, schema.CellType, axis.Values()); err != nil {
			return fmt.Errorf("failed to write %s: %w", prop, err)
		}
	}
	return nil
}

// promote moves staged outputs into outDir. If any move fails, outputs
// already moved are removed again.
func (e *Engine) promote(ops []planner.Operation, staging, outDir string) error {
	moved := make([]string, 0, len(ops))
	for _, op := range ops {
		dst := filepath.Join(outDir, op.DestName)
		if err := e.fs.Rename(filepath.Join(staging, op.DestName), dst); err != nil {
			err = fmt.Errorf("failed to publish %s: %w", op.DestName, err)
			for _, path := range moved {
				err = multierr.Append(err, e.fs.RemoveAll(path))
			}
			return err
		}
		moved = append(moved, dst)
		e.log.Info("Wrote output", zap.String("path", dst), zap.String("operation", op.Type))
	}
	return nil
}
