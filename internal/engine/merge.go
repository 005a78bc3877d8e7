package engine

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const stagingPattern = ".dtmerge-staging-*"

// Algorithm steps:
// 1. Resolve partitions and build the save plan (fail on name conflicts)
// 2. Return the plan if DryRun
// 3. Produce every output into a staging directory inside OutDir
// 4. Check overlay outputs against the base outputs they target
// 5. Move staged outputs into OutDir
// 6. Remove the staging directory, whatever happened
//
// Nothing is written to OutDir unless every output was produced.
func (e *Engine) Merge(ctx context.Context, req *MergeRequest) (result *MergeResult, err error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	start := e.clock.Now()

	planResult, err := e.plan(ctx, req.BaseDir, req.TechpackDir, req.OutDir)
	if planResult == nil {
		return nil, err
	}
	result = &MergeResult{
		PlanResult:    *planResult,
		CheckFailures: []CheckFailure{},
	}
	defer func() {
		result.Elapsed = e.clock.Since(start)
	}()
	if err != nil {
		return result, err
	}

	if req.DryRun {
		return result, nil
	}

	if err := e.fs.MkdirAll(req.OutDir, 0755); err != nil {
		return result, fmt.Errorf("failed to create output directory: %w", err)
	}
	staging, err := e.fs.MkdirTemp(req.OutDir, stagingPattern)
	if err != nil {
		return result, fmt.Errorf("failed to create staging directory: %w", err)
	}
	defer func() {
		if rmErr := e.fs.RemoveAll(staging); rmErr != nil {
			err = multierr.Append(err, fmt.Errorf("failed to remove staging directory: %w", rmErr))
		}
	}()

	plan := planResult.Plan
	for _, op := range plan.Operations {
		if err := e.executeOperation(ctx, op, staging); err != nil {
			return result, fmt.Errorf("failed to produce %s: %w", op.DestName, err)
		}
		e.log.Debug("Produced output", zap.String("name", op.DestName), zap.String("operation", op.Type))
	}

	failures, checked, err := e.checkOutputs(ctx, plan, staging)
	result.CheckFailures = failures
	result.Checked = checked
	if err != nil {
		return result, err
	}
	if len(failures) > 0 && (req.StrictCheck || e.cfg.Output.StrictCheck) {
		var errs error
		for _, f := range failures {
			errs = multierr.Append(errs, fmt.Errorf("%s on %s: %s", f.Overlay, f.Base, f.Error))
		}
		return result, fmt.Errorf("%w: %w", ErrCheckFailed, errs)
	}

	if err := e.promote(plan.Operations, staging, req.OutDir); err != nil {
		return result, err
	}

	for i := range result.Outputs {
		result.Outputs[i].Path = filepath.Join(req.OutDir, result.Outputs[i].Name)
	}
	result.Applied = true

	e.log.Info("Merge complete",
		zap.Int("outputs", len(result.Outputs)),
		zap.Int("unmatched", len(result.Unmatched)),
		zap.Int("checked", result.Checked),
		zap.Int("checkFailures", len(result.CheckFailures)))

	return result, nil
}
