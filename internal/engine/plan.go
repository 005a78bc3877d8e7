package engine

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/danieljhkim/dtmerge/internal/planner"
)

// Plan resolves partitions and names their outputs without producing them.
// On a name collision the result is returned together with ErrNameCollision.
func (e *Engine) Plan(ctx context.Context, req *PlanRequest) (*PlanResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return e.plan(ctx, req.BaseDir, req.TechpackDir, req.OutDir)
}

func (e *Engine) plan(ctx context.Context, baseDir, techpackDir, outDir string) (*PlanResult, error) {
	res, err := e.resolve(ctx, baseDir, techpackDir)
	if err != nil {
		return nil, err
	}

	plan, err := planner.BuildSavePlan(res.sets, res.techpacks, outDir, e.fs, e.hasher, e.cfg.Output.HashLength)
	if err != nil {
		return nil, fmt.Errorf("failed to build save plan: %w", err)
	}

	result := &PlanResult{
		Plan:      plan,
		Bases:     paths(res.bases),
		Techpacks: paths(res.techpacks),
		Outputs:   make([]OutputInfo, 0, len(plan.Operations)),
		Unmatched: paths(res.unmatched),
	}
	for _, op := range plan.Operations {
		result.Outputs = append(result.Outputs, outputInfo(op))
	}

	if plan.HasConflicts() {
		for _, c := range plan.Conflicts {
			e.log.Error("Output name conflict",
				zap.String("name", c.Name),
				zap.String("reason", c.Reason),
				zap.String("existing", c.Existing),
				zap.String("incoming", c.Incoming))
		}
		return result, fmt.Errorf("%w: %d conflicts detected", ErrNameCollision, len(plan.Conflicts))
	}

	return result, nil
}
