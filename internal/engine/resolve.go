package engine

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/danieljhkim/dtmerge/internal/blob"
	"github.com/danieljhkim/dtmerge/internal/planner"
)

// resolution is the outcome of partitioning every base.
type resolution struct {
	bases     []*blob.Record
	techpacks []*blob.Record
	sets      []*planner.PartitionSet
	unmatched []*blob.Record
}

// Algorithm steps:
// 1. Discover bases and techpacks under their roots
// 2. Load a record per blob
// 3. Order techpacks by their symbol dependencies
// 4. Create one partition set per base
// 5. Offer every techpack, in order, to every base
func (e *Engine) resolve(ctx context.Context, baseDir, techpackDir string) (*resolution, error) {
	basePaths, err := e.fs.FindFiles(baseDir, e.cfg.Inputs.BaseExts)
	if err != nil {
		return nil, fmt.Errorf("failed to discover bases: %w", err)
	}
	if len(basePaths) == 0 {
		return nil, fmt.Errorf("%w under %s", ErrNoBases, baseDir)
	}
	techpackPaths, err := e.fs.FindFiles(techpackDir, e.cfg.Inputs.TechpackExts)
	if err != nil {
		return nil, fmt.Errorf("failed to discover techpacks: %w", err)
	}
	e.log.Debug("Discovered inputs", zap.Int("bases", len(basePaths)), zap.Int("techpacks", len(techpackPaths)))

	res := &resolution{}
	for _, path := range basePaths {
		rec, err := e.loader.LoadBase(ctx, path, e.cfg.KindOf(path))
		if err != nil {
			return nil, fmt.Errorf("failed to load base: %w", err)
		}
		e.log.Debug("Loaded base", zap.String("path", path), zap.Stringer("identity", rec.Identity))
		res.bases = append(res.bases, rec)
	}

	loaded := make([]*blob.Record, 0, len(techpackPaths))
	for _, path := range techpackPaths {
		rec, err := e.loader.LoadTechpack(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("failed to load techpack: %w", err)
		}
		e.log.Debug("Loaded techpack",
			zap.String("path", path),
			zap.Stringer("identity", rec.Identity),
			zap.Strings("exports", rec.Exports),
			zap.Strings("imports", rec.Imports))
		loaded = append(loaded, rec)
	}

	res.techpacks, err = planner.OrderTechpacks(loaded)
	if err != nil {
		return nil, fmt.Errorf("failed to order techpacks: %w", err)
	}

	for _, b := range res.bases {
		res.sets = append(res.sets, planner.NewPartitionSet(b))
	}

	for _, tp := range res.techpacks {
		matched := false
		for _, set := range res.sets {
			if set.TryAdd(tp) {
				matched = true
			}
		}
		if !matched {
			e.log.Warn("Techpack matches no base", zap.String("techpack", tp.Path), zap.Stringer("identity", tp.Identity))
			res.unmatched = append(res.unmatched, tp)
		}
	}

	return res, nil
}

func paths(records []*blob.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Path
	}
	return out
}
