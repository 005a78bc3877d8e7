package engine

import (
	"context"
	"fmt"
)

// Inspect loads a single blob and reports its identity and symbol tables.
func (e *Engine) Inspect(ctx context.Context, path string) (*InspectResult, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: blob path is required", ErrValidation)
	}
	exists, err := e.fs.Exists(path)
	if err != nil {
		return nil, fmt.Errorf("failed to check %s: %w", path, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s does not exist", ErrValidation, path)
	}

	rec, err := e.loader.LoadTechpack(ctx, path)
	if err != nil {
		return nil, err
	}

	return &InspectResult{
		Path:     rec.Path,
		Kind:     e.cfg.KindOf(path).String(),
		Identity: identityInfo(rec.Identity),
		Exports:  rec.Exports,
		Imports:  rec.Imports,
	}, nil
}
