package planner

import (
	"fmt"

	"github.com/danieljhkim/dtmerge/internal/blob"
	"github.com/danieljhkim/dtmerge/internal/fsops"
	"github.com/danieljhkim/dtmerge/internal/hash"
)

// BuildSavePlan generates a deterministic plan producing one output per final
// partition of every set, in set order then partition order.
//
// A partition without techpacks becomes a verbatim copy of its base. Any other
// partition becomes a merge of its base with its techpacks in application
// order, followed by an identity patch.
func BuildSavePlan(
	sets []*PartitionSet,
	orderedTechpacks []*blob.Record,
	outDir string,
	fs fsops.FS,
	hasher hash.Hasher,
	hashLen int,
) (*SavePlan, error) {
	paths := make([]string, len(orderedTechpacks))
	for i, tp := range orderedTechpacks {
		paths[i] = tp.Path
	}

	plan := NewSavePlan(paths)
	checker := NewConflictChecker(fs, outDir)

	for _, set := range sets {
		for _, p := range set.Partitions() {
			name, err := OutputName(p, hasher, hashLen)
			if err != nil {
				return nil, err
			}

			incoming := fmt.Sprintf("%s %s", p.Base.Path, p.Identity)
			if conflict := checker.CheckName(name, incoming); conflict != nil {
				plan.AddConflict(*conflict)
				continue
			}

			op := Operation{
				Type:       OpCopy,
				SourcePath: p.Base.Path,
				DestName:   name,
				Kind:       p.Base.Kind,
				Identity:   p.Identity,
			}
			if len(p.Techpacks) > 0 {
				op.Type = OpMerge
				op.Overlays = p.TechpackPaths()
				op.Patch = true
			}
			plan.AddOperation(op)
		}
	}

	return plan, nil
}
