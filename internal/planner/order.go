package planner

import (
	"errors"
	"fmt"

	"github.com/dominikbraun/graph"

	"github.com/danieljhkim/dtmerge/internal/blob"
)

// ErrDependencyCycle indicates techpacks import each other's symbols in a cycle.
var ErrDependencyCycle = errors.New("techpack dependency cycle")

// OrderTechpacks sorts techpacks so that a techpack exporting a symbol comes
// before every techpack importing it. Techpacks without a dependency between
// them keep their input order. Imports nobody exports are ignored.
func OrderTechpacks(techpacks []*blob.Record) ([]*blob.Record, error) {
	g := graph.New(graph.IntHash, graph.Directed(), graph.PreventCycles())
	for i := range techpacks {
		if err := g.AddVertex(i); err != nil {
			return nil, fmt.Errorf("failed to add techpack %s: %w", techpacks[i].Path, err)
		}
	}

	producers := make(map[string][]int)
	for i, tp := range techpacks {
		for _, sym := range tp.Exports {
			producers[sym] = append(producers[sym], i)
		}
	}

	var edges [][2]int
	for consumer, tp := range techpacks {
		for _, sym := range tp.Imports {
			for _, producer := range producers[sym] {
				if producer == consumer {
					continue
				}
				err := g.AddEdge(producer, consumer)
				switch {
				case err == nil:
					edges = append(edges, [2]int{producer, consumer})
				case errors.Is(err, graph.ErrEdgeAlreadyExists):
				case errors.Is(err, graph.ErrEdgeCreatesCycle):
					return nil, fmt.Errorf("%w: %s imports %q from %s", ErrDependencyCycle,
						techpacks[consumer].Path, sym, techpacks[producer].Path)
				default:
					return nil, fmt.Errorf("failed to link %s to %s: %w",
						techpacks[producer].Path, techpacks[consumer].Path, err)
				}
			}
		}
	}

	order, err := graph.StableTopologicalSort(g, func(a, b int) bool { return a < b })
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDependencyCycle, err)
	}
	if len(order) != len(techpacks) {
		return nil, fmt.Errorf("%w: ordered %d of %d techpacks", ErrDependencyCycle, len(order), len(techpacks))
	}

	position := make([]int, len(techpacks))
	for pos, i := range order {
		position[i] = pos
	}
	for _, e := range edges {
		if position[e[0]] > position[e[1]] {
			return nil, fmt.Errorf("%w: %s ordered after %s", ErrDependencyCycle,
				techpacks[e[0]].Path, techpacks[e[1]].Path)
		}
	}

	sorted := make([]*blob.Record, len(order))
	for pos, i := range order {
		sorted[pos] = techpacks[i]
	}
	return sorted, nil
}
