package planner

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"

	"github.com/danieljhkim/dtmerge/internal/hash"
)

// OutputName derives the file name of a final partition.
//
// An untouched, unnarrowed partition keeps its base's file name. Any other
// partition is named after the base's name fragments, followed by the
// fragments each techpack adds that are not already present, followed by a
// hash of the partition identity, with the base's extension.
func OutputName(p *Partition, hasher hash.Hasher, hashLen int) (string, error) {
	if len(p.Techpacks) == 0 && !p.Narrowed() {
		return filepath.Base(p.Base.Path), nil
	}

	fragments := nameFragments(p.Base.Name())
	seen := make(map[string]bool, len(fragments))
	for _, f := range fragments {
		seen[f] = true
	}
	for _, tp := range p.Techpacks {
		for _, f := range nameFragments(tp.Name()) {
			if !seen[f] {
				seen[f] = true
				fragments = append(fragments, f)
			}
		}
	}

	sum, err := hasher.Sum([]byte(p.Identity.Key()))
	if err != nil {
		return "", fmt.Errorf("failed to hash identity of %s: %w", p.Base.Path, err)
	}
	if hashLen > 0 && hashLen < len(sum) {
		sum = sum[:hashLen]
	}

	return strings.Join(append(fragments, sum), "-") + p.Base.Ext(), nil
}

// nameFragments splits a blob name into normalized dash-separated words.
func nameFragments(name string) []string {
	var out []string
	for _, f := range strings.Split(slug.Make(name), "-") {
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}
