// Package blob loads device-tree blobs into immutable records.
//
// A Record carries everything the resolver needs from a blob: its identity
// (read once from the qcom,*-id properties) and, for techpacks, the symbols
// it exports and the fixups it needs resolved.
package blob

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/danieljhkim/dtmerge/internal/fdt"
	"github.com/danieljhkim/dtmerge/internal/identity"
)

// Kind distinguishes full trees from overlays.
type Kind int

const (
	// Tree is a complete device tree (.dtb).
	Tree Kind = iota
	// Overlay is a device-tree overlay (.dtbo).
	Overlay
)

func (k Kind) String() string {
	if k == Overlay {
		return "overlay"
	}
	return "tree"
}

// Record is a loaded base or techpack blob. It is never modified after Load.
type Record struct {
	Path     string
	Kind     Kind
	Identity identity.Identity

	// Exports are the names under the symbols node. Techpacks only.
	Exports []string
	// Imports are the names under the fixups node. Techpacks only.
	Imports []string
}

// Name returns the file name without directory and extension.
func (r *Record) Name() string {
	base := filepath.Base(r.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Ext returns the file extension including the dot.
func (r *Record) Ext() string {
	return filepath.Ext(r.Path)
}

// Schema locates identity and linkage metadata inside a blob.
type Schema struct {
	IdentityNode string
	PlatProp     string
	BoardProp    string
	PmicProp     string
	PlatArity    int
	BoardArity   int
	PmicArity    int
	CellType     fdt.PropType

	SymbolsNode string
	FixupsNode  string
}

// Prop returns the property name holding the given axis.
func (s Schema) Prop(ax identity.AxisID) string {
	switch ax {
	case identity.Plat:
		return s.PlatProp
	case identity.Board:
		return s.BoardProp
	default:
		return s.PmicProp
	}
}

// Arity returns the tuple arity of the given axis.
func (s Schema) Arity(ax identity.AxisID) int {
	switch ax {
	case identity.Plat:
		return s.PlatArity
	case identity.Board:
		return s.BoardArity
	default:
		return s.PmicArity
	}
}

// Loader reads records through an fdt.Tool.
type Loader struct {
	tool   fdt.Tool
	schema Schema
}

// NewLoader creates a new Loader.
func NewLoader(tool fdt.Tool, schema Schema) *Loader {
	return &Loader{tool: tool, schema: schema}
}

// LoadBase reads a base blob's identity.
func (l *Loader) LoadBase(ctx context.Context, path string, kind Kind) (*Record, error) {
	id, err := l.ReadIdentity(ctx, path)
	if err != nil {
		return nil, err
	}
	return &Record{Path: path, Kind: kind, Identity: id}, nil
}

// LoadTechpack reads a techpack's identity and symbol tables.
func (l *Loader) LoadTechpack(ctx context.Context, path string) (*Record, error) {
	id, err := l.ReadIdentity(ctx, path)
	if err != nil {
		return nil, err
	}

	exports, err := l.tool.ListProperties(ctx, path, l.schema.SymbolsNode)
	if err != nil {
		return nil, fmt.Errorf("failed to read symbols of %s: %w", path, err)
	}
	imports, err := l.tool.ListProperties(ctx, path, l.schema.FixupsNode)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixups of %s: %w", path, err)
	}

	return &Record{
		Path:     path,
		Kind:     Overlay,
		Identity: id,
		Exports:  exports,
		Imports:  imports,
	}, nil
}

// ReadIdentity reads the three identity properties. An absent property leaves
// its axis unconstrained.
func (l *Loader) ReadIdentity(ctx context.Context, path string) (identity.Identity, error) {
	var id identity.Identity
	for _, ax := range identity.AxisIDs {
		prop := l.schema.Prop(ax)
		values, found, err := l.tool.ReadProperty(ctx, path, l.schema.IdentityNode, prop, l.schema.CellType)
		if err != nil {
			return identity.Identity{}, fmt.Errorf("failed to read %s of %s: %w", prop, path, err)
		}
		if !found {
			continue
		}
		axis, err := identity.AxisFromValues(values, l.schema.Arity(ax))
		if err != nil {
			return identity.Identity{}, fmt.Errorf("invalid %s in %s: %w", prop, path, err)
		}
		id = id.With(ax, axis)
	}
	return id, nil
}
