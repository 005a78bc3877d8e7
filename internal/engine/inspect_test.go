package engine

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
)

func TestInspect(t *testing.T) {
	f := newFixture(t)
	path := f.addTechpack("display.dtbo", ids{plat: []uint32{1, 2}, pmic: []uint32{1, 0, 0, 0}}, []string{"panel"}, []string{"dsi0"})

	result, err := f.eng.Inspect(context.Background(), path)
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}

	if result.Kind != "overlay" {
		t.Errorf("expected overlay, got %s", result.Kind)
	}
	wantID := map[string]string{"plat": "{(1, 2)}", "board": "*", "pmic": "{(1, 0, 0, 0)}"}
	if !reflect.DeepEqual(result.Identity, wantID) {
		t.Errorf("identity = %v, want %v", result.Identity, wantID)
	}
	if !reflect.DeepEqual(result.Exports, []string{"panel"}) || !reflect.DeepEqual(result.Imports, []string{"dsi0"}) {
		t.Errorf("unexpected symbols: exports %v imports %v", result.Exports, result.Imports)
	}
}

func TestInspect_Tree(t *testing.T) {
	f := newFixture(t)
	path := f.addBase("soc.dtb", ids{})

	result, err := f.eng.Inspect(context.Background(), path)
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}
	if result.Kind != "tree" {
		t.Errorf("expected tree, got %s", result.Kind)
	}
	if len(result.Exports) != 0 || len(result.Imports) != 0 {
		t.Errorf("expected no symbols, got %v %v", result.Exports, result.Imports)
	}
}

func TestInspect_Missing(t *testing.T) {
	f := newFixture(t)

	for _, path := range []string{"", filepath.Join(f.baseDir, "absent.dtb")} {
		if _, err := f.eng.Inspect(context.Background(), path); !errors.Is(err, ErrValidation) {
			t.Errorf("Inspect(%q): expected ErrValidation, got %v", path, err)
		}
	}
}
