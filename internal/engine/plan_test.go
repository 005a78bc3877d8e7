package engine

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestPlan(t *testing.T) {
	f := newFixture(t)
	f.addBase("x.dtb", ids{board: []uint32{10, 0, 20, 0}})
	display := f.addTechpack("display.dtbo", ids{board: []uint32{10, 0, 20, 0}}, nil, nil)
	camera := f.addTechpack("camera.dtbo", ids{board: []uint32{20, 0}}, nil, nil)

	result, err := f.eng.Plan(context.Background(), &PlanRequest{BaseDir: f.baseDir, TechpackDir: f.tpDir})
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	if !reflect.DeepEqual(result.Techpacks, []string{camera, display}) {
		t.Errorf("independent techpacks keep discovery order, got %v", result.Techpacks)
	}

	got := map[string][]string{}
	for _, out := range result.Outputs {
		got[out.Identity] = out.Techpacks
		if out.Path != "" {
			t.Errorf("plans have no output paths, got %s", out.Path)
		}
	}
	want := map[string][]string{
		"plat:* board:{(20, 0)} pmic:*": {"camera.dtbo", "display.dtbo"},
		"plat:* board:{(10, 0)} pmic:*": {"display.dtbo"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("outputs = %v, want %v", got, want)
	}

	if len(f.tool.CallsOf("merge")) != 0 {
		t.Error("Plan must not merge")
	}
}

func TestPlan_Validation(t *testing.T) {
	f := newFixture(t)

	_, err := f.eng.Plan(context.Background(), &PlanRequest{BaseDir: f.baseDir})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestPlan_MissingBaseDir(t *testing.T) {
	f := newFixture(t)

	_, err := f.eng.Plan(context.Background(), &PlanRequest{BaseDir: f.baseDir + "-absent", TechpackDir: f.tpDir})
	if err == nil {
		t.Fatal("expected error for missing base directory")
	}
}
