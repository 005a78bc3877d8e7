package integration

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/danieljhkim/dtmerge/internal/engine"
	"github.com/danieljhkim/dtmerge/internal/fdt"
)

func TestMerge_SplitsBaseByBoard(t *testing.T) {
	e := setupEnv(t)
	e.base("x.dtb", "/|qcom,board-id|10 0 20 0")
	e.techpack("display/display.dtbo", "/|qcom,board-id|10 0 20 0")
	e.techpack("camera/camera.dtbo", "/|qcom,board-id|20 0")

	result, err := e.eng.Merge(context.Background(), e.request())
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}
	if !result.Applied {
		t.Error("expected outputs to be applied")
	}

	names := e.outputs()
	if len(names) != 2 {
		t.Fatalf("expected 2 outputs, got %v", names)
	}

	merged := map[string][]string{}
	for _, name := range names {
		if !strings.HasPrefix(name, "x-") || filepath.Ext(name) != ".dtb" {
			t.Errorf("unexpected output name %s", name)
		}
		merged[e.prop(name, "/", "qcom,board-id")] = e.merged(name)
	}
	want := map[string][]string{
		"20 0": {"camera.dtbo", "display.dtbo"},
		"10 0": {"display.dtbo"},
	}
	if !reflect.DeepEqual(merged, want) {
		t.Errorf("merged overlays by board = %v, want %v", merged, want)
	}
}

func TestMerge_UnmatchedTechpackKeepsBase(t *testing.T) {
	e := setupEnv(t)
	base := e.base("x.dtb", "/|qcom,msm-id|1 2")
	tp := e.techpack("other.dtbo", "/|qcom,msm-id|5 6")

	result, err := e.eng.Merge(context.Background(), e.request())
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}
	if !reflect.DeepEqual(result.Unmatched, []string{tp}) {
		t.Errorf("expected %s to be unmatched, got %v", tp, result.Unmatched)
	}
	if got := e.outputs(); !reflect.DeepEqual(got, []string{"x.dtb"}) {
		t.Fatalf("expected the base name to be kept, got %v", got)
	}

	want, _ := os.ReadFile(base)
	got, _ := os.ReadFile(filepath.Join(e.outDir, "x.dtb"))
	if string(got) != string(want) {
		t.Errorf("base must be copied verbatim, got %q", got)
	}
}

func TestMerge_OpenAxisTechpackUnmatched(t *testing.T) {
	e := setupEnv(t)
	e.base("x.dtb", "/|qcom,msm-id|1 2", "/|qcom,board-id|10 0 20 0")
	tp := e.techpack("display.dtbo", "/|qcom,msm-id|1 2")

	result, err := e.eng.Merge(context.Background(), e.request())
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}
	if !reflect.DeepEqual(result.Unmatched, []string{tp}) {
		t.Errorf("expected %s to be unmatched, got %v", tp, result.Unmatched)
	}
	if got := e.outputs(); !reflect.DeepEqual(got, []string{"x.dtb"}) {
		t.Errorf("expected only the untouched base, got %v", got)
	}
}

func TestMerge_DependencyOrder(t *testing.T) {
	e := setupEnv(t)
	e.base("soc.dtb", "/|qcom,msm-id|1 2")
	e.techpack("a-panel.dtbo", "/|qcom,msm-id|1 2", "/__fixups__|backlight|/fragment@0:target:0")
	e.techpack("z-backlight.dtbo", "/|qcom,msm-id|1 2", "/__symbols__|backlight|/fragment@0/__overlay__/bl")

	result, err := e.eng.Merge(context.Background(), e.request())
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}
	if len(result.Outputs) != 1 {
		t.Fatalf("expected 1 output, got %+v", result.Outputs)
	}

	want := []string{"z-backlight.dtbo", "a-panel.dtbo"}
	if got := e.merged(result.Outputs[0].Name); !reflect.DeepEqual(got, want) {
		t.Errorf("merge order = %v, want %v", got, want)
	}
}

func TestMerge_CheckPass(t *testing.T) {
	e := setupEnv(t)
	e.base("soc.dtb", "/|qcom,msm-id|1 2", "/__symbols__|cam_vdd|/regulators/cam")
	e.base("soc-cam.dtbo", "/|qcom,msm-id|1 2", "/__fixups__|cam_vdd|/fragment@0:target:0")

	result, err := e.eng.Merge(context.Background(), e.request())
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}
	if result.Checked != 1 || len(result.CheckFailures) != 0 {
		t.Errorf("expected 1 passing check, got %d checked and %+v", result.Checked, result.CheckFailures)
	}
}

func TestMerge_CheckFailure(t *testing.T) {
	e := setupEnv(t)
	e.base("soc.dtb", "/|qcom,msm-id|1 2")
	e.base("soc-cam.dtbo", "/|qcom,msm-id|1 2", "/__fixups__|cam_vdd|/fragment@0:target:0")

	result, err := e.eng.Merge(context.Background(), e.request())
	if err != nil {
		t.Fatalf("check failures must not fail the run: %v", err)
	}
	if len(result.CheckFailures) != 1 {
		t.Fatalf("expected 1 check failure, got %+v", result.CheckFailures)
	}
	if !strings.Contains(result.CheckFailures[0].Error, "cam_vdd") {
		t.Errorf("expected the checker message, got %q", result.CheckFailures[0].Error)
	}
	if got := e.outputs(); !reflect.DeepEqual(got, []string{"soc-cam.dtbo", "soc.dtb"}) {
		t.Errorf("outputs must still be written, got %v", got)
	}
}

func TestMerge_StrictCheckWritesNothing(t *testing.T) {
	e := setupEnv(t)
	e.base("soc.dtb", "/|qcom,msm-id|1 2")
	e.base("soc-cam.dtbo", "/|qcom,msm-id|1 2", "/__fixups__|cam_vdd|/fragment@0:target:0")

	req := e.request()
	req.StrictCheck = true
	_, err := e.eng.Merge(context.Background(), req)
	if !errors.Is(err, engine.ErrCheckFailed) {
		t.Fatalf("expected ErrCheckFailed, got %v", err)
	}
	if got := e.outputs(); len(got) != 0 {
		t.Errorf("expected an empty output directory, got %v", got)
	}
}

func TestMerge_ToolFailureWritesNothing(t *testing.T) {
	e := setupEnv(t)
	e.base("a.dtb", "/|qcom,msm-id|1 2")
	e.base("b.dtb", "/|qcom,msm-id|1 2")
	e.techpack("bad.dtbo", "/|qcom,msm-id|1 2", "/|broken|1")

	_, err := e.eng.Merge(context.Background(), e.request())
	if !errors.Is(err, fdt.ErrToolFailed) {
		t.Fatalf("expected ErrToolFailed, got %v", err)
	}
	if got := e.outputs(); len(got) != 0 {
		t.Errorf("expected an empty output directory, got %v", got)
	}
}

func TestMerge_MissingToolIsFatal(t *testing.T) {
	e := setupEnv(t)
	e.base("soc.dtb", "/|qcom,msm-id|1 2")
	e.base("soc-cam.dtbo", "/|qcom,msm-id|1 2")
	if err := os.Remove(e.cfg.Tools.ApplyOverlay); err != nil {
		t.Fatal(err)
	}

	_, err := e.eng.Merge(context.Background(), e.request())
	if err == nil {
		t.Fatal("expected an error when the checker cannot run")
	}
	if errors.Is(err, engine.ErrCheckFailed) || errors.Is(err, fdt.ErrToolFailed) {
		t.Errorf("expected a plain error, got %v", err)
	}
}
