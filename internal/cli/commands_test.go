package cli

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danieljhkim/dtmerge/internal/config"
	"github.com/danieljhkim/dtmerge/internal/engine"
)

// runCLI executes the root command with a clean flag state and an isolated
// dtmerge root.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("DTMERGE_ROOT", t.TempDir())
	t.Setenv("DTMERGE_LOG_LEVEL", "")
	t.Setenv("DTMERGE_TOOLS_DIR", "")

	jsonOutput, configPath, logLevel = false, "", ""
	mergeBaseDir, mergeTechpackDir, mergeOutDir = "", "", ""
	mergeStrictCheck, mergeDryRun = false, false
	planBaseDir, planTechpackDir, planOutDir = "", "", ""

	rootCmd.SetArgs(args)
	var err error
	stdout, stderr := captureOutput(t, func() {
		err = rootCmd.Execute()
	})
	return stdout, stderr, err
}

// inputDirs creates empty base and techpack directories.
func inputDirs(t *testing.T) (string, string) {
	t.Helper()
	root := t.TempDir()
	baseDir := filepath.Join(root, "base")
	tpDir := filepath.Join(root, "techpacks")
	for _, dir := range []string{baseDir, tpDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("failed to create %s: %v", dir, err)
		}
	}
	return baseDir, tpDir
}

func TestConfigCommand(t *testing.T) {
	out, _, err := runCLI(t, "config")
	if err != nil {
		t.Fatalf("config failed: %v", err)
	}
	for _, want := range []string{"fdtget: fdtget", "pmic_arity: 4", "hash_length: 8"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected config output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestConfigCommand_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dtmerge.yaml")
	if err := os.WriteFile(path, []byte("output:\n  hash_length: 12\n"), 0644); err != nil {
		t.Fatal(err)
	}

	out, _, err := runCLI(t, "config", "--config", path, "--json")
	if err != nil {
		t.Fatalf("config failed: %v", err)
	}
	var cfg config.Config
	if err := json.Unmarshal([]byte(out), &cfg); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out)
	}
	if cfg.Output.HashLength != 12 {
		t.Errorf("expected hash length 12, got %d", cfg.Output.HashLength)
	}
	if cfg.Logging.Console.Level != "none" {
		t.Errorf("--json must silence console logging, got %q", cfg.Logging.Console.Level)
	}
}

func TestConfigCommand_InvalidLogLevel(t *testing.T) {
	_, _, err := runCLI(t, "config", "--log-level", "loud")
	if !errors.Is(err, config.ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}

func TestPlanCommand_SameDirectories(t *testing.T) {
	baseDir, _ := inputDirs(t)

	_, _, err := runCLI(t, "plan", "--base", baseDir, "--techpacks", baseDir, "--log-level", "none")
	if !errors.Is(err, engine.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestPlanCommand_NoBases(t *testing.T) {
	baseDir, tpDir := inputDirs(t)

	_, _, err := runCLI(t, "plan", "-b", baseDir, "-t", tpDir, "--log-level", "none")
	if !errors.Is(err, engine.ErrNoBases) {
		t.Errorf("expected ErrNoBases, got %v", err)
	}
}

func TestMergeCommand_NoBasesWritesNothing(t *testing.T) {
	baseDir, tpDir := inputDirs(t)
	outDir := filepath.Join(t.TempDir(), "out")

	_, _, err := runCLI(t, "merge", "-b", baseDir, "-t", tpDir, "-o", outDir, "--log-level", "none")
	if !errors.Is(err, engine.ErrNoBases) {
		t.Errorf("expected ErrNoBases, got %v", err)
	}
	if _, err := os.Stat(outDir); !os.IsNotExist(err) {
		t.Errorf("output directory must not be created, stat error = %v", err)
	}
}

func TestInspectCommand_Missing(t *testing.T) {
	_, _, err := runCLI(t, "inspect", filepath.Join(t.TempDir(), "absent.dtbo"), "--log-level", "none")
	if !errors.Is(err, engine.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestInspectCommand_RequiresArgument(t *testing.T) {
	_, _, err := runCLI(t, "inspect")
	if err == nil {
		t.Error("expected error without a blob argument")
	}
}
