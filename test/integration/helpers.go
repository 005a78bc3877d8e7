// Package integration runs the merge pipeline against shell stand-ins for the
// dtc tools.
//
// A stand-in blob is a text file with one "node|property|value" line per
// property. fdtoverlay records every overlay it applies as a property of the
// /__merged__ node so tests can observe the merge order.
package integration

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/danieljhkim/dtmerge/internal/clock"
	"github.com/danieljhkim/dtmerge/internal/config"
	"github.com/danieljhkim/dtmerge/internal/engine"
	"github.com/danieljhkim/dtmerge/internal/fdt"
	"github.com/danieljhkim/dtmerge/internal/fsops"
	"github.com/danieljhkim/dtmerge/internal/hash"
)

const fdtgetScript = `#!/bin/sh
if [ "$1" = "-p" ]; then
	out=$(awk -F'|' -v n="$3" '$1==n {print $2}' "$2")
	if [ -z "$out" ]; then
		echo "Error at '$3': FDT_ERR_NOTFOUND" >&2
		exit 1
	fi
	echo "$out"
	exit 0
fi
awk -F'|' -v n="$4" -v p="$5" '$1==n && $2==p {print $3; f=1} END {exit !f}' "$3" && exit 0
echo "Error at '$4': FDT_ERR_NOTFOUND" >&2
exit 1
`

const fdtputScript = `#!/bin/sh
blob=$3; node=$4; prop=$5
shift 5
awk -F'|' -v n="$node" -v p="$prop" '!($1==n && $2==p)' "$blob" > "$blob.tmp" && mv "$blob.tmp" "$blob"
echo "$node|$prop|$*" >> "$blob"
`

const fdtoverlayScript = `#!/bin/sh
base=$2; out=$4
shift 4
cp "$base" "$out" || exit 1
for ovl in "$@"; do
	if grep -q '^/|broken|' "$ovl"; then
		echo "FDT_ERR_BADOVERLAY: $ovl" >&2
		exit 1
	fi
	echo "/__merged__|$(basename "$ovl")|1" >> "$out"
done
`

const applyOverlayScript = `#!/bin/sh
for sym in $(awk -F'|' '$1=="/__fixups__" {print $2}' "$2"); do
	awk -F'|' -v s="$sym" '$1=="/__symbols__" && $2==s {f=1} END {exit !f}' "$1" && continue
	echo "unresolved symbol $sym" >&2
	exit 1
done
`

// env is a merge environment backed by the stand-in tools.
type env struct {
	t       *testing.T
	baseDir string
	tpDir   string
	outDir  string
	cfg     *config.Config
	eng     *engine.Engine
}

func setupEnv(t *testing.T) *env {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stand-in tools are shell scripts")
	}
	for _, bin := range []string{"sh", "awk", "grep", "cp"} {
		if _, err := exec.LookPath(bin); err != nil {
			t.Skipf("%s not available: %v", bin, err)
		}
	}

	root := t.TempDir()
	toolsDir := filepath.Join(root, "tools")
	scripts := map[string]string{
		"fdtget":             fdtgetScript,
		"fdtput":             fdtputScript,
		"fdtoverlay":         fdtoverlayScript,
		"fdtoverlaymerge":    fdtoverlayScript,
		"ufdt_apply_overlay": applyOverlayScript,
	}
	for name, body := range scripts {
		writeFile(t, filepath.Join(toolsDir, name), body, 0755)
	}

	t.Setenv("DTMERGE_TOOLS_DIR", toolsDir)
	t.Setenv("DTMERGE_LOG_LEVEL", "")
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	e := &env{
		t:       t,
		baseDir: filepath.Join(root, "base"),
		tpDir:   filepath.Join(root, "techpacks"),
		outDir:  filepath.Join(root, "out"),
		cfg:     cfg,
	}
	for _, dir := range []string{e.baseDir, e.tpDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("failed to create %s: %v", dir, err)
		}
	}

	tool := fdt.NewRealTool(cfg.Binaries(), zap.NewNop())
	e.eng = engine.New(tool, fsops.NewRealFS(), hash.NewHighwayHasher(), &clock.RealClock{}, cfg, zap.NewNop())
	return e
}

func writeFile(t *testing.T, path, content string, perm os.FileMode) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), perm); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// blob renders stand-in blob lines; each entry is "node|property|value".
func blob(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}

func (e *env) base(rel string, lines ...string) string {
	path := filepath.Join(e.baseDir, rel)
	writeFile(e.t, path, blob(lines...), 0644)
	return path
}

func (e *env) techpack(rel string, lines ...string) string {
	path := filepath.Join(e.tpDir, rel)
	writeFile(e.t, path, blob(lines...), 0644)
	return path
}

func (e *env) request() *engine.MergeRequest {
	return &engine.MergeRequest{BaseDir: e.baseDir, TechpackDir: e.tpDir, OutDir: e.outDir}
}

// outputs returns the output file names.
func (e *env) outputs() []string {
	e.t.Helper()
	entries, err := os.ReadDir(e.outDir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		e.t.Fatalf("failed to read output directory: %v", err)
	}
	var names []string
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names
}

// read returns the stand-in property lines of an output.
func (e *env) read(name string) []string {
	e.t.Helper()
	data, err := os.ReadFile(filepath.Join(e.outDir, name))
	if err != nil {
		e.t.Fatalf("failed to read output %s: %v", name, err)
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

// prop returns the value of node|prop in an output, or "" if absent.
func (e *env) prop(name, node, prop string) string {
	e.t.Helper()
	prefix := node + "|" + prop + "|"
	for _, line := range e.read(name) {
		if strings.HasPrefix(line, prefix) {
			return strings.TrimPrefix(line, prefix)
		}
	}
	return ""
}

// merged returns the overlays recorded in an output, in merge order.
func (e *env) merged(name string) []string {
	e.t.Helper()
	var out []string
	for _, line := range e.read(name) {
		parts := strings.SplitN(line, "|", 3)
		if len(parts) == 3 && parts[0] == "/__merged__" {
			out = append(out, parts[1])
		}
	}
	return out
}
