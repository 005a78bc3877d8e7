package fdt

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Call records one FakeTool invocation.
type Call struct {
	Op   string
	Args []string
}

// FakeTool implements Tool in memory for testing. Blobs are keyed by path;
// merges also write a small text file at the output path so the caller's
// filesystem operations behave as with the real tools.
type FakeTool struct {
	props  map[string]map[string]map[string][]uint32
	calls  []Call
	errs   map[string]error
	checks map[string]error
}

// NewFakeTool creates a new FakeTool.
func NewFakeTool() *FakeTool {
	return &FakeTool{
		props:  make(map[string]map[string]map[string][]uint32),
		errs:   make(map[string]error),
		checks: make(map[string]error),
	}
}

// SetProperty stores a property value for blob.
func (f *FakeTool) SetProperty(blob, node, prop string, values ...uint32) {
	nodes, ok := f.props[blob]
	if !ok {
		nodes = make(map[string]map[string][]uint32)
		f.props[blob] = nodes
	}
	if nodes[node] == nil {
		nodes[node] = make(map[string][]uint32)
	}
	nodes[node][prop] = append([]uint32(nil), values...)
}

// SetNames stores valueless properties, e.g. __symbols__ entries.
func (f *FakeTool) SetNames(blob, node string, names ...string) {
	for _, n := range names {
		f.SetProperty(blob, node, n)
	}
}

// Property returns a stored property value.
func (f *FakeTool) Property(blob, node, prop string) ([]uint32, bool) {
	v, ok := f.props[blob][node][prop]
	return v, ok
}

// SetError makes every call of op ("read", "list", "merge", "write", "check")
// fail with err.
func (f *FakeTool) SetError(op string, err error) {
	f.errs[op] = err
}

// SetCheckError makes CheckOverlay fail for the pair of output file names.
func (f *FakeTool) SetCheckError(baseName, overlayName string, err error) {
	f.checks[baseName+"|"+overlayName] = err
}

// Calls returns the recorded invocations in order.
func (f *FakeTool) Calls() []Call {
	return append([]Call(nil), f.calls...)
}

// CallsOf returns the recorded invocations of one op.
func (f *FakeTool) CallsOf(op string) []Call {
	var out []Call
	for _, c := range f.calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

func (f *FakeTool) record(op string, args ...string) error {
	f.calls = append(f.calls, Call{Op: op, Args: args})
	return f.errs[op]
}

// ReadProperty returns the stored value.
func (f *FakeTool) ReadProperty(_ context.Context, blob, node, prop string, _ PropType) ([]uint32, bool, error) {
	if err := f.record("read", blob, node, prop); err != nil {
		return nil, false, err
	}
	v, ok := f.Property(blob, node, prop)
	return v, ok, nil
}

// ListProperties returns the stored property names in sorted order.
func (f *FakeTool) ListProperties(_ context.Context, blob, node string) ([]string, error) {
	if err := f.record("list", blob, node); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(f.props[blob][node]))
	for n := range f.props[blob][node] {
		names = append(names, n)
	}
	slices.Sort(names)
	return names, nil
}

// MergeOverlay copies base properties to out and writes a marker file.
func (f *FakeTool) MergeOverlay(_ context.Context, base string, overlays []string, out string) error {
	if err := f.record("merge", append([]string{base, out}, overlays...)...); err != nil {
		return err
	}
	for node, props := range f.props[base] {
		for prop, v := range props {
			f.SetProperty(out, node, prop, v...)
		}
	}

	content := fmt.Sprintf("base=%s\noverlays=%s\n", filepath.Base(base), strings.Join(baseNames(overlays), ","))
	return os.WriteFile(out, []byte(content), 0644)
}

// WriteProperty stores the value.
func (f *FakeTool) WriteProperty(_ context.Context, blob, node, prop string, _ PropType, values []uint32) error {
	if err := f.record("write", blob, node, prop); err != nil {
		return err
	}
	f.SetProperty(blob, node, prop, values...)
	return nil
}

// CheckOverlay fails for pairs registered with SetCheckError.
func (f *FakeTool) CheckOverlay(_ context.Context, base, overlay, discard string) error {
	if err := f.record("check", base, overlay, discard); err != nil {
		return err
	}
	return f.checks[filepath.Base(base)+"|"+filepath.Base(overlay)]
}

func baseNames(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = filepath.Base(p)
	}
	return out
}
