// Package fdt wraps the external flattened-device-tree tools.
//
// dtmerge never parses blobs itself. Property reads and writes, overlay
// merges and applicability probes are delegated to dtc's fdtget, fdtput,
// fdtoverlay and fdtoverlaymerge and to ufdt_apply_overlay, all behind the
// Tool interface so the resolver can be tested with FakeTool.
package fdt

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// ErrToolFailed indicates an external tool exited unsuccessfully.
var ErrToolFailed = errors.New("fdt tool failed")

// PropType is the fdtget/fdtput -t type letter used for cell values.
type PropType string

const (
	// TypeUnsigned reads and writes cells as unsigned decimal.
	TypeUnsigned PropType = "u"
	// TypeInt reads and writes cells as signed decimal.
	TypeInt PropType = "i"
	// TypeHex reads and writes cells as hexadecimal.
	TypeHex PropType = "x"
)

// Tool provides an abstraction for blob manipulation.
type Tool interface {
	// ReadProperty reads a cell-list property. found is false when the node or
	// property does not exist.
	ReadProperty(ctx context.Context, blob, node, prop string, typ PropType) (values []uint32, found bool, err error)

	// ListProperties returns the property names of a node in blob order. A
	// missing node yields an empty list.
	ListProperties(ctx context.Context, blob, node string) ([]string, error)

	// MergeOverlay applies overlays, in order, to base and writes out.
	MergeOverlay(ctx context.Context, base string, overlays []string, out string) error

	// WriteProperty patches a cell-list property of an existing blob in place.
	WriteProperty(ctx context.Context, blob, node, prop string, typ PropType, values []uint32) error

	// CheckOverlay dry-runs applying overlay to base, writing to discard.
	CheckOverlay(ctx context.Context, base, overlay, discard string) error
}

// Binaries names the executables RealTool invokes.
type Binaries struct {
	Get          string
	Put          string
	Overlay      string
	OverlayMerge string
	ApplyOverlay string
}

// RealTool implements Tool by running the dtc tool binaries.
type RealTool struct {
	bins Binaries
	log  *zap.Logger
}

// NewRealTool creates a new RealTool.
func NewRealTool(bins Binaries, log *zap.Logger) *RealTool {
	return &RealTool{bins: bins, log: log}
}

// run executes one tool invocation and returns its stdout.
func (t *RealTool) run(ctx context.Context, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	t.log.Debug("Running tool", zap.String("tool", name), zap.Strings("args", args))
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return "", "", fmt.Errorf("failed to run %s: %w", name, err)
		}
		return stdout.String(), stderr.String(), fmt.Errorf("%w: %s %s: %v: %s",
			ErrToolFailed, name, strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), stderr.String(), nil
}

// notFound reports whether fdtget failed only because the path does not exist.
func notFound(stderr string) bool {
	return strings.Contains(stderr, "FDT_ERR_NOTFOUND")
}

// ReadProperty runs `fdtget -t <typ> blob node prop`.
func (t *RealTool) ReadProperty(ctx context.Context, blob, node, prop string, typ PropType) ([]uint32, bool, error) {
	out, stderr, err := t.run(ctx, t.bins.Get, "-t", string(typ), blob, node, prop)
	if err != nil {
		if notFound(stderr) {
			return nil, false, nil
		}
		return nil, false, err
	}

	values, err := ParseCells(out, typ)
	if err != nil {
		return nil, false, fmt.Errorf("failed to parse %s %s:%s: %w", blob, node, prop, err)
	}
	return values, true, nil
}

// ListProperties runs `fdtget -p blob node`.
func (t *RealTool) ListProperties(ctx context.Context, blob, node string) ([]string, error) {
	out, stderr, err := t.run(ctx, t.bins.Get, "-p", blob, node)
	if err != nil {
		if notFound(stderr) {
			return []string{}, nil
		}
		return nil, err
	}
	return strings.Fields(out), nil
}

// MergeOverlay uses fdtoverlay for a single overlay and fdtoverlaymerge for
// several.
func (t *RealTool) MergeOverlay(ctx context.Context, base string, overlays []string, out string) error {
	if len(overlays) == 0 {
		return fmt.Errorf("merge of %s requires at least one overlay", base)
	}

	bin := t.bins.Overlay
	if len(overlays) > 1 {
		bin = t.bins.OverlayMerge
	}
	args := append([]string{"-i", base, "-o", out}, overlays...)
	_, _, err := t.run(ctx, bin, args...)
	return err
}

// WriteProperty runs `fdtput -t <typ> blob node prop values...`.
func (t *RealTool) WriteProperty(ctx context.Context, blob, node, prop string, typ PropType, values []uint32) error {
	args := []string{"-t", string(typ), blob, node, prop}
	args = append(args, FormatCells(values, typ)...)
	_, _, err := t.run(ctx, t.bins.Put, args...)
	return err
}

// CheckOverlay runs `ufdt_apply_overlay base overlay discard`.
func (t *RealTool) CheckOverlay(ctx context.Context, base, overlay, discard string) error {
	_, _, err := t.run(ctx, t.bins.ApplyOverlay, base, overlay, discard)
	return err
}

// ParseCells parses fdtget output for a cell-list property.
func ParseCells(out string, typ PropType) ([]uint32, error) {
	base := 10
	if typ == TypeHex {
		base = 16
	}

	fields := strings.Fields(out)
	values := make([]uint32, 0, len(fields))
	for _, f := range fields {
		if typ == TypeInt {
			v, err := strconv.ParseInt(f, 10, 32)
			if err != nil {
				return nil, fmt.Errorf("invalid cell %q: %w", f, err)
			}
			values = append(values, uint32(v))
			continue
		}
		v, err := strconv.ParseUint(strings.TrimPrefix(f, "0x"), base, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid cell %q: %w", f, err)
		}
		values = append(values, uint32(v))
	}
	return values, nil
}

// FormatCells renders values as fdtput arguments.
func FormatCells(values []uint32, typ PropType) []string {
	out := make([]string, len(values))
	for i, v := range values {
		switch typ {
		case TypeHex:
			out[i] = strconv.FormatUint(uint64(v), 16)
		case TypeInt:
			out[i] = strconv.FormatInt(int64(int32(v)), 10)
		default:
			out[i] = strconv.FormatUint(uint64(v), 10)
		}
	}
	return out
}
