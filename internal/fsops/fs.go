// Package fsops provides the filesystem operations dtmerge performs on blob
// files and the output directory.
//
// All filesystem mutations in dtmerge go through the FS interface:
//   - Input discovery with deterministic (natural) ordering
//   - Staging directories and rename-based promotion of outputs
//   - Output name validation
package fsops

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/maruel/natural"
)

// FS provides an abstraction for filesystem operations.
type FS interface {
	// Exists checks if a path exists.
	Exists(path string) (bool, error)

	// MkdirAll creates a directory and all parent directories.
	MkdirAll(path string, perm os.FileMode) error

	// MkdirTemp creates a new uniquely named directory inside dir.
	MkdirTemp(dir, pattern string) (string, error)

	// RemoveAll removes a path and all its contents.
	RemoveAll(path string) error

	// Rename moves oldpath to newpath, replacing nothing: it fails if
	// newpath exists.
	Rename(oldpath, newpath string) error

	// Copy copies a regular file from src to dst.
	Copy(src, dst string) error

	// FindFiles lists regular files under root whose extension is in exts,
	// in natural order of their path relative to root.
	FindFiles(root string, exts []string) ([]string, error)

	// ValidateName checks that name is a single file name inside the output
	// directory.
	ValidateName(name string) error
}

// RealFS implements FS using actual OS operations.
type RealFS struct{}

// NewRealFS creates a new RealFS.
func NewRealFS() *RealFS {
	return &RealFS{}
}

// Exists checks if a path exists.
func (fs *RealFS) Exists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// MkdirAll creates a directory and all parent directories.
func (fs *RealFS) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// MkdirTemp creates a new uniquely named directory inside dir.
func (fs *RealFS) MkdirTemp(dir, pattern string) (string, error) {
	return os.MkdirTemp(dir, pattern)
}

// RemoveAll removes a path and all its contents.
func (fs *RealFS) RemoveAll(path string) error {
	return os.RemoveAll(path)
}

// Rename moves oldpath to newpath. An existing newpath is an error.
func (fs *RealFS) Rename(oldpath, newpath string) error {
	exists, err := fs.Exists(newpath)
	if err != nil {
		return fmt.Errorf("failed to stat destination: %w", err)
	}
	if exists {
		return fmt.Errorf("destination %s already exists: %w", newpath, os.ErrExist)
	}
	return os.Rename(oldpath, newpath)
}

// Copy copies a regular file from src to dst, following symlinks.
func (fs *RealFS) Copy(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("failed to stat source: %w", err)
	}
	if !srcInfo.Mode().IsRegular() {
		return fmt.Errorf("failed to copy %s: not a regular file", src)
	}

	srcFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source: %w", err)
	}
	defer func() {
		_ = srcFile.Close()
	}()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("failed to create parent directory: %w", err)
	}

	dstFile, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, srcInfo.Mode().Perm())
	if err != nil {
		return fmt.Errorf("failed to create destination: %w", err)
	}
	defer func() {
		_ = dstFile.Close()
	}()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return fmt.Errorf("failed to copy file contents: %w", err)
	}

	return dstFile.Sync()
}

// FindFiles walks root and returns matching regular files. Extensions are
// compared case-sensitively, the way the device-tree tools name their output.
func (fs *RealFS) FindFiles(root string, exts []string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	var rel []string
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if !slices.Contains(exts, filepath.Ext(path)) {
			return nil
		}
		r, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = append(rel, r)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}

	slices.SortFunc(rel, func(a, b string) int {
		switch {
		case a == b:
			return 0
		case natural.Less(a, b):
			return -1
		default:
			return 1
		}
	})

	paths := make([]string, len(rel))
	for i, r := range rel {
		paths[i] = filepath.Join(root, r)
	}
	return paths, nil
}

// ValidateName rejects output names that would escape the flat output
// directory.
func (fs *RealFS) ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("invalid output name: empty")
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, string(filepath.Separator)) {
		return fmt.Errorf("invalid output name %q: must not contain path separators", name)
	}
	if name == "." || strings.HasPrefix(name, "..") {
		return fmt.Errorf("invalid output name %q: path traversal not allowed", name)
	}
	return nil
}
