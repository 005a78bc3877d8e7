package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths contains the filesystem locations dtmerge looks at on its own.
type Paths struct {
	// Root is the per-user dtmerge directory (default: ~/.dtmerge)
	Root string

	// Config is the path to the user config file
	Config string
}

// DefaultPaths returns the default paths for dtmerge.
// The root can be overridden with DTMERGE_ROOT.
func DefaultPaths() (*Paths, error) {
	root := os.Getenv("DTMERGE_ROOT")
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		root = filepath.Join(home, ".dtmerge")
	}

	return &Paths{
		Root:   root,
		Config: filepath.Join(root, "config.yaml"),
	}, nil
}

// ResolveConfigFile picks the config file to load. An explicit path always
// wins; otherwise the user config is used when it exists. An empty result
// means built-in defaults only.
func (p *Paths) ResolveConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if _, err := os.Stat(p.Config); err == nil {
		return p.Config
	}
	return ""
}
