// Package config holds dtmerge configuration.
//
// Settings come from built-in defaults, optionally overlaid by a YAML file,
// then by environment variables:
//   - DTMERGE_TOOLS_DIR: directory prepended to every tool binary name
//   - DTMERGE_LOG_LEVEL: console log level (none, normal, debug)
//
// Command line flags are applied last by the CLI.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	yaml "gopkg.in/yaml.v3"

	"github.com/danieljhkim/dtmerge/internal/blob"
	"github.com/danieljhkim/dtmerge/internal/fdt"
)

// ErrInvalid indicates a configuration value failed validation.
var ErrInvalid = errors.New("invalid configuration")

type (
	// ToolsConfig names the external binaries.
	ToolsConfig struct {
		Get          string `yaml:"fdtget"`
		Put          string `yaml:"fdtput"`
		Overlay      string `yaml:"fdtoverlay"`
		OverlayMerge string `yaml:"fdtoverlaymerge"`
		ApplyOverlay string `yaml:"ufdt_apply_overlay"`
	}

	// IdentityConfig locates the identity properties inside blobs.
	IdentityConfig struct {
		Node       string `yaml:"node"`
		PlatProp   string `yaml:"plat_prop"`
		BoardProp  string `yaml:"board_prop"`
		PmicProp   string `yaml:"pmic_prop"`
		PlatArity  int    `yaml:"plat_arity"`
		BoardArity int    `yaml:"board_arity"`
		PmicArity  int    `yaml:"pmic_arity"`
		CellType   string `yaml:"cell_type"`
	}

	// SymbolsConfig locates the overlay linkage tables.
	SymbolsConfig struct {
		SymbolsNode string `yaml:"symbols_node"`
		FixupsNode  string `yaml:"fixups_node"`
	}

	// InputsConfig selects which files are discovered.
	InputsConfig struct {
		BaseExts     []string `yaml:"base_extensions"`
		TechpackExts []string `yaml:"techpack_extensions"`
		OverlayExts  []string `yaml:"overlay_extensions"`
	}

	// OutputConfig controls output naming and checking.
	OutputConfig struct {
		HashLength  int    `yaml:"hash_length"`
		Discard     string `yaml:"discard"`
		StrictCheck bool   `yaml:"strict_check"`
	}

	// Config is the complete dtmerge configuration.
	Config struct {
		Tools    ToolsConfig    `yaml:"tools"`
		Identity IdentityConfig `yaml:"identity"`
		Symbols  SymbolsConfig  `yaml:"symbols"`
		Inputs   InputsConfig   `yaml:"inputs"`
		Output   OutputConfig   `yaml:"output"`
		Logging  LoggingConfig  `yaml:"logging"`
	}
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Tools: ToolsConfig{
			Get:          "fdtget",
			Put:          "fdtput",
			Overlay:      "fdtoverlay",
			OverlayMerge: "fdtoverlaymerge",
			ApplyOverlay: "ufdt_apply_overlay",
		},
		Identity: IdentityConfig{
			Node:       "/",
			PlatProp:   "qcom,msm-id",
			BoardProp:  "qcom,board-id",
			PmicProp:   "qcom,pmic-id",
			PlatArity:  2,
			BoardArity: 2,
			PmicArity:  4,
			CellType:   string(fdt.TypeUnsigned),
		},
		Symbols: SymbolsConfig{
			SymbolsNode: "/__symbols__",
			FixupsNode:  "/__fixups__",
		},
		Inputs: InputsConfig{
			BaseExts:     []string{".dtb", ".dtbo"},
			TechpackExts: []string{".dtbo"},
			OverlayExts:  []string{".dtbo"},
		},
		Output: OutputConfig{
			HashLength: 8,
			Discard:    os.DevNull,
		},
		Logging: LoggingConfig{
			Console: LoggerConfig{Level: "normal"},
			File:    LoggerConfig{Level: "none", Mode: "overwrite"},
		},
	}
}

// Load returns the default configuration overlaid by the YAML file at path (if
// not empty) and by the environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read configuration: %w", err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil {
			return nil, fmt.Errorf("failed to parse configuration %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if dir := os.Getenv("DTMERGE_TOOLS_DIR"); dir != "" {
		for _, bin := range []*string{&c.Tools.Get, &c.Tools.Put, &c.Tools.Overlay, &c.Tools.OverlayMerge, &c.Tools.ApplyOverlay} {
			if !filepath.IsAbs(*bin) {
				*bin = filepath.Join(dir, *bin)
			}
		}
	}
	if level := os.Getenv("DTMERGE_LOG_LEVEL"); level != "" {
		c.Logging.Console.Level = level
	}
}

// Validate checks the configuration for values the resolver cannot work with.
func (c *Config) Validate() error {
	for name, arity := range map[string]int{
		"plat_arity":  c.Identity.PlatArity,
		"board_arity": c.Identity.BoardArity,
		"pmic_arity":  c.Identity.PmicArity,
	} {
		if arity < 1 {
			return fmt.Errorf("%w: identity.%s must be at least 1, got %d", ErrInvalid, name, arity)
		}
	}

	switch fdt.PropType(c.Identity.CellType) {
	case fdt.TypeUnsigned, fdt.TypeInt, fdt.TypeHex:
	default:
		return fmt.Errorf("%w: identity.cell_type must be one of u, i, x, got %q", ErrInvalid, c.Identity.CellType)
	}

	for name, exts := range map[string][]string{
		"base_extensions":     c.Inputs.BaseExts,
		"techpack_extensions": c.Inputs.TechpackExts,
	} {
		if len(exts) == 0 {
			return fmt.Errorf("%w: inputs.%s must not be empty", ErrInvalid, name)
		}
		for _, ext := range exts {
			if !strings.HasPrefix(ext, ".") {
				return fmt.Errorf("%w: inputs.%s entry %q must start with a dot", ErrInvalid, name, ext)
			}
		}
	}

	if c.Output.HashLength < 4 || c.Output.HashLength > 16 {
		return fmt.Errorf("%w: output.hash_length must be between 4 and 16, got %d", ErrInvalid, c.Output.HashLength)
	}

	return c.Logging.Validate()
}

// Binaries returns the tool binaries for fdt.NewRealTool.
func (c *Config) Binaries() fdt.Binaries {
	return fdt.Binaries{
		Get:          c.Tools.Get,
		Put:          c.Tools.Put,
		Overlay:      c.Tools.Overlay,
		OverlayMerge: c.Tools.OverlayMerge,
		ApplyOverlay: c.Tools.ApplyOverlay,
	}
}

// Schema returns the blob layout for blob.NewLoader.
func (c *Config) Schema() blob.Schema {
	return blob.Schema{
		IdentityNode: c.Identity.Node,
		PlatProp:     c.Identity.PlatProp,
		BoardProp:    c.Identity.BoardProp,
		PmicProp:     c.Identity.PmicProp,
		PlatArity:    c.Identity.PlatArity,
		BoardArity:   c.Identity.BoardArity,
		PmicArity:    c.Identity.PmicArity,
		CellType:     fdt.PropType(c.Identity.CellType),
		SymbolsNode:  c.Symbols.SymbolsNode,
		FixupsNode:   c.Symbols.FixupsNode,
	}
}

// KindOf classifies a file by extension.
func (c *Config) KindOf(path string) blob.Kind {
	if slices.Contains(c.Inputs.OverlayExts, filepath.Ext(path)) {
		return blob.Overlay
	}
	return blob.Tree
}

// Dump renders the configuration as YAML.
func Dump(c *Config) ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal configuration: %w", err)
	}
	return data, nil
}
