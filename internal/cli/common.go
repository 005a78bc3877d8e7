package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/danieljhkim/dtmerge/internal/clock"
	"github.com/danieljhkim/dtmerge/internal/config"
	"github.com/danieljhkim/dtmerge/internal/engine"
	"github.com/danieljhkim/dtmerge/internal/fdt"
	"github.com/danieljhkim/dtmerge/internal/fsops"
	"github.com/danieljhkim/dtmerge/internal/hash"
)

// loadConfig resolves and loads the configuration, then applies the global
// flags on top of it.
func loadConfig() (*config.Config, error) {
	paths, err := config.DefaultPaths()
	if err != nil {
		return nil, fmt.Errorf("failed to get config paths: %w", err)
	}

	cfg, err := config.Load(paths.ResolveConfigFile(configPath))
	if err != nil {
		return nil, err
	}

	switch {
	case logLevel != "":
		cfg.Logging.Console.Level = logLevel
	case jsonOutput:
		// keep stdout parseable
		cfg.Logging.Console.Level = "none"
	}
	if err := cfg.Logging.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newEngine creates a new engine with real implementations of all
// dependencies. The returned function flushes the logger.
func newEngine() (*engine.Engine, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	log, err := cfg.Logging.Prepare()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to prepare logger: %w", err)
	}
	sync := func() { _ = log.Sync() }

	log.Debug("Loaded configuration",
		zap.String("fdtget", cfg.Tools.Get),
		zap.String("fdtoverlay", cfg.Tools.Overlay),
		zap.Int("pmicArity", cfg.Identity.PmicArity))

	tool := fdt.NewRealTool(cfg.Binaries(), log.Named("fdt"))
	eng := engine.New(tool, fsops.NewRealFS(), hash.NewHighwayHasher(), &clock.RealClock{}, cfg, log)
	return eng, sync, nil
}

// formatJSON formats a value as JSON.
func formatJSON(v interface{}) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// formatError formats an error for display.
func formatError(err error) string {
	return errorColor.Sprintf("Error: %v", err)
}

// outputJSON outputs a value as JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
