package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	databricksconfig "github.com/databricks/databricks-sdk-go/config"
	"github.com/jonboulle/clockwork"

	"github.com/slighter12/databricks-mcp-go/config"
	"github.com/slighter12/databricks-mcp-go/logger"
	"github.com/slighter12/databricks-mcp-go/metrics"
	"github.com/slighter12/databricks-mcp-go/promptcatalog"
	"github.com/slighter12/databricks-mcp-go/transport/http"
	"github.com/slighter12/databricks-mcp-go/transport/shared"
	"github.com/slighter12/databricks-mcp-go/transport/stdio"
	"github.com/slighter12/databricks-mcp-go/warehouse"
)

// loadConfig resolves the effective configuration from dotenv files, the
// config file, the environment and command-line flags, in that order.
func loadConfig(opts *rootOptions) (*config.Config, error) {
	if err := config.LoadDotEnv(opts.envFiles...); err != nil {
		return nil, err
	}

	path := opts.configPath
	if path == "" {
		resolved, err := config.ResolveConfigPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve config path: %w", err)
		}
		path = resolved
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if opts.transport != "" {
		cfg.Server.Transport = opts.transport
	}
	if opts.verbose {
		cfg.Server.Debug = true
	}
	if cfg.Server.Debug {
		cfg.Logging.Level = "debug"
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func run(ctx context.Context, opts *rootOptions) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	// stdout carries the protocol in stdio mode.
	var console io.Writer = os.Stdout
	if cfg.Server.Transport == config.TransportStdio {
		console = os.Stderr
	}
	if err := logger.Init(logger.GetLevelFromString(cfg.Logging.Level), logger.Format(cfg.Logging.Format), console, cfg.Logging.Path); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.L()

	metrics.BuildInfo.WithLabelValues(version, commit, date).Set(1)
	log.Info("starting databricks mcp server",
		"version", version,
		"commit", commit,
		"transport", cfg.Server.Transport,
		"warehouse_id", cfg.Warehouse.ID,
	)

	registry := promptcatalog.NewRegistry(cfg.PromptCatalog.Enabled, promptcatalog.BuiltinPrompts()...)
	if err := registry.LoadFromPathsWithAllowedRoots(cfg.PromptCatalog.Paths, cfg.PromptCatalog.AllowedRoots); err != nil {
		log.Warn("prompt catalog loaded with warnings", "error", err)
	}

	clock := clockwork.NewRealClock()
	wh, err := warehouse.NewClient(warehouse.ClientConfig{
		Logger: log,
		Clock:  clock,
		Open:   newOpener(cfg),
	})
	if err != nil {
		return err
	}

	rt, err := shared.NewRuntime(shared.Options{
		Config:    cfg,
		Logger:    log,
		Warehouse: wh,
		Clock:     clock,
		Prompts:   registry,
	})
	if err != nil {
		return fmt.Errorf("failed to build mcp server: %w", err)
	}

	if cfg.PromptCatalog.Enabled && cfg.PromptCatalog.Watch && len(cfg.PromptCatalog.Paths) > 0 {
		watcher, err := promptcatalog.NewWatcher(promptcatalog.WatcherConfig{
			Logger:   log,
			Paths:    cfg.PromptCatalog.Paths,
			Debounce: time.Duration(cfg.PromptCatalog.WatchDebounceMillis) * time.Millisecond,
			OnChange: func() { rt.Prompts.Reload(shared.TriggerWatcher) },
		})
		if err != nil {
			return err
		}
		go func() {
			if err := watcher.Run(ctx); err != nil {
				log.Error("prompt catalog watcher stopped", "error", err)
			}
		}()
	}

	switch cfg.Server.Transport {
	case config.TransportStdio:
		return stdio.NewStdioServer(rt, log).Start(ctx)
	default:
		return http.NewServer(cfg, rt, log).Run(ctx)
	}
}

func newOpener(cfg *config.Config) warehouse.Opener {
	if cfg.Warehouse.LocalDSN != "" {
		logger.Warn("using local duckdb warehouse", "dsn", cfg.Warehouse.LocalDSN)
		return warehouse.NewDuckDBOpener(cfg.Warehouse.LocalDSN)
	}
	return warehouse.NewDatabricksOpener(warehouse.DatabricksConfig{
		Host:        cfg.Warehouse.Host,
		WarehouseID: cfg.Warehouse.ID,
	}, &databricksconfig.Config{})
}
