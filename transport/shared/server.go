package shared

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/slighter12/databricks-mcp-go/config"
	"github.com/slighter12/databricks-mcp-go/promptcatalog"
	"github.com/slighter12/databricks-mcp-go/resources"
	"github.com/slighter12/databricks-mcp-go/tools"
	"github.com/slighter12/databricks-mcp-go/warehouse"
)

// Options carries what both transports need to build the MCP server.
type Options struct {
	Config    *config.Config
	Logger    *slog.Logger
	Warehouse warehouse.Executor
	// Clock times requests for logging.
	Clock clockwork.Clock
	// Prompts is optional; a nil registry serves no prompts.
	Prompts *promptcatalog.Registry
}

func (o *Options) Validate() error {
	if o.Config == nil {
		return errors.New("config is required")
	}
	if o.Logger == nil {
		return errors.New("logger is required")
	}
	if o.Warehouse == nil {
		return errors.New("warehouse is required")
	}
	if o.Clock == nil {
		return errors.New("clock is required")
	}
	return nil
}

// Runtime is a fully assembled MCP server. The same runtime backs either
// transport.
type Runtime struct {
	Server  *mcp.Server
	Tools   *tools.Manager
	Prompts *PromptBinding
}

func NewRuntime(opts Options) (*Runtime, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate runtime options: %w", err)
	}
	cfg := opts.Config
	registry := opts.Prompts
	if registry == nil {
		registry = promptcatalog.NewRegistry(false)
	}

	manager := tools.NewManager()
	server := mcp.NewServer(&mcp.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, nil)
	server.AddReceivingMiddleware(requestMiddleware(opts.Logger, opts.Clock, manager))

	prompts := NewPromptBinding(PromptBindingConfig{
		Server:       server,
		Registry:     registry,
		Logger:       opts.Logger,
		Paths:        cfg.PromptCatalog.Paths,
		AllowedRoots: cfg.PromptCatalog.AllowedRoots,
	})
	prompts.Sync()

	manager.RegisterDefaultTools(tools.Dependencies{
		Logger:              opts.Logger,
		Warehouse:           opts.Warehouse,
		MetadataTablesAlias: cfg.Tools.MetadataTablesAlias,
		ReloadPromptCatalog: func() map[string]any {
			return prompts.Reload(TriggerTool)
		},
	})
	if err := manager.Install(server); err != nil {
		return nil, err
	}

	(&resources.GreetingResource{}).Register(server)

	opts.Logger.Info("mcp: server assembled",
		"name", cfg.Name,
		"version", cfg.Version,
		"tools", len(manager.ListTools()),
		"prompts", registry.PromptCount(),
	)
	return &Runtime{Server: server, Tools: manager, Prompts: prompts}, nil
}
