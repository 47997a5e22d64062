package shared

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/slighter12/databricks-mcp-go/metrics"
	"github.com/slighter12/databricks-mcp-go/promptcatalog"
)

// Reload triggers, used as the metrics label.
const (
	TriggerTool    = "tool"
	TriggerWatcher = "watcher"
)

type PromptBindingConfig struct {
	Server       *mcp.Server
	Registry     *promptcatalog.Registry
	Logger       *slog.Logger
	Paths        []string
	AllowedRoots []string
}

// PromptBinding mirrors a prompt registry onto an MCP server. Adding or
// removing prompts makes the server notify connected clients that the
// prompt list changed.
type PromptBinding struct {
	cfg PromptBindingConfig

	mu        sync.Mutex
	installed map[string]struct{}
}

func NewPromptBinding(cfg PromptBindingConfig) *PromptBinding {
	return &PromptBinding{cfg: cfg, installed: make(map[string]struct{})}
}

// Sync installs the registry's current prompts and removes stale ones. It
// returns the number of prompts installed.
func (b *PromptBinding) Sync() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	prompts := b.cfg.Registry.ListPrompts()
	current := make(map[string]struct{}, len(prompts))
	for _, p := range prompts {
		current[p.Name] = struct{}{}
	}

	var stale []string
	for name := range b.installed {
		if _, ok := current[name]; !ok {
			stale = append(stale, name)
		}
	}
	if len(stale) > 0 {
		b.cfg.Server.RemovePrompts(stale...)
	}

	for _, p := range prompts {
		b.cfg.Server.AddPrompt(toMCPPrompt(p), b.handle)
	}
	b.installed = current
	return len(prompts)
}

// Reload re-reads the configured paths and re-syncs the server when the
// visible prompt list changed. The summary is what reload_prompt_catalog
// returns.
func (b *PromptBinding) Reload(trigger string) map[string]any {
	res := b.cfg.Registry.Reload(b.cfg.Paths, b.cfg.AllowedRoots)
	if res.Changed {
		b.Sync()
	}
	metrics.PromptCatalogReloads.WithLabelValues(trigger, res.Status()).Inc()

	if len(res.LoadErrors) > 0 {
		b.cfg.Logger.Warn("promptcatalog: reloaded with warnings",
			"trigger", trigger,
			"prompts", res.PromptCount,
			"warnings", len(res.LoadErrors),
		)
	} else {
		b.cfg.Logger.Info("promptcatalog: reloaded",
			"trigger", trigger,
			"prompts", res.PromptCount,
			"changed", res.Changed,
			"status", res.Status(),
		)
	}
	return res.Summary()
}

func (b *PromptBinding) handle(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	name := req.Params.Name
	prompt, ok := b.cfg.Registry.GetPrompt(name)
	if !ok {
		return nil, fmt.Errorf("unknown prompt %q", name)
	}

	args := req.Params.Arguments
	if missing := promptcatalog.MissingRequired(prompt, args); len(missing) > 0 {
		return nil, fmt.Errorf("prompt %q is missing required arguments: %s", prompt.Name, strings.Join(missing, ", "))
	}

	text, err := promptcatalog.Render(prompt.Template, args)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("failed to render prompt %q", prompt.Name), err)
	}

	return &mcp.GetPromptResult{
		Description: prompt.Description,
		Messages: []*mcp.PromptMessage{{
			Role:    "user",
			Content: &mcp.TextContent{Text: text},
		}},
	}, nil
}

func toMCPPrompt(p promptcatalog.Prompt) *mcp.Prompt {
	args := make([]*mcp.PromptArgument, 0, len(p.Arguments))
	for _, a := range p.Arguments {
		args = append(args, &mcp.PromptArgument{Name: a.Name, Required: a.Required})
	}
	return &mcp.Prompt{
		Name:        p.Name,
		Title:       p.Title,
		Description: p.Description,
		Arguments:   args,
	}
}
