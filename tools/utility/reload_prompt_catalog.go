package utility

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/slighter12/databricks-mcp-go/tools/types"
)

// PromptCatalogReloader executes a prompt catalog reload and returns structured metadata.
type PromptCatalogReloader func() map[string]any

type ReloadPromptCatalogInput struct{}

type ReloadPromptCatalogTool struct {
	reload PromptCatalogReloader
}

func NewReloadPromptCatalogTool(reload PromptCatalogReloader) *ReloadPromptCatalogTool {
	return &ReloadPromptCatalogTool{reload: reload}
}

func (t *ReloadPromptCatalogTool) Name() string { return "reload_prompt_catalog" }

func (t *ReloadPromptCatalogTool) Description() string {
	return "Reloads prompt catalog entries from configured SKILL.md paths"
}

func (t *ReloadPromptCatalogTool) Register(server *mcp.Server) error {
	in, err := jsonschema.For[ReloadPromptCatalogInput](nil)
	if err != nil {
		return fmt.Errorf("failed to create %s input schema: %w", t.Name(), err)
	}
	mcp.AddTool(server, &mcp.Tool{
		Name:        t.Name(),
		Description: t.Description(),
		InputSchema: in,
	}, func(ctx context.Context, _ *mcp.CallToolRequest, _ ReloadPromptCatalogInput) (*mcp.CallToolResult, any, error) {
		result, err := t.Execute()
		if err != nil {
			return nil, nil, err
		}
		return types.TextResult(string(result)), nil, nil
	})
	return nil
}

// Execute runs the reload and returns the JSON summary.
func (t *ReloadPromptCatalogTool) Execute() ([]byte, error) {
	result := map[string]any{
		"changed":        false,
		"promptCount":    0,
		"loadErrorCount": 0,
		"status":         "disabled",
	}
	if t.reload != nil {
		result = t.reload()
	}
	return json.Marshal(result)
}
