package tools

import (
	"log/slog"

	"github.com/slighter12/databricks-mcp-go/tools/arithmetic"
	"github.com/slighter12/databricks-mcp-go/tools/catalog"
	"github.com/slighter12/databricks-mcp-go/tools/types"
	"github.com/slighter12/databricks-mcp-go/tools/utility"
	"github.com/slighter12/databricks-mcp-go/warehouse"
)

// Dependencies carries what the default tools need at construction time.
type Dependencies struct {
	Logger              *slog.Logger
	Warehouse           warehouse.Executor
	MetadataTablesAlias bool
	// ReloadPromptCatalog enables reload_prompt_catalog when non-nil.
	ReloadPromptCatalog utility.PromptCatalogReloader
}

// GetAllTools returns all available tools from all categories
func GetAllTools(deps Dependencies) []types.Tool {
	var all []types.Tool
	all = append(all, arithmetic.GetAllTools()...)
	if deps.Warehouse != nil {
		all = append(all, catalog.GetAllTools(deps.Logger, deps.Warehouse, deps.MetadataTablesAlias)...)
	}
	if deps.ReloadPromptCatalog != nil {
		all = append(all, utility.NewReloadPromptCatalogTool(deps.ReloadPromptCatalog))
	}
	return all
}
