package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/slighter12/databricks-mcp-go/tools/types"
	"github.com/slighter12/databricks-mcp-go/warehouse"
)

const (
	CreateCatalogToolName        = "create_catalog"
	CreateSchemaToolName         = "create_schema"
	CreateMetadataTablesToolName = "create_metadata_tables"
)

type CreateCatalogInput struct {
	CatalogName string `json:"catalog_name" jsonschema:"name of the catalog to create"`
}

type CreateSchemaInput struct {
	CatalogName string `json:"catalog_name" jsonschema:"catalog that will contain the schema"`
	SchemaName  string `json:"schema_name" jsonschema:"name of the schema to create"`
}

// CreateCatalogTool issues CREATE CATALOG IF NOT EXISTS. Warehouse failures
// are reported in the result text, never as a protocol error.
type CreateCatalogTool struct {
	log *slog.Logger
	wh  warehouse.Executor
}

func NewCreateCatalogTool(log *slog.Logger, wh warehouse.Executor) *CreateCatalogTool {
	return &CreateCatalogTool{log: log, wh: wh}
}

func (t *CreateCatalogTool) Name() string { return CreateCatalogToolName }

func (t *CreateCatalogTool) Description() string {
	return "Create a new catalog in Databricks using a SQL warehouse"
}

func (t *CreateCatalogTool) Register(server *mcp.Server) error {
	in, err := jsonschema.For[CreateCatalogInput](nil)
	if err != nil {
		return fmt.Errorf("failed to create %s input schema: %w", t.Name(), err)
	}
	mcp.AddTool(server, &mcp.Tool{
		Name:        t.Name(),
		Description: t.Description(),
		InputSchema: in,
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in CreateCatalogInput) (*mcp.CallToolResult, any, error) {
		return types.TextResult(t.CreateCatalog(ctx, in.CatalogName)), nil, nil
	})
	return nil
}

// CreateCatalog returns the text reported to the caller.
func (t *CreateCatalogTool) CreateCatalog(ctx context.Context, catalogName string) string {
	if err := t.wh.Exec(ctx, warehouse.CreateCatalogStatement(catalogName)); err != nil {
		t.log.Warn("catalog: create catalog failed", "catalog", catalogName, "error", err)
		return warehouse.QueryError(err)
	}
	return fmt.Sprintf("Catalog %s created successfully", catalogName)
}

// CreateSchemaTool issues CREATE SCHEMA IF NOT EXISTS <catalog>.<schema>. The
// same handler backs create_metadata_tables under a different name.
type CreateSchemaTool struct {
	name string
	log  *slog.Logger
	wh   warehouse.Executor
}

func NewCreateSchemaTool(name string, log *slog.Logger, wh warehouse.Executor) *CreateSchemaTool {
	return &CreateSchemaTool{name: name, log: log, wh: wh}
}

func (t *CreateSchemaTool) Name() string { return t.name }

func (t *CreateSchemaTool) Description() string {
	return "Create a new schema in Databricks catalog using a SQL warehouse"
}

func (t *CreateSchemaTool) Register(server *mcp.Server) error {
	in, err := jsonschema.For[CreateSchemaInput](nil)
	if err != nil {
		return fmt.Errorf("failed to create %s input schema: %w", t.Name(), err)
	}
	mcp.AddTool(server, &mcp.Tool{
		Name:        t.Name(),
		Description: t.Description(),
		InputSchema: in,
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in CreateSchemaInput) (*mcp.CallToolResult, any, error) {
		return types.TextResult(t.CreateSchema(ctx, in.CatalogName, in.SchemaName)), nil, nil
	})
	return nil
}

// CreateSchema returns the text reported to the caller.
func (t *CreateSchemaTool) CreateSchema(ctx context.Context, catalogName, schemaName string) string {
	if err := t.wh.Exec(ctx, warehouse.CreateSchemaStatement(catalogName, schemaName)); err != nil {
		t.log.Warn("catalog: create schema failed", "tool", t.name, "catalog", catalogName, "schema", schemaName, "error", err)
		return warehouse.QueryError(err)
	}
	return fmt.Sprintf("Schema %s created successfully", schemaName)
}

// GetAllTools returns the warehouse tools. create_metadata_tables is only
// included when withMetadataTables is set.
func GetAllTools(log *slog.Logger, wh warehouse.Executor, withMetadataTables bool) []types.Tool {
	all := []types.Tool{
		NewCreateCatalogTool(log, wh),
		NewCreateSchemaTool(CreateSchemaToolName, log, wh),
	}
	if withMetadataTables {
		all = append(all, NewCreateSchemaTool(CreateMetadataTablesToolName, log, wh))
	}
	return all
}
