package catalog

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/slighter12/databricks-mcp-go/warehouse"
)

func newDuckDBWarehouse(t *testing.T) *warehouse.Client {
	t.Helper()
	client, err := warehouse.NewClient(warehouse.ClientConfig{
		Logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})),
		Clock:  clockwork.NewFakeClock(),
		Open:   warehouse.NewDuckDBOpener(""),
	})
	require.NoError(t, err)
	return client
}

func TestMCP_CatalogTools_CreateSchema(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	tool := NewCreateSchemaTool(CreateSchemaToolName, log, newDuckDBWarehouse(t))

	t.Run("succeeds against an existing catalog", func(t *testing.T) {
		t.Parallel()
		got := tool.CreateSchema(context.Background(), "memory", "sales")
		require.Equal(t, "Schema sales created successfully", got)
	})

	t.Run("reports sql errors as text", func(t *testing.T) {
		t.Parallel()
		got := tool.CreateSchema(context.Background(), "no_such_catalog", "sales")
		require.True(t, strings.HasPrefix(got, "Error querying Databricks Warehouse: "), got)
	})
}

func TestMCP_CatalogTools_CreateCatalog(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	tool := NewCreateCatalogTool(log, newDuckDBWarehouse(t))

	// DuckDB has no CREATE CATALOG, which exercises the failure path end to end.
	got := tool.CreateCatalog(context.Background(), "sales")
	require.True(t, strings.HasPrefix(got, "Error querying Databricks Warehouse: "), got)
}

func TestMCP_CatalogTools_GetAllTools(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.DiscardHandler)
	wh := newDuckDBWarehouse(t)

	require.Len(t, GetAllTools(log, wh, false), 2)
	all := GetAllTools(log, wh, true)
	require.Len(t, all, 3)
	require.Equal(t, CreateMetadataTablesToolName, all[2].Name())
	require.Equal(t, all[1].Description(), all[2].Description())
}
