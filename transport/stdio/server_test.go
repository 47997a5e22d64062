package stdio

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/slighter12/databricks-mcp-go/config"
	"github.com/slighter12/databricks-mcp-go/promptcatalog"
	"github.com/slighter12/databricks-mcp-go/transport/shared"
)

type nopWarehouse struct{}

func (nopWarehouse) Exec(context.Context, string) error { return nil }

func newRuntime(t *testing.T) *shared.Runtime {
	t.Helper()
	cfg := config.NewConfig()
	cfg.Warehouse.ID = "wh-1"
	rt, err := shared.NewRuntime(shared.Options{
		Config:    cfg,
		Logger:    slog.New(slog.DiscardHandler),
		Warehouse: nopWarehouse{},
		Clock:     clockwork.NewFakeClock(),
		Prompts:   promptcatalog.NewRegistry(true, promptcatalog.BuiltinPrompts()...),
	})
	require.NoError(t, err)
	return rt
}

func TestNewStdioServer(t *testing.T) {
	t.Parallel()

	server := NewStdioServer(newRuntime(t), slog.New(slog.DiscardHandler))
	_, ok := server.transport.(*mcp.StdioTransport)
	require.True(t, ok)
}

func TestStdioServer_ServesSession(t *testing.T) {
	t.Parallel()

	clientReader, serverWriter := io.Pipe()
	serverReader, clientWriter := io.Pipe()

	server := newStdioServer(newRuntime(t), slog.New(slog.DiscardHandler), &mcp.IOTransport{
		Reader: serverReader,
		Writer: serverWriter,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Start(ctx) }()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	cs, err := client.Connect(ctx, &mcp.IOTransport{Reader: clientReader, Writer: clientWriter}, nil)
	require.NoError(t, err)

	res, err := cs.CallTool(ctx, &mcp.CallToolParams{Name: "add", Arguments: map[string]any{"a": -3, "b": 5}})
	require.NoError(t, err)
	require.Equal(t, "2", res.Content[0].(*mcp.TextContent).Text)

	prompts, err := cs.ListPrompts(ctx, nil)
	require.NoError(t, err)
	require.Len(t, prompts.Prompts, 1)

	cancel()
	require.NoError(t, <-done)
	_ = cs.Close()
}
