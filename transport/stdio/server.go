package stdio

import (
	"context"
	"errors"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/slighter12/databricks-mcp-go/transport/shared"
)

// StdioServer handles MCP communication over stdio
type StdioServer struct {
	runtime   *shared.Runtime
	log       *slog.Logger
	transport mcp.Transport
}

// NewStdioServer creates a server bound to the process's stdin and stdout.
// Logs must not go to stdout while it runs.
func NewStdioServer(rt *shared.Runtime, log *slog.Logger) *StdioServer {
	return newStdioServer(rt, log, &mcp.StdioTransport{})
}

func newStdioServer(rt *shared.Runtime, log *slog.Logger, transport mcp.Transport) *StdioServer {
	return &StdioServer{runtime: rt, log: log, transport: transport}
}

// Start serves a single client session until it disconnects or ctx is done.
func (s *StdioServer) Start(ctx context.Context) error {
	s.log.Info("stdio: mcp server started")
	err := s.runtime.Server.Run(ctx, s.transport)
	if err != nil && !errors.Is(err, context.Canceled) {
		s.log.Error("stdio: mcp server stopped", "error", err)
		return err
	}
	s.log.Info("stdio: mcp server stopped")
	return nil
}
