package shared

import (
	"context"
	"log/slog"

	"github.com/jonboulle/clockwork"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/slighter12/databricks-mcp-go/metrics"
	"github.com/slighter12/databricks-mcp-go/tools"
	"github.com/slighter12/databricks-mcp-go/tools/types"
)

// unknownToolLabel keeps the tool_calls label set bounded to registered names.
const unknownToolLabel = "unknown"

// requestMiddleware logs and counts every request the server receives.
func requestMiddleware(log *slog.Logger, clock clockwork.Clock, registry types.ToolRegistry) mcp.Middleware {
	return func(next mcp.MethodHandler) mcp.MethodHandler {
		return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
			start := clock.Now()
			attrs := []any{"method", method}
			if params, ok := req.GetParams().(*mcp.CallToolParamsRaw); ok && params != nil {
				label := params.Name
				if _, err := registry.LookupTool(params.Name); tools.IsToolNotFound(err) {
					label = unknownToolLabel
				}
				metrics.ToolCalls.WithLabelValues(label).Inc()
				attrs = append(attrs, "tool", params.Name)
			}

			res, err := next(ctx, method, req)

			metrics.MCPRequests.WithLabelValues(method, metrics.Outcome(err)).Inc()
			attrs = append(attrs, "duration", clock.Since(start))
			if err != nil {
				log.WarnContext(ctx, "mcp: request failed", append(attrs, "error", err)...)
			} else {
				log.DebugContext(ctx, "mcp: request handled", attrs...)
			}
			return res, err
		}
	}
}
