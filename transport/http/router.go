package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/slighter12/databricks-mcp-go/static"
)

func RegisterRoutes(e *echo.Echo, s *Server) {
	e.GET("/", s.handleIndex)
	e.GET("/healthz", s.handleHealthz)
	if s.config.Metrics.Enabled {
		e.GET(s.config.Metrics.Path, echo.WrapHandler(promhttp.Handler()))
	}
	e.Any("/*", echo.WrapHandler(s.mcpApp()))
}

func (s *Server) handleIndex(c echo.Context) error {
	return c.FileFS(static.IndexFile, static.FS)
}

func (s *Server) handleHealthz(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// mcpApp is the sub-application behind every path not routed above. Only the
// MCP path is served; anything else is a 404.
func (s *Server) mcpApp() http.Handler {
	server := s.runtime.Server
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, &mcp.StreamableHTTPOptions{
		Stateless: s.config.Server.Stateless,
	})

	mux := http.NewServeMux()
	mux.Handle(s.config.Server.MCPPath, handler)
	return mux
}
