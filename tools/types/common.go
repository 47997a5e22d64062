package types

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Tool interface defines the contract for all tools. Dispatch and argument
// decoding are done by the MCP server; a tool only has to register its typed
// handler.
type Tool interface {
	Name() string
	Description() string
	Register(server *mcp.Server) error
}

// ToolRegistry interface defines the contract for tool registries
type ToolRegistry interface {
	RegisterTool(tool Tool) error
	GetTool(name string) (Tool, bool)
	// LookupTool reports a missing name as an error wrapping tools.ErrToolNotFound.
	LookupTool(name string) (Tool, error)
	ListTools() []Tool
}

// TextResult wraps plain text as a single-content tool result.
func TextResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}
