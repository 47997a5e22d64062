package arithmetic

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/slighter12/databricks-mcp-go/tools/types"
)

type AddInput struct {
	A int `json:"a" jsonschema:"first addend"`
	B int `json:"b" jsonschema:"second addend"`
}

type AddOutput struct {
	Result int `json:"result"`
}

type AddTool struct{}

func (t *AddTool) Name() string        { return "add" }
func (t *AddTool) Description() string { return "Add two numbers" }

func (t *AddTool) Register(server *mcp.Server) error {
	in, err := jsonschema.For[AddInput](nil)
	if err != nil {
		return fmt.Errorf("failed to create add input schema: %w", err)
	}
	out, err := jsonschema.For[AddOutput](nil)
	if err != nil {
		return fmt.Errorf("failed to create add output schema: %w", err)
	}

	mcp.AddTool(server, &mcp.Tool{
		Name:         t.Name(),
		Description:  t.Description(),
		InputSchema:  in,
		OutputSchema: out,
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in AddInput) (*mcp.CallToolResult, AddOutput, error) {
		sum := Add(in.A, in.B)
		return types.TextResult(strconv.Itoa(sum)), AddOutput{Result: sum}, nil
	})
	return nil
}

func Add(a, b int) int {
	return a + b
}

func GetAllTools() []types.Tool {
	return []types.Tool{&AddTool{}}
}
