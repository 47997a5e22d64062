package resources

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	GreetingURITemplate = "greeting://{name}"
	greetingScheme      = "greeting://"
)

// Greeting returns the personalized greeting for name.
func Greeting(name string) string {
	return fmt.Sprintf("Hello, %s!", name)
}

// GreetingResource serves greeting://{name}.
type GreetingResource struct{}

func (r *GreetingResource) Register(server *mcp.Server) {
	server.AddResourceTemplate(&mcp.ResourceTemplate{
		Name:        "get_greeting",
		Description: "Get a personalized greeting",
		MIMEType:    "text/plain",
		URITemplate: GreetingURITemplate,
	}, r.read)
}

func (r *GreetingResource) read(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := req.Params.URI
	name, ok := GreetingName(uri)
	if !ok {
		return nil, mcp.ResourceNotFoundError(uri)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     Greeting(name),
		}},
	}, nil
}

// GreetingName extracts {name} from a greeting URI. The name must be a single
// non-empty path segment.
func GreetingName(uri string) (string, bool) {
	raw, ok := strings.CutPrefix(uri, greetingScheme)
	if !ok || raw == "" || strings.Contains(raw, "/") {
		return "", false
	}
	name, err := url.PathUnescape(raw)
	if err != nil {
		return "", false
	}
	return name, true
}
