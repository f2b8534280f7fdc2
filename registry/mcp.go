package registry

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// MCPServer builds an MCP server exposing every registered tool. Tools
// registered afterwards are not included.
func (r *Registry) MCPServer() *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    r.config.ServerInfo.Name,
		Version: r.config.ServerInfo.Version,
	}, nil)

	tools, _ := r.ListAll(context.Background())
	for _, tool := range tools {
		t := tool.Tool
		server.AddTool(&t, r.callHandler(t.Name))
	}
	return server
}

// callHandler adapts a registered tool to the MCP tool handler signature.
// Failures are reported as tool errors so the calling model can see them.
func (r *Registry) callHandler(name string) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := map[string]any{}
		if raw := req.Params.Arguments; len(raw) > 0 {
			if err := json.Unmarshal(raw, &args); err != nil {
				return errorResult(fmt.Errorf("%w: arguments: %v", ErrInvalidRequest, err)), nil
			}
		}

		result, err := r.Execute(ctx, name, args)
		if err != nil {
			return errorResult(err), nil
		}
		text, err := json.Marshal(result)
		if err != nil {
			return errorResult(fmt.Errorf("encode result: %w", err)), nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: string(text)}},
		}, nil
	}
}

func errorResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
		IsError: true,
	}
}
