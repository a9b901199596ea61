package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/workspace-mcp/internal/gateway"
	"github.com/teemow/workspace-mcp/internal/instrumentation"
	"github.com/teemow/workspace-mcp/internal/server"
)

// toolHandler matches the handler signature mcpserver.MCPServer.AddTool
// expects.
type toolHandler = func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

// definition pairs a tool schema with its routing metadata. Write tools are
// not registered in read-only mode.
type definition struct {
	tool    mcp.Tool
	service string
	write   bool
}

// Register adds the full tool surface to the MCP server. In read-only mode
// the write tools are omitted from the catalog rather than rejected at call
// time, so clients can discover what is actually available.
func Register(s *mcpserver.MCPServer, sc *server.ServerContext) {
	groups := [][]definition{
		gmailTools(),
		chatTools(),
		sheetsTools(),
		driveTools(),
		formsTools(),
		calendarTools(),
		docsTools(),
	}

	for _, defs := range groups {
		for _, def := range defs {
			if def.write && sc.ReadOnly() {
				continue
			}
			s.AddTool(def.tool, instrumented(sc, def.tool.Name, dispatchHandler(sc, def.service, def.tool.Name)))
		}
	}
}

// accountFromArgs extracts the account name, defaulting to "default".
func accountFromArgs(args map[string]interface{}) string {
	if v, ok := args["account"].(string); ok && v != "" {
		return v
	}
	return "default"
}

// accountArg is the optional account selector shared by every tool.
func accountArg() mcp.ToolOption {
	return mcp.WithString("account",
		mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
	)
}

// dispatchHandler builds the handler funnel for one tool: normalize the
// request into an invocation, dispatch it, and render the result.
func dispatchHandler(sc *server.ServerContext, service, tool string) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		result := sc.Dispatcher().Invoke(ctx, gateway.Invocation{
			Tool:      tool,
			Service:   service,
			Account:   accountFromArgs(args),
			Arguments: gateway.Args(args),
		})

		if result.Err != nil {
			return mcp.NewToolResultError(renderError(sc, accountFromArgs(args), result.Err)), nil
		}

		payload, err := json.MarshalIndent(result.Payload, "", "  ")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
		}
		return mcp.NewToolResultText(string(payload)), nil
	}
}

// renderError turns a gateway error into a tool error message. Auth
// failures carry re-authorization instructions so agents can walk the user
// through the consent flow instead of retrying.
func renderError(sc *server.ServerContext, account string, gwErr *gateway.Error) string {
	if gwErr.Kind != gateway.KindAuthRequired {
		return gwErr.Error()
	}

	return fmt.Sprintf(`Google authorization required for account %q: %v

To authorize access:

1. Visit this URL in your browser:
   %s

2. Sign in and grant access to the requested Google services
3. Copy the authorization code
4. Run: workspace-mcp auth --account %s

Tokens are refreshed automatically after that.`,
		account, gwErr, sc.OAuth().AuthCodeURL(account), account)
}

// instrumented wraps a handler with tool invocation metrics.
func instrumented(sc *server.ServerContext, tool string, handler toolHandler) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		account := accountFromArgs(request.GetArguments())

		result, err := handler(ctx, request)

		status := instrumentation.StatusSuccess
		if err != nil || (result != nil && result.IsError) {
			status = instrumentation.StatusError
		}
		sc.Metrics().RecordToolInvocation(ctx, tool, status, account, time.Since(start))

		return result, err
	}
}
