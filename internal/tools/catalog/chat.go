package catalog

import "github.com/mark3labs/mcp-go/mcp"

func chatTools() []definition {
	return []definition{
		{
			service: "chat",
			tool: mcp.NewTool("chat_list_spaces",
				mcp.WithDescription("List all Chat spaces"),
				accountArg(),
				mcp.WithNumber("max_results",
					mcp.Description("Maximum results"),
				),
			),
		},
		{
			service: "chat",
			write:   true,
			tool: mcp.NewTool("chat_send_message",
				mcp.WithDescription("Send a message to a Chat space"),
				accountArg(),
				mcp.WithString("space",
					mcp.Required(),
					mcp.Description("Space name (e.g., 'spaces/SPACE_ID')"),
				),
				mcp.WithString("text",
					mcp.Required(),
					mcp.Description("Message text"),
				),
				mcp.WithString("thread_key",
					mcp.Description("Thread key for threading"),
				),
			),
		},
		{
			service: "chat",
			tool: mcp.NewTool("chat_list_messages",
				mcp.WithDescription("List messages in a Chat space"),
				accountArg(),
				mcp.WithString("space",
					mcp.Required(),
					mcp.Description("Space name"),
				),
				mcp.WithNumber("max_results",
					mcp.Description("Maximum results"),
				),
			),
		},
	}
}
