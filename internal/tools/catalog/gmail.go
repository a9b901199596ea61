package catalog

import "github.com/mark3labs/mcp-go/mcp"

func gmailTools() []definition {
	return []definition{
		{
			service: "gmail",
			tool: mcp.NewTool("gmail_list_messages",
				mcp.WithDescription("List Gmail messages with optional filters"),
				accountArg(),
				mcp.WithNumber("max_results",
					mcp.Description("Maximum results (default: 10)"),
				),
				mcp.WithString("query",
					mcp.Description("Gmail search query (e.g., 'from:example@gmail.com')"),
				),
				mcp.WithArray("label_ids",
					mcp.Description("Filter by labels"),
					mcp.Items(map[string]any{"type": "string"}),
				),
			),
		},
		{
			service: "gmail",
			tool: mcp.NewTool("gmail_get_message",
				mcp.WithDescription("Get a specific Gmail message by ID"),
				accountArg(),
				mcp.WithString("message_id",
					mcp.Required(),
					mcp.Description("Message ID"),
				),
			),
		},
		{
			service: "gmail",
			write:   true,
			tool: mcp.NewTool("gmail_send_message",
				mcp.WithDescription("Send an email"),
				accountArg(),
				mcp.WithString("to",
					mcp.Required(),
					mcp.Description("Recipient email"),
				),
				mcp.WithString("subject",
					mcp.Required(),
					mcp.Description("Email subject"),
				),
				mcp.WithString("body",
					mcp.Required(),
					mcp.Description("Email body"),
				),
				mcp.WithString("cc",
					mcp.Description("CC recipients"),
				),
				mcp.WithString("bcc",
					mcp.Description("BCC recipients"),
				),
			),
		},
		{
			service: "gmail",
			tool: mcp.NewTool("gmail_search_messages",
				mcp.WithDescription("Search Gmail messages"),
				accountArg(),
				mcp.WithString("query",
					mcp.Required(),
					mcp.Description("Search query"),
				),
				mcp.WithNumber("max_results",
					mcp.Description("Maximum results"),
				),
			),
		},
	}
}
