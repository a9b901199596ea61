package catalog

import "github.com/mark3labs/mcp-go/mcp"

func docsTools() []definition {
	return []definition{
		{
			service: "docs",
			write:   true,
			tool: mcp.NewTool("docs_create_document",
				mcp.WithDescription("Create a new Google Doc"),
				accountArg(),
				mcp.WithString("title",
					mcp.Required(),
					mcp.Description("Document title"),
				),
			),
		},
		{
			service: "docs",
			tool: mcp.NewTool("docs_get_document",
				mcp.WithDescription("Get document content"),
				accountArg(),
				mcp.WithString("document_id",
					mcp.Required(),
					mcp.Description("Document ID"),
				),
			),
		},
		{
			service: "docs",
			write:   true,
			tool: mcp.NewTool("docs_insert_text",
				mcp.WithDescription("Insert text into a document"),
				accountArg(),
				mcp.WithString("document_id",
					mcp.Required(),
					mcp.Description("Document ID"),
				),
				mcp.WithString("text",
					mcp.Required(),
					mcp.Description("Text to insert"),
				),
				mcp.WithNumber("index",
					mcp.Description("Position to insert (default: 1, the document start)"),
				),
			),
		},
		{
			service: "docs",
			write:   true,
			tool: mcp.NewTool("docs_append_text",
				mcp.WithDescription("Append text to a document"),
				accountArg(),
				mcp.WithString("document_id",
					mcp.Required(),
					mcp.Description("Document ID"),
				),
				mcp.WithString("text",
					mcp.Required(),
					mcp.Description("Text to append"),
				),
			),
		},
	}
}
