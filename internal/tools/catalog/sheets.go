package catalog

import "github.com/mark3labs/mcp-go/mcp"

func sheetsTools() []definition {
	return []definition{
		{
			service: "sheets",
			write:   true,
			tool: mcp.NewTool("sheets_create_spreadsheet",
				mcp.WithDescription("Create a new spreadsheet"),
				accountArg(),
				mcp.WithString("title",
					mcp.Required(),
					mcp.Description("Spreadsheet title"),
				),
				mcp.WithArray("sheet_names",
					mcp.Description("Sheet names"),
					mcp.Items(map[string]any{"type": "string"}),
				),
			),
		},
		{
			service: "sheets",
			tool: mcp.NewTool("sheets_get_values",
				mcp.WithDescription("Read values from a spreadsheet"),
				accountArg(),
				mcp.WithString("spreadsheet_id",
					mcp.Required(),
					mcp.Description("Spreadsheet ID"),
				),
				mcp.WithString("range_name",
					mcp.Required(),
					mcp.Description("A1 notation range"),
				),
			),
		},
		{
			service: "sheets",
			write:   true,
			tool: mcp.NewTool("sheets_update_values",
				mcp.WithDescription("Update values in a spreadsheet"),
				accountArg(),
				mcp.WithString("spreadsheet_id",
					mcp.Required(),
					mcp.Description("Spreadsheet ID"),
				),
				mcp.WithString("range_name",
					mcp.Required(),
					mcp.Description("A1 notation range"),
				),
				mcp.WithArray("values",
					mcp.Required(),
					mcp.Description("2D array of values"),
				),
			),
		},
		{
			service: "sheets",
			write:   true,
			tool: mcp.NewTool("sheets_append_values",
				mcp.WithDescription("Append values to a spreadsheet"),
				accountArg(),
				mcp.WithString("spreadsheet_id",
					mcp.Required(),
					mcp.Description("Spreadsheet ID"),
				),
				mcp.WithString("range_name",
					mcp.Required(),
					mcp.Description("A1 notation range"),
				),
				mcp.WithArray("values",
					mcp.Required(),
					mcp.Description("2D array of values"),
				),
			),
		},
	}
}
