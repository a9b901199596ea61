package catalog

import "github.com/mark3labs/mcp-go/mcp"

func driveTools() []definition {
	return []definition{
		{
			service: "drive",
			tool: mcp.NewTool("drive_list_files",
				mcp.WithDescription("List files in Google Drive"),
				accountArg(),
				mcp.WithNumber("max_results",
					mcp.Description("Maximum results"),
				),
				mcp.WithString("query",
					mcp.Description("Drive query string"),
				),
			),
		},
		{
			service: "drive",
			write:   true,
			tool: mcp.NewTool("drive_create_folder",
				mcp.WithDescription("Create a new folder"),
				accountArg(),
				mcp.WithString("folder_name",
					mcp.Required(),
					mcp.Description("Folder name"),
				),
				mcp.WithString("parent_folder_id",
					mcp.Description("Parent folder ID"),
				),
			),
		},
		{
			service: "drive",
			write:   true,
			tool: mcp.NewTool("drive_delete_file",
				mcp.WithDescription("Delete a file or folder"),
				accountArg(),
				mcp.WithString("file_id",
					mcp.Required(),
					mcp.Description("File/folder ID"),
				),
			),
		},
		{
			service: "drive",
			write:   true,
			tool: mcp.NewTool("drive_share_file",
				mcp.WithDescription("Share a file with a user"),
				accountArg(),
				mcp.WithString("file_id",
					mcp.Required(),
					mcp.Description("File ID"),
				),
				mcp.WithString("email",
					mcp.Required(),
					mcp.Description("Email address"),
				),
				mcp.WithString("role",
					mcp.Description("Permission role (reader/writer/commenter)"),
				),
			),
		},
	}
}
