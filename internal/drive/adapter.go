package drive

import (
	"context"
	"net/http"

	"github.com/teemow/workspace-mcp/internal/gateway"
)

var validRoles = map[string]bool{
	"reader":    true,
	"writer":    true,
	"commenter": true,
}

// Adapter routes drive tool invocations onto the client.
type Adapter struct{}

// NewAdapter creates the drive service adapter.
func NewAdapter() *Adapter { return &Adapter{} }

// Service implements gateway.ServiceAdapter.
func (*Adapter) Service() string { return "drive" }

// Invoke implements gateway.ServiceAdapter.
func (*Adapter) Invoke(ctx context.Context, httpClient *http.Client, inv gateway.Invocation) (any, error) {
	c, err := NewClient(ctx, httpClient)
	if err != nil {
		return nil, err
	}
	args := inv.Arguments

	switch inv.Tool {
	case "drive_list_files":
		return c.ListFiles(ctx,
			int64(args.Int("max_results", 10)),
			args.String("query", ""),
			args.String("order_by", ""))

	case "drive_create_folder":
		name, err := args.RequiredString("folder_name")
		if err != nil {
			return nil, err
		}
		return c.CreateFolder(ctx, name, args.String("parent_folder_id", ""))

	case "drive_delete_file":
		id, err := args.RequiredString("file_id")
		if err != nil {
			return nil, err
		}
		if err := c.DeleteFile(ctx, id); err != nil {
			return nil, err
		}
		return map[string]any{"deleted": true, "file_id": id}, nil

	case "drive_share_file":
		id, err := args.RequiredString("file_id")
		if err != nil {
			return nil, err
		}
		email, err := args.RequiredString("email")
		if err != nil {
			return nil, err
		}
		role := args.String("role", "reader")
		if !validRoles[role] {
			return nil, gateway.InvalidArgument("invalid role %q: must be reader, writer or commenter", role)
		}
		return c.ShareFile(ctx, id, email, role)

	default:
		return nil, gateway.InvalidArgument("unknown drive tool %q", inv.Tool)
	}
}
