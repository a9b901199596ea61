package sheets

import (
	"context"
	"net/http"

	"github.com/teemow/workspace-mcp/internal/gateway"
)

// Adapter routes sheets tool invocations onto the client.
type Adapter struct{}

// NewAdapter creates the sheets service adapter.
func NewAdapter() *Adapter { return &Adapter{} }

// Service implements gateway.ServiceAdapter.
func (*Adapter) Service() string { return "sheets" }

// Invoke implements gateway.ServiceAdapter.
func (*Adapter) Invoke(ctx context.Context, httpClient *http.Client, inv gateway.Invocation) (any, error) {
	c, err := NewClient(ctx, httpClient)
	if err != nil {
		return nil, err
	}
	args := inv.Arguments

	switch inv.Tool {
	case "sheets_create_spreadsheet":
		title, err := args.RequiredString("title")
		if err != nil {
			return nil, err
		}
		return c.CreateSpreadsheet(ctx, title, args.StringSlice("sheet_names"))

	case "sheets_get_values":
		id, rangeName, err := rangeArgs(args)
		if err != nil {
			return nil, err
		}
		return c.GetValues(ctx, id, rangeName)

	case "sheets_update_values":
		id, rangeName, err := rangeArgs(args)
		if err != nil {
			return nil, err
		}
		values := args.Rows("values")
		if len(values) == 0 {
			return nil, gateway.InvalidArgument("missing required argument %q", "values")
		}
		return c.UpdateValues(ctx, id, rangeName, values)

	case "sheets_append_values":
		id, rangeName, err := rangeArgs(args)
		if err != nil {
			return nil, err
		}
		values := args.Rows("values")
		if len(values) == 0 {
			return nil, gateway.InvalidArgument("missing required argument %q", "values")
		}
		return c.AppendValues(ctx, id, rangeName, values)

	default:
		return nil, gateway.InvalidArgument("unknown sheets tool %q", inv.Tool)
	}
}

func rangeArgs(args gateway.Args) (string, string, error) {
	id, err := args.RequiredString("spreadsheet_id")
	if err != nil {
		return "", "", err
	}
	rangeName, err := args.RequiredString("range_name")
	if err != nil {
		return "", "", err
	}
	return id, rangeName, nil
}
