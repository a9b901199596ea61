package gmail

import (
	"context"
	"net/http"

	"github.com/teemow/workspace-mcp/internal/gateway"
)

// Adapter routes gmail tool invocations onto the client.
type Adapter struct{}

// NewAdapter creates the gmail service adapter.
func NewAdapter() *Adapter { return &Adapter{} }

// Service implements gateway.ServiceAdapter.
func (*Adapter) Service() string { return "gmail" }

// Invoke implements gateway.ServiceAdapter.
func (*Adapter) Invoke(ctx context.Context, httpClient *http.Client, inv gateway.Invocation) (any, error) {
	c, err := NewClient(ctx, httpClient)
	if err != nil {
		return nil, err
	}
	args := inv.Arguments

	switch inv.Tool {
	case "gmail_list_messages":
		return c.ListMessages(ctx,
			int64(args.Int("max_results", 10)),
			args.String("query", ""),
			args.StringSlice("label_ids"))

	case "gmail_get_message":
		id, err := args.RequiredString("message_id")
		if err != nil {
			return nil, err
		}
		return c.GetMessage(ctx, id)

	case "gmail_send_message":
		to, err := args.RequiredString("to")
		if err != nil {
			return nil, err
		}
		subject, err := args.RequiredString("subject")
		if err != nil {
			return nil, err
		}
		body, err := args.RequiredString("body")
		if err != nil {
			return nil, err
		}
		return c.SendMessage(ctx, SendInput{
			To:      to,
			Subject: subject,
			Body:    body,
			CC:      args.String("cc", ""),
			BCC:     args.String("bcc", ""),
		})

	case "gmail_search_messages":
		query, err := args.RequiredString("query")
		if err != nil {
			return nil, err
		}
		return c.SearchMessages(ctx, query, int64(args.Int("max_results", 10)))

	default:
		return nil, gateway.InvalidArgument("unknown gmail tool %q", inv.Tool)
	}
}
