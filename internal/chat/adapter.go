package chat

import (
	"context"
	"net/http"

	"github.com/teemow/workspace-mcp/internal/gateway"
)

// Adapter routes chat tool invocations onto the client.
type Adapter struct{}

// NewAdapter creates the chat service adapter.
func NewAdapter() *Adapter { return &Adapter{} }

// Service implements gateway.ServiceAdapter.
func (*Adapter) Service() string { return "chat" }

// Invoke implements gateway.ServiceAdapter.
func (*Adapter) Invoke(ctx context.Context, httpClient *http.Client, inv gateway.Invocation) (any, error) {
	c, err := NewClient(ctx, httpClient)
	if err != nil {
		return nil, err
	}
	args := inv.Arguments

	switch inv.Tool {
	case "chat_list_spaces":
		return c.ListSpaces(ctx, int64(args.Int("max_results", 10)))

	case "chat_send_message":
		space, err := args.RequiredString("space")
		if err != nil {
			return nil, err
		}
		text, err := args.RequiredString("text")
		if err != nil {
			return nil, err
		}
		return c.SendMessage(ctx, space, text, args.String("thread_key", ""))

	case "chat_list_messages":
		space, err := args.RequiredString("space")
		if err != nil {
			return nil, err
		}
		return c.ListMessages(ctx, space, int64(args.Int("max_results", 10)))

	default:
		return nil, gateway.InvalidArgument("unknown chat tool %q", inv.Tool)
	}
}
