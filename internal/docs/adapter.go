package docs

import (
	"context"
	"net/http"

	"github.com/teemow/workspace-mcp/internal/gateway"
)

// Adapter routes docs tool invocations onto the client.
type Adapter struct{}

// NewAdapter creates the docs service adapter.
func NewAdapter() *Adapter { return &Adapter{} }

// Service implements gateway.ServiceAdapter.
func (*Adapter) Service() string { return "docs" }

// Invoke implements gateway.ServiceAdapter.
func (*Adapter) Invoke(ctx context.Context, httpClient *http.Client, inv gateway.Invocation) (any, error) {
	c, err := NewClient(ctx, httpClient)
	if err != nil {
		return nil, err
	}
	args := inv.Arguments

	switch inv.Tool {
	case "docs_create_document":
		title, err := args.RequiredString("title")
		if err != nil {
			return nil, err
		}
		return c.CreateDocument(ctx, title)

	case "docs_get_document":
		id, err := args.RequiredString("document_id")
		if err != nil {
			return nil, err
		}
		return c.GetDocument(ctx, id)

	case "docs_insert_text":
		id, err := args.RequiredString("document_id")
		if err != nil {
			return nil, err
		}
		text, err := args.RequiredString("text")
		if err != nil {
			return nil, err
		}
		index := args.Int("index", 1)
		if index < 1 {
			return nil, gateway.InvalidArgument("index must be at least 1, got %d", index)
		}
		if err := c.InsertText(ctx, id, text, int64(index)); err != nil {
			return nil, err
		}
		return map[string]any{"inserted": true, "document_id": id, "index": index}, nil

	case "docs_append_text":
		id, err := args.RequiredString("document_id")
		if err != nil {
			return nil, err
		}
		text, err := args.RequiredString("text")
		if err != nil {
			return nil, err
		}
		if err := c.AppendText(ctx, id, text); err != nil {
			return nil, err
		}
		return map[string]any{"appended": true, "document_id": id}, nil

	default:
		return nil, gateway.InvalidArgument("unknown docs tool %q", inv.Tool)
	}
}
