package forms

import (
	"context"
	"net/http"

	"github.com/teemow/workspace-mcp/internal/gateway"
)

// Adapter routes forms tool invocations onto the client.
type Adapter struct{}

// NewAdapter creates the forms service adapter.
func NewAdapter() *Adapter { return &Adapter{} }

// Service implements gateway.ServiceAdapter.
func (*Adapter) Service() string { return "forms" }

// Invoke implements gateway.ServiceAdapter.
func (*Adapter) Invoke(ctx context.Context, httpClient *http.Client, inv gateway.Invocation) (any, error) {
	c, err := NewClient(ctx, httpClient)
	if err != nil {
		return nil, err
	}
	args := inv.Arguments

	switch inv.Tool {
	case "forms_create_form":
		title, err := args.RequiredString("title")
		if err != nil {
			return nil, err
		}
		return c.CreateForm(ctx, title, args.String("description", ""))

	case "forms_add_question":
		formID, err := args.RequiredString("form_id")
		if err != nil {
			return nil, err
		}
		title, err := args.RequiredString("question_title")
		if err != nil {
			return nil, err
		}
		in := QuestionInput{
			Title:    title,
			Type:     args.String("question_type", TypeShortAnswer),
			Required: args.Bool("required", false),
			Choices:  args.StringSlice("choices"),
		}
		if err := c.AddQuestion(ctx, formID, in); err != nil {
			return nil, err
		}
		return map[string]any{"added": true, "form_id": formID, "question_title": title}, nil

	case "forms_get_responses":
		formID, err := args.RequiredString("form_id")
		if err != nil {
			return nil, err
		}
		responses, err := c.GetResponses(ctx, formID)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"form_id":         formID,
			"total_responses": len(responses),
			"responses":       responses,
		}, nil

	default:
		return nil, gateway.InvalidArgument("unknown forms tool %q", inv.Tool)
	}
}
