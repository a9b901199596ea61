package catalog

import "github.com/mark3labs/mcp-go/mcp"

func formsTools() []definition {
	return []definition{
		{
			service: "forms",
			write:   true,
			tool: mcp.NewTool("forms_create_form",
				mcp.WithDescription("Create a new form"),
				accountArg(),
				mcp.WithString("title",
					mcp.Required(),
					mcp.Description("Form title"),
				),
				mcp.WithString("description",
					mcp.Description("Form description"),
				),
			),
		},
		{
			service: "forms",
			write:   true,
			tool: mcp.NewTool("forms_add_question",
				mcp.WithDescription("Add a question to a form"),
				accountArg(),
				mcp.WithString("form_id",
					mcp.Required(),
					mcp.Description("Form ID"),
				),
				mcp.WithString("question_title",
					mcp.Required(),
					mcp.Description("Question text"),
				),
				mcp.WithString("question_type",
					mcp.Description("Question type (SHORT_ANSWER, PARAGRAPH, MULTIPLE_CHOICE, CHECKBOX, DROP_DOWN)"),
				),
				mcp.WithBoolean("required",
					mcp.Description("Is required"),
				),
				mcp.WithArray("choices",
					mcp.Description("Choice options"),
					mcp.Items(map[string]any{"type": "string"}),
				),
			),
		},
		{
			service: "forms",
			tool: mcp.NewTool("forms_get_responses",
				mcp.WithDescription("Get all form responses"),
				accountArg(),
				mcp.WithString("form_id",
					mcp.Required(),
					mcp.Description("Form ID"),
				),
			),
		},
	}
}
