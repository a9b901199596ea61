package catalog

import "github.com/mark3labs/mcp-go/mcp"

func calendarTools() []definition {
	return []definition{
		{
			service: "calendar",
			tool: mcp.NewTool("calendar_list_events",
				mcp.WithDescription("List calendar events"),
				accountArg(),
				mcp.WithNumber("max_results",
					mcp.Description("Maximum results"),
				),
				mcp.WithString("time_min",
					mcp.Description("Start time (RFC3339)"),
				),
				mcp.WithString("time_max",
					mcp.Description("End time (RFC3339)"),
				),
				mcp.WithString("calendar_id",
					mcp.Description("Calendar ID (default: 'primary')"),
				),
			),
		},
		{
			service: "calendar",
			write:   true,
			tool: mcp.NewTool("calendar_create_event",
				mcp.WithDescription("Create a calendar event"),
				accountArg(),
				mcp.WithString("summary",
					mcp.Required(),
					mcp.Description("Event title"),
				),
				mcp.WithString("start_time",
					mcp.Required(),
					mcp.Description("Start time (RFC3339)"),
				),
				mcp.WithString("end_time",
					mcp.Required(),
					mcp.Description("End time (RFC3339)"),
				),
				mcp.WithString("description",
					mcp.Description("Event description"),
				),
				mcp.WithString("location",
					mcp.Description("Event location"),
				),
				mcp.WithArray("attendees",
					mcp.Description("Attendee emails"),
					mcp.Items(map[string]any{"type": "string"}),
				),
			),
		},
		{
			service: "calendar",
			write:   true,
			tool: mcp.NewTool("calendar_delete_event",
				mcp.WithDescription("Delete a calendar event"),
				accountArg(),
				mcp.WithString("event_id",
					mcp.Required(),
					mcp.Description("Event ID"),
				),
				mcp.WithString("calendar_id",
					mcp.Description("Calendar ID (default: 'primary')"),
				),
			),
		},
	}
}
