package calendar

import (
	"context"
	"net/http"
	"time"

	"github.com/teemow/workspace-mcp/internal/gateway"
)

// Adapter routes calendar tool invocations onto the client.
type Adapter struct{}

// NewAdapter creates the calendar service adapter.
func NewAdapter() *Adapter { return &Adapter{} }

// Service implements gateway.ServiceAdapter.
func (*Adapter) Service() string { return "calendar" }

// Invoke implements gateway.ServiceAdapter.
func (*Adapter) Invoke(ctx context.Context, httpClient *http.Client, inv gateway.Invocation) (any, error) {
	c, err := NewClient(ctx, httpClient)
	if err != nil {
		return nil, err
	}
	args := inv.Arguments

	switch inv.Tool {
	case "calendar_list_events":
		timeMin := args.String("time_min", "")
		timeMax := args.String("time_max", "")
		for name, v := range map[string]string{"time_min": timeMin, "time_max": timeMax} {
			if v != "" {
				if _, err := time.Parse(time.RFC3339, v); err != nil {
					return nil, gateway.InvalidArgument("%s is not an RFC 3339 timestamp: %q", name, v)
				}
			}
		}
		return c.ListEvents(ctx,
			args.String("calendar_id", "primary"),
			int64(args.Int("max_results", 10)),
			timeMin, timeMax)

	case "calendar_create_event":
		summary, err := args.RequiredString("summary")
		if err != nil {
			return nil, err
		}
		startTime, err := args.RequiredString("start_time")
		if err != nil {
			return nil, err
		}
		endTime, err := args.RequiredString("end_time")
		if err != nil {
			return nil, err
		}
		for name, v := range map[string]string{"start_time": startTime, "end_time": endTime} {
			if _, err := time.Parse(time.RFC3339, v); err != nil {
				return nil, gateway.InvalidArgument("%s is not an RFC 3339 timestamp: %q", name, v)
			}
		}
		return c.CreateEvent(ctx, args.String("calendar_id", "primary"), EventInput{
			Summary:     summary,
			StartTime:   startTime,
			EndTime:     endTime,
			Description: args.String("description", ""),
			Location:    args.String("location", ""),
			Attendees:   args.StringSlice("attendees"),
		})

	case "calendar_delete_event":
		eventID, err := args.RequiredString("event_id")
		if err != nil {
			return nil, err
		}
		calendarID := args.String("calendar_id", "primary")
		if err := c.DeleteEvent(ctx, calendarID, eventID); err != nil {
			return nil, err
		}
		return map[string]any{"deleted": true, "event_id": eventID}, nil

	default:
		return nil, gateway.InvalidArgument("unknown calendar tool %q", inv.Tool)
	}
}
