package calendar

import (
	"context"
	"fmt"
	"net/http"
	"time"

	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// Event is the normalized view of a calendar event. Start and End hold the
// RFC 3339 timestamp for timed events or the bare date for all-day events.
type Event struct {
	ID          string   `json:"id"`
	Summary     string   `json:"summary"`
	Start       string   `json:"start,omitempty"`
	End         string   `json:"end,omitempty"`
	Description string   `json:"description,omitempty"`
	Location    string   `json:"location,omitempty"`
	Attendees   []string `json:"attendees,omitempty"`
	HTMLLink    string   `json:"htmlLink,omitempty"`
}

// EventInput collects the fields of a new event.
type EventInput struct {
	Summary     string
	StartTime   string
	EndTime     string
	Description string
	Location    string
	Attendees   []string
}

func toEvent(e *calendar.Event) Event {
	if e == nil {
		return Event{}
	}

	event := Event{
		ID:          e.Id,
		Summary:     e.Summary,
		Description: e.Description,
		Location:    e.Location,
		HTMLLink:    e.HtmlLink,
	}
	event.Start = eventTime(e.Start)
	event.End = eventTime(e.End)
	for _, a := range e.Attendees {
		event.Attendees = append(event.Attendees, a.Email)
	}
	return event
}

func eventTime(t *calendar.EventDateTime) string {
	if t == nil {
		return ""
	}
	if t.DateTime != "" {
		return t.DateTime
	}
	return t.Date
}

// Client wraps the Google Calendar service for one already-authenticated
// HTTP client.
type Client struct {
	svc *calendar.Service
}

// NewClient creates a Calendar client on top of the given HTTP client.
func NewClient(ctx context.Context, httpClient *http.Client) (*Client, error) {
	svc, err := calendar.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}
	return &Client{svc: svc}, nil
}

// ListEvents lists upcoming events in start-time order. An empty timeMin
// defaults to now so past events don't drown out the upcoming ones.
func (c *Client) ListEvents(ctx context.Context, calendarID string, maxResults int64, timeMin, timeMax string) ([]Event, error) {
	if calendarID == "" {
		calendarID = "primary"
	}
	if timeMin == "" {
		timeMin = time.Now().UTC().Format(time.RFC3339)
	}

	call := c.svc.Events.List(calendarID).
		MaxResults(maxResults).
		SingleEvents(true).
		OrderBy("startTime").
		TimeMin(timeMin).
		Context(ctx)
	if timeMax != "" {
		call = call.TimeMax(timeMax)
	}

	result, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	events := make([]Event, 0, len(result.Items))
	for _, e := range result.Items {
		events = append(events, toEvent(e))
	}
	return events, nil
}

// CreateEvent inserts a timed event with UTC timestamps.
func (c *Client) CreateEvent(ctx context.Context, calendarID string, in EventInput) (*Event, error) {
	if calendarID == "" {
		calendarID = "primary"
	}

	event := &calendar.Event{
		Summary:     in.Summary,
		Description: in.Description,
		Location:    in.Location,
		Start:       &calendar.EventDateTime{DateTime: in.StartTime, TimeZone: "UTC"},
		End:         &calendar.EventDateTime{DateTime: in.EndTime, TimeZone: "UTC"},
	}
	for _, email := range in.Attendees {
		event.Attendees = append(event.Attendees, &calendar.EventAttendee{Email: email})
	}

	created, err := c.svc.Events.Insert(calendarID, event).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	out := toEvent(created)
	return &out, nil
}

// DeleteEvent removes an event from the calendar.
func (c *Client) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	if calendarID == "" {
		calendarID = "primary"
	}

	if err := c.svc.Events.Delete(calendarID, eventID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to delete event %s: %w", eventID, err)
	}
	return nil
}
