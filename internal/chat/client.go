package chat

import (
	"context"
	"fmt"
	"net/http"

	chat "google.golang.org/api/chat/v1"
	"google.golang.org/api/option"
)

// Client wraps the Google Chat service for one already-authenticated HTTP
// client.
type Client struct {
	svc *chat.Service
}

// NewClient creates a Chat client on top of the given HTTP client.
func NewClient(ctx context.Context, httpClient *http.Client) (*Client, error) {
	svc, err := chat.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Chat service: %w", err)
	}
	return &Client{svc: svc}, nil
}

// ListSpaces lists spaces the authenticated user is a member of.
func (c *Client) ListSpaces(ctx context.Context, maxResults int64) ([]Space, error) {
	result, err := c.svc.Spaces.List().PageSize(maxResults).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list spaces: %w", err)
	}

	spaces := make([]Space, 0, len(result.Spaces))
	for _, s := range result.Spaces {
		spaces = append(spaces, toSpace(s))
	}
	return spaces, nil
}

// SendMessage posts a text message into a space. A non-empty threadKey
// threads the message instead of starting a new topic.
func (c *Client) SendMessage(ctx context.Context, space, text, threadKey string) (*Message, error) {
	body := &chat.Message{Text: text}
	if threadKey != "" {
		body.Thread = &chat.Thread{ThreadKey: threadKey}
	}

	sent, err := c.svc.Spaces.Messages.Create(space, body).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to send message to %s: %w", space, err)
	}
	msg := toMessage(sent)
	return &msg, nil
}

// ListMessages lists the most recent messages in a space.
func (c *Client) ListMessages(ctx context.Context, space string, maxResults int64) ([]Message, error) {
	result, err := c.svc.Spaces.Messages.List(space).PageSize(maxResults).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list messages in %s: %w", space, err)
	}

	messages := make([]Message, 0, len(result.Messages))
	for _, m := range result.Messages {
		messages = append(messages, toMessage(m))
	}
	return messages, nil
}
