package gmail

import (
	"context"
	"fmt"
	"net/http"

	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// Client wraps the Gmail Users service for one already-authenticated HTTP
// client.
type Client struct {
	svc *gmail.UsersService
}

// NewClient creates a Gmail client on top of the given HTTP client. The
// client must already carry the bearer token for the target account.
func NewClient(ctx context.Context, httpClient *http.Client) (*Client, error) {
	svc, err := gmail.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}
	return &Client{svc: svc.Users}, nil
}

// ListMessages lists up to maxResults messages matching the query and label
// filters, hydrating each listed id into a full message.
func (c *Client) ListMessages(ctx context.Context, maxResults int64, query string, labelIDs []string) ([]Message, error) {
	call := c.svc.Messages.List("me").MaxResults(maxResults).Context(ctx)
	if query != "" {
		call = call.Q(query)
	}
	if len(labelIDs) > 0 {
		call = call.LabelIds(labelIDs...)
	}

	result, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	messages := make([]Message, 0, len(result.Messages))
	for _, ref := range result.Messages {
		msg, err := c.GetMessage(ctx, ref.Id)
		if err != nil {
			return nil, err
		}
		messages = append(messages, *msg)
	}
	return messages, nil
}

// GetMessage retrieves one message in full format.
func (c *Client) GetMessage(ctx context.Context, messageID string) (*Message, error) {
	m, err := c.svc.Messages.Get("me", messageID).Format("full").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get message %s: %w", messageID, err)
	}
	msg := toMessage(m)
	return &msg, nil
}

// SendMessage sends a plain-text mail and returns the new message's ids.
func (c *Client) SendMessage(ctx context.Context, in SendInput) (*SendResult, error) {
	sent, err := c.svc.Messages.Send("me", &gmail.Message{Raw: buildRaw(in)}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}
	return &SendResult{ID: sent.Id, ThreadID: sent.ThreadId}, nil
}

// SearchMessages is ListMessages with a mandatory query.
func (c *Client) SearchMessages(ctx context.Context, query string, maxResults int64) ([]Message, error) {
	return c.ListMessages(ctx, maxResults, query, nil)
}
