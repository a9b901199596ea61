package docs

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	docs "google.golang.org/api/docs/v1"
	"google.golang.org/api/option"
)

// Document is the normalized view of a Google Doc.
type Document struct {
	ID      string `json:"documentId"`
	Title   string `json:"title"`
	Content string `json:"content,omitempty"`
	URL     string `json:"documentUrl"`
}

func documentURL(id string) string {
	return fmt.Sprintf("https://docs.google.com/document/d/%s/edit", id)
}

// extractText flattens the document body into plain text by joining the
// text runs of every paragraph.
func extractText(body *docs.Body) string {
	if body == nil {
		return ""
	}

	var sb strings.Builder
	for _, element := range body.Content {
		if element.Paragraph == nil {
			continue
		}
		for _, e := range element.Paragraph.Elements {
			if e.TextRun != nil {
				sb.WriteString(e.TextRun.Content)
			}
		}
	}
	return sb.String()
}

// endIndex returns the body's end index. A fresh document's body ends at
// index 1 (the trailing newline of the empty first paragraph).
func endIndex(body *docs.Body) int64 {
	if body == nil || len(body.Content) == 0 {
		return 1
	}
	return body.Content[len(body.Content)-1].EndIndex
}

// Client wraps the Google Docs service for one already-authenticated HTTP
// client.
type Client struct {
	svc *docs.Service
}

// NewClient creates a Docs client on top of the given HTTP client.
func NewClient(ctx context.Context, httpClient *http.Client) (*Client, error) {
	svc, err := docs.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Docs service: %w", err)
	}
	return &Client{svc: svc}, nil
}

// CreateDocument creates an empty document with the given title.
func (c *Client) CreateDocument(ctx context.Context, title string) (*Document, error) {
	created, err := c.svc.Documents.Create(&docs.Document{Title: title}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create document: %w", err)
	}
	return &Document{
		ID:    created.DocumentId,
		Title: created.Title,
		URL:   documentURL(created.DocumentId),
	}, nil
}

// GetDocument retrieves a document with its body flattened to plain text.
func (c *Client) GetDocument(ctx context.Context, documentID string) (*Document, error) {
	doc, err := c.svc.Documents.Get(documentID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get document %s: %w", documentID, err)
	}
	return &Document{
		ID:      doc.DocumentId,
		Title:   doc.Title,
		Content: extractText(doc.Body),
		URL:     documentURL(doc.DocumentId),
	}, nil
}

// InsertText inserts text at the given body index. Index 1 is the start of
// the document.
func (c *Client) InsertText(ctx context.Context, documentID, text string, index int64) error {
	req := &docs.BatchUpdateDocumentRequest{
		Requests: []*docs.Request{{
			InsertText: &docs.InsertTextRequest{
				Location: &docs.Location{Index: index},
				Text:     text,
			},
		}},
	}

	if _, err := c.svc.Documents.BatchUpdate(documentID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to insert text into document %s: %w", documentID, err)
	}
	return nil
}

// AppendText inserts text just before the document's final newline. The end
// index is read first, so the append is not atomic against concurrent
// edits.
func (c *Client) AppendText(ctx context.Context, documentID, text string) error {
	doc, err := c.svc.Documents.Get(documentID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to get document %s: %w", documentID, err)
	}

	return c.InsertText(ctx, documentID, text, endIndex(doc.Body)-1)
}
