package sheets

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"
)

// userEntered makes the API parse written values as if typed into the UI.
const userEntered = "USER_ENTERED"

// Client wraps the Google Sheets service for one already-authenticated HTTP
// client.
type Client struct {
	svc *sheets.Service
}

// NewClient creates a Sheets client on top of the given HTTP client.
func NewClient(ctx context.Context, httpClient *http.Client) (*Client, error) {
	svc, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Sheets service: %w", err)
	}
	return &Client{svc: svc}, nil
}

// Spreadsheet reports a created spreadsheet's identity.
type Spreadsheet struct {
	ID    string `json:"spreadsheetId"`
	URL   string `json:"spreadsheetUrl"`
	Title string `json:"title"`
}

// ValueRange holds values read from a range.
type ValueRange struct {
	Range  string  `json:"range"`
	Values [][]any `json:"values"`
}

// WriteResult reports the extent of a write.
type WriteResult struct {
	UpdatedCells int64  `json:"updatedCells"`
	UpdatedRange string `json:"updatedRange"`
}

// CreateSpreadsheet creates a spreadsheet, optionally with named sheets
// instead of the default single sheet.
func (c *Client) CreateSpreadsheet(ctx context.Context, title string, sheetNames []string) (*Spreadsheet, error) {
	body := &sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{Title: title},
	}
	for _, name := range sheetNames {
		body.Sheets = append(body.Sheets, &sheets.Sheet{
			Properties: &sheets.SheetProperties{Title: name},
		})
	}

	created, err := c.svc.Spreadsheets.Create(body).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create spreadsheet: %w", err)
	}

	result := &Spreadsheet{ID: created.SpreadsheetId, URL: created.SpreadsheetUrl}
	if created.Properties != nil {
		result.Title = created.Properties.Title
	}
	return result, nil
}

// GetValues reads the values of an A1 range.
func (c *Client) GetValues(ctx context.Context, spreadsheetID, rangeName string) (*ValueRange, error) {
	result, err := c.svc.Spreadsheets.Values.Get(spreadsheetID, rangeName).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get values for %s: %w", rangeName, err)
	}

	values := result.Values
	if values == nil {
		values = [][]any{}
	}
	return &ValueRange{Range: result.Range, Values: values}, nil
}

// UpdateValues overwrites an A1 range with the given value grid.
func (c *Client) UpdateValues(ctx context.Context, spreadsheetID, rangeName string, values [][]any) (*WriteResult, error) {
	body := &sheets.ValueRange{Values: values}

	result, err := c.svc.Spreadsheets.Values.Update(spreadsheetID, rangeName, body).
		ValueInputOption(userEntered).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to update values in %s: %w", rangeName, err)
	}
	return &WriteResult{UpdatedCells: result.UpdatedCells, UpdatedRange: result.UpdatedRange}, nil
}

// AppendValues appends rows after the last data row of the range's table.
func (c *Client) AppendValues(ctx context.Context, spreadsheetID, rangeName string, values [][]any) (*WriteResult, error) {
	body := &sheets.ValueRange{Values: values}

	result, err := c.svc.Spreadsheets.Values.Append(spreadsheetID, rangeName, body).
		ValueInputOption(userEntered).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to append values to %s: %w", rangeName, err)
	}

	out := &WriteResult{}
	if result.Updates != nil {
		out.UpdatedCells = result.Updates.UpdatedCells
		out.UpdatedRange = result.Updates.UpdatedRange
	}
	return out, nil
}
