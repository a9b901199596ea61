package forms

import (
	"context"
	"fmt"
	"net/http"

	forms "google.golang.org/api/forms/v1"
	"google.golang.org/api/option"
)

// Form reports a form's identity and public responder link.
type Form struct {
	ID           string `json:"formId"`
	Title        string `json:"title"`
	ResponderURI string `json:"responderUri,omitempty"`
}

// Question identifies one question on a form.
type Question struct {
	QuestionID string `json:"questionId"`
	Title      string `json:"title"`
	Required   bool   `json:"required"`
}

// Response is one submitted form response with its text answers keyed by
// question id.
type Response struct {
	ResponseID        string              `json:"responseId"`
	CreateTime        string              `json:"createTime,omitempty"`
	LastSubmittedTime string              `json:"lastSubmittedTime,omitempty"`
	Answers           map[string][]string `json:"answers"`
}

// Client wraps the Google Forms service for one already-authenticated HTTP
// client.
type Client struct {
	svc *forms.Service
}

// NewClient creates a Forms client on top of the given HTTP client.
func NewClient(ctx context.Context, httpClient *http.Client) (*Client, error) {
	svc, err := forms.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Forms service: %w", err)
	}
	return &Client{svc: svc}, nil
}

// CreateForm creates an empty form with the given title.
func (c *Client) CreateForm(ctx context.Context, title, documentTitle string) (*Form, error) {
	body := &forms.Form{
		Info: &forms.Info{Title: title},
	}
	if documentTitle != "" {
		body.Info.DocumentTitle = documentTitle
	}

	created, err := c.svc.Forms.Create(body).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create form: %w", err)
	}

	result := &Form{ID: created.FormId, ResponderURI: created.ResponderUri}
	if created.Info != nil {
		result.Title = created.Info.Title
	}
	return result, nil
}

// AddQuestion prepends a question to the form. Choice-based question types
// require at least one choice.
func (c *Client) AddQuestion(ctx context.Context, formID string, in QuestionInput) error {
	question, err := buildQuestion(in)
	if err != nil {
		return err
	}

	req := &forms.BatchUpdateFormRequest{
		Requests: []*forms.Request{{
			CreateItem: &forms.CreateItemRequest{
				Item: &forms.Item{
					Title:        in.Title,
					QuestionItem: &forms.QuestionItem{Question: question},
				},
				Location: &forms.Location{
					Index:           0,
					ForceSendFields: []string{"Index"},
				},
			},
		}},
	}

	if _, err := c.svc.Forms.BatchUpdate(formID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to add question to form %s: %w", formID, err)
	}
	return nil
}

// GetResponses lists all submitted responses of a form, reduced to their
// text answers.
func (c *Client) GetResponses(ctx context.Context, formID string) ([]Response, error) {
	result, err := c.svc.Forms.Responses.List(formID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list responses of form %s: %w", formID, err)
	}

	responses := make([]Response, 0, len(result.Responses))
	for _, r := range result.Responses {
		responses = append(responses, toResponse(r))
	}
	return responses, nil
}

func toResponse(r *forms.FormResponse) Response {
	if r == nil {
		return Response{}
	}

	resp := Response{
		ResponseID:        r.ResponseId,
		CreateTime:        r.CreateTime,
		LastSubmittedTime: r.LastSubmittedTime,
		Answers:           make(map[string][]string),
	}
	for questionID, answer := range r.Answers {
		if answer.TextAnswers == nil {
			continue
		}
		values := make([]string, 0, len(answer.TextAnswers.Answers))
		for _, a := range answer.TextAnswers.Answers {
			values = append(values, a.Value)
		}
		resp.Answers[questionID] = values
	}
	return resp
}
