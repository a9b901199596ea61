package forms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	forms "google.golang.org/api/forms/v1"

	"github.com/teemow/workspace-mcp/internal/gateway"
)

func TestBuildQuestion(t *testing.T) {
	tests := []struct {
		name    string
		in      QuestionInput
		check   func(t *testing.T, q *forms.Question)
		wantErr bool
	}{
		{
			name: "short answer",
			in:   QuestionInput{Title: "Name?", Type: TypeShortAnswer, Required: true},
			check: func(t *testing.T, q *forms.Question) {
				require.NotNil(t, q.TextQuestion)
				assert.False(t, q.TextQuestion.Paragraph)
				assert.True(t, q.Required)
			},
		},
		{
			name: "empty type defaults to short answer",
			in:   QuestionInput{Title: "Name?"},
			check: func(t *testing.T, q *forms.Question) {
				require.NotNil(t, q.TextQuestion)
				assert.False(t, q.TextQuestion.Paragraph)
			},
		},
		{
			name: "paragraph",
			in:   QuestionInput{Title: "Feedback?", Type: TypeParagraph},
			check: func(t *testing.T, q *forms.Question) {
				require.NotNil(t, q.TextQuestion)
				assert.True(t, q.TextQuestion.Paragraph)
			},
		},
		{
			name: "multiple choice",
			in:   QuestionInput{Title: "Pick one", Type: TypeMultipleChoice, Choices: []string{"a", "b"}},
			check: func(t *testing.T, q *forms.Question) {
				require.NotNil(t, q.ChoiceQuestion)
				assert.Equal(t, "RADIO", q.ChoiceQuestion.Type)
				require.Len(t, q.ChoiceQuestion.Options, 2)
				assert.Equal(t, "a", q.ChoiceQuestion.Options[0].Value)
			},
		},
		{
			name: "checkbox",
			in:   QuestionInput{Title: "Pick many", Type: TypeCheckbox, Choices: []string{"x"}},
			check: func(t *testing.T, q *forms.Question) {
				require.NotNil(t, q.ChoiceQuestion)
				assert.Equal(t, "CHECKBOX", q.ChoiceQuestion.Type)
			},
		},
		{
			name: "dropdown",
			in:   QuestionInput{Title: "Select", Type: TypeDropDown, Choices: []string{"x"}},
			check: func(t *testing.T, q *forms.Question) {
				require.NotNil(t, q.ChoiceQuestion)
				assert.Equal(t, "DROP_DOWN", q.ChoiceQuestion.Type)
			},
		},
		{
			name:    "choice type without choices",
			in:      QuestionInput{Title: "Pick one", Type: TypeMultipleChoice},
			wantErr: true,
		},
		{
			name:    "unknown type",
			in:      QuestionInput{Title: "?", Type: "ESSAY"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := buildQuestion(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, gateway.KindInvalidArguments, gateway.ErrorKind(err))
				return
			}
			require.NoError(t, err)
			tt.check(t, q)
		})
	}
}

func TestToResponse(t *testing.T) {
	r := toResponse(&forms.FormResponse{
		ResponseId:        "resp-1",
		CreateTime:        "2026-08-29T08:00:00Z",
		LastSubmittedTime: "2026-08-29T08:05:00Z",
		Answers: map[string]forms.Answer{
			"q1": {TextAnswers: &forms.TextAnswers{Answers: []*forms.TextAnswer{{Value: "yes"}}}},
			"q2": {TextAnswers: &forms.TextAnswers{Answers: []*forms.TextAnswer{{Value: "a"}, {Value: "b"}}}},
			"q3": {},
		},
	})

	assert.Equal(t, "resp-1", r.ResponseID)
	assert.Equal(t, []string{"yes"}, r.Answers["q1"])
	assert.Equal(t, []string{"a", "b"}, r.Answers["q2"])
	_, hasQ3 := r.Answers["q3"]
	assert.False(t, hasQ3, "answers without text are skipped")
}
