package forms

import (
	forms "google.golang.org/api/forms/v1"

	"github.com/teemow/workspace-mcp/internal/gateway"
)

// Question types accepted by AddQuestion.
const (
	TypeShortAnswer    = "SHORT_ANSWER"
	TypeParagraph      = "PARAGRAPH"
	TypeMultipleChoice = "MULTIPLE_CHOICE"
	TypeCheckbox       = "CHECKBOX"
	TypeDropDown       = "DROP_DOWN"
)

// QuestionInput describes a question to add to a form.
type QuestionInput struct {
	Title    string
	Type     string
	Required bool
	Choices  []string
}

// choiceTypes maps the accepted choice question types to the API's widget
// type.
var choiceTypes = map[string]string{
	TypeMultipleChoice: "RADIO",
	TypeCheckbox:       "CHECKBOX",
	TypeDropDown:       "DROP_DOWN",
}

func buildQuestion(in QuestionInput) (*forms.Question, error) {
	q := &forms.Question{Required: in.Required}

	switch in.Type {
	case TypeShortAnswer, "":
		q.TextQuestion = &forms.TextQuestion{Paragraph: false}

	case TypeParagraph:
		q.TextQuestion = &forms.TextQuestion{Paragraph: true}

	case TypeMultipleChoice, TypeCheckbox, TypeDropDown:
		if len(in.Choices) == 0 {
			return nil, gateway.InvalidArgument("question type %s requires choices", in.Type)
		}
		options := make([]*forms.Option, 0, len(in.Choices))
		for _, choice := range in.Choices {
			options = append(options, &forms.Option{Value: choice})
		}
		q.ChoiceQuestion = &forms.ChoiceQuestion{
			Type:    choiceTypes[in.Type],
			Options: options,
		}

	default:
		return nil, gateway.InvalidArgument("unknown question type %q", in.Type)
	}

	return q, nil
}
