package gmail

import (
	"encoding/base64"
	"strings"

	gmail "google.golang.org/api/gmail/v1"
)

// Message is the normalized view of a Gmail message: the identifying ids,
// the routing headers a caller actually reads, and the plain-text body.
type Message struct {
	ID       string `json:"id"`
	ThreadID string `json:"threadId"`
	Snippet  string `json:"snippet,omitempty"`
	From     string `json:"from,omitempty"`
	To       string `json:"to,omitempty"`
	Subject  string `json:"subject,omitempty"`
	Date     string `json:"date,omitempty"`
	Body     string `json:"body,omitempty"`
}

// SendResult reports a sent message's identifiers.
type SendResult struct {
	ID       string `json:"id"`
	ThreadID string `json:"threadId"`
}

// SendInput collects the fields of an outgoing plain-text mail.
type SendInput struct {
	To      string
	Subject string
	Body    string
	CC      string
	BCC     string
}

// toMessage converts an API message in full format to the normalized view.
func toMessage(m *gmail.Message) Message {
	if m == nil {
		return Message{}
	}

	msg := Message{
		ID:       m.Id,
		ThreadID: m.ThreadId,
		Snippet:  m.Snippet,
	}

	if m.Payload != nil {
		for _, h := range m.Payload.Headers {
			switch strings.ToLower(h.Name) {
			case "from":
				msg.From = h.Value
			case "to":
				msg.To = h.Value
			case "subject":
				msg.Subject = h.Value
			case "date":
				msg.Date = h.Value
			}
		}
		msg.Body = messageBody(m.Payload)
	}

	return msg
}

// messageBody walks the MIME tree and returns the first text/plain part.
// Single-part messages carry the body directly on the payload.
func messageBody(payload *gmail.MessagePart) string {
	if payload == nil {
		return ""
	}

	if len(payload.Parts) > 0 {
		for _, part := range payload.Parts {
			if part.MimeType == "text/plain" && part.Body != nil && part.Body.Data != "" {
				return decodeBody(part.Body.Data)
			}
			if len(part.Parts) > 0 {
				if body := messageBody(part); body != "" {
					return body
				}
			}
		}
		return ""
	}

	if payload.Body != nil && payload.Body.Data != "" {
		return decodeBody(payload.Body.Data)
	}
	return ""
}

// decodeBody decodes the API's URL-safe base64 body data, tolerating both
// padded and unpadded forms.
func decodeBody(data string) string {
	if b, err := base64.URLEncoding.DecodeString(data); err == nil {
		return string(b)
	}
	if b, err := base64.RawURLEncoding.DecodeString(data); err == nil {
		return string(b)
	}
	return ""
}

// buildRaw assembles an RFC 822 plain-text message and encodes it the way
// the send endpoint expects.
func buildRaw(in SendInput) string {
	var sb strings.Builder
	sb.WriteString("To: " + in.To + "\r\n")
	if in.CC != "" {
		sb.WriteString("Cc: " + in.CC + "\r\n")
	}
	if in.BCC != "" {
		sb.WriteString("Bcc: " + in.BCC + "\r\n")
	}
	sb.WriteString("Subject: " + in.Subject + "\r\n")
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(in.Body)
	return base64.RawURLEncoding.EncodeToString([]byte(sb.String()))
}
