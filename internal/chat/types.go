package chat

import (
	chat "google.golang.org/api/chat/v1"
)

// Space is the normalized view of a Chat space.
type Space struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	Type        string `json:"type,omitempty"`
	SpaceType   string `json:"spaceType,omitempty"`
}

// Message is the normalized view of a Chat message.
type Message struct {
	Name       string `json:"name"`
	Text       string `json:"text,omitempty"`
	Sender     string `json:"sender,omitempty"`
	CreateTime string `json:"createTime,omitempty"`
	ThreadName string `json:"threadName,omitempty"`
}

func toSpace(s *chat.Space) Space {
	if s == nil {
		return Space{}
	}
	return Space{
		Name:        s.Name,
		DisplayName: s.DisplayName,
		Type:        s.Type,
		SpaceType:   s.SpaceType,
	}
}

func toMessage(m *chat.Message) Message {
	if m == nil {
		return Message{}
	}
	msg := Message{
		Name:       m.Name,
		Text:       m.Text,
		CreateTime: m.CreateTime,
	}
	if m.Sender != nil {
		msg.Sender = m.Sender.DisplayName
	}
	if m.Thread != nil {
		msg.ThreadName = m.Thread.Name
	}
	return msg
}
