// ABOUTME: Wire types for the conversation service REST contract
// ABOUTME: Conversation, Message and History plus the sender vocabulary

package api

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Sender identifies who authored a message.
type Sender string

const (
	SenderUser   Sender = "user"
	SenderAI     Sender = "ai"
	SenderSystem Sender = "system"
)

// Conversation status values reported by the service.
const (
	StatusActive = "active"
	StatusEnded  = "ended"
)

// ID is an opaque, server-assigned conversation identifier. The service may
// encode it as a JSON number or string; both decode to the same value.
type ID string

// UnmarshalJSON accepts both numeric and string identifiers.
func (id *ID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*id = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decoding conversation id %s: %w", data, err)
	}
	*id = ID(n.String())
	return nil
}

// MarshalJSON emits ids in canonical integer form ("42", not "007" or "+5")
// as JSON numbers, matching what the service sends; anything else is a string.
func (id ID) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(id) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id ID) String() string { return string(id) }

// Conversation is one chat session as listed by the service.
type Conversation struct {
	ID        ID     `json:"id"`
	Title     string `json:"title"`
	Summary   string `json:"summary,omitempty"`
	Status    string `json:"status,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// Ended reports whether the service has closed and summarized the conversation.
func (c Conversation) Ended() bool {
	return c.Status == StatusEnded || c.Summary != ""
}

// Message is a single chat message. Timestamp is kept as the ISO-8601 string
// the service (or the client, for optimistic entries) produced.
type Message struct {
	Sender    Sender `json:"sender"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

// Time parses Timestamp. The zero time is returned when it cannot be parsed.
func (m Message) Time() time.Time {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999"} {
		if t, err := time.Parse(layout, m.Timestamp); err == nil {
			return t
		}
	}
	return time.Time{}
}

// NewMessage builds a message stamped with the current time.
func NewMessage(sender Sender, content string) Message {
	return Message{
		Sender:    sender,
		Content:   content,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	}
}

// History is a conversation's metadata plus its ordered messages.
type History struct {
	Conversation
	Messages []Message `json:"messages"`
}

// historyResponse tolerates the service naming the id conversation_id.
type historyResponse struct {
	ID             ID        `json:"id"`
	ConversationID ID        `json:"conversation_id"`
	Title          string    `json:"title"`
	Summary        *string   `json:"summary"`
	Status         string    `json:"status"`
	Messages       []Message `json:"messages"`
}

func (r historyResponse) toHistory() *History {
	h := &History{
		Conversation: Conversation{
			ID:     r.ID,
			Title:  r.Title,
			Status: r.Status,
		},
		Messages: r.Messages,
	}
	if h.ID == "" {
		h.ID = r.ConversationID
	}
	if r.Summary != nil {
		h.Summary = *r.Summary
	}
	if h.Messages == nil {
		h.Messages = []Message{}
	}
	return h
}

type createRequest struct {
	Title string `json:"title"`
}

type sendRequest struct {
	Sender  Sender `json:"sender"`
	Content string `json:"content"`
}

type sendResponse struct {
	AIResponse string `json:"ai_response"`
}

type endResponse struct {
	Summary string `json:"summary"`
}
