// ABOUTME: Store interface and data types for the development backend
// ABOUTME: Conversations with integer ids and their ordered messages

package devserver

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested conversation does not exist
var ErrNotFound = errors.New("not found")

// Conversation status values
const (
	StatusActive = "active"
	StatusEnded  = "ended"
)

// Conversation is one stored chat session
type Conversation struct {
	ID        int64
	Title     string
	Status    string
	Summary   *string // nil until ended
	CreatedAt time.Time
	EndedAt   *time.Time
}

// Message is one stored message; Sender is "user" or "ai"
type Message struct {
	ID             int64
	ConversationID int64
	Sender         string
	Content        string
	Timestamp      time.Time
}

// Store persists conversations and messages.
type Store interface {
	CreateConversation(ctx context.Context, title string) (*Conversation, error)
	GetConversation(ctx context.Context, id int64) (*Conversation, error)
	// ListConversations returns every conversation, newest first.
	ListConversations(ctx context.Context) ([]*Conversation, error)
	AddMessage(ctx context.Context, conversationID int64, sender, content string) (*Message, error)
	// Messages returns a conversation's messages, oldest first.
	Messages(ctx context.Context, conversationID int64) ([]*Message, error)
	EndConversation(ctx context.Context, id int64, summary string) error
	Close() error
}
