// ABOUTME: In-memory Store implementation
// ABOUTME: Default backing for the development backend and its tests

package devserver

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store.
type MemoryStore struct {
	mu       sync.RWMutex
	nextConv int64
	nextMsg  int64
	convs    map[int64]*Conversation
	messages map[int64][]*Message // keyed by conversation ID
	now      func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		convs:    make(map[int64]*Conversation),
		messages: make(map[int64][]*Message),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// CreateConversation stores a new active conversation.
func (m *MemoryStore) CreateConversation(ctx context.Context, title string) (*Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextConv++
	c := &Conversation{
		ID:        m.nextConv,
		Title:     title,
		Status:    StatusActive,
		CreatedAt: m.now(),
	}
	m.convs[c.ID] = c

	out := *c
	return &out, nil
}

// GetConversation returns a copy of the conversation, or ErrNotFound.
func (m *MemoryStore) GetConversation(ctx context.Context, id int64) (*Conversation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.convs[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *c
	return &out, nil
}

// ListConversations returns copies of every conversation, newest first.
func (m *MemoryStore) ListConversations(ctx context.Context) ([]*Conversation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Conversation, 0, len(m.convs))
	for _, c := range m.convs {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// AddMessage appends a message to a conversation.
func (m *MemoryStore) AddMessage(ctx context.Context, conversationID int64, sender, content string) (*Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.convs[conversationID]; !ok {
		return nil, ErrNotFound
	}
	m.nextMsg++
	msg := &Message{
		ID:             m.nextMsg,
		ConversationID: conversationID,
		Sender:         sender,
		Content:        content,
		Timestamp:      m.now(),
	}
	m.messages[conversationID] = append(m.messages[conversationID], msg)

	out := *msg
	return &out, nil
}

// Messages returns copies of a conversation's messages, oldest first.
func (m *MemoryStore) Messages(ctx context.Context, conversationID int64) ([]*Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.convs[conversationID]; !ok {
		return nil, ErrNotFound
	}
	msgs := m.messages[conversationID]
	out := make([]*Message, len(msgs))
	for i, msg := range msgs {
		cp := *msg
		out[i] = &cp
	}
	return out, nil
}

// EndConversation marks a conversation ended with the given summary.
func (m *MemoryStore) EndConversation(ctx context.Context, id int64, summary string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.convs[id]
	if !ok {
		return ErrNotFound
	}
	now := m.now()
	c.Status = StatusEnded
	c.Summary = &summary
	c.EndedAt = &now
	return nil
}

// Close is a no-op.
func (m *MemoryStore) Close() error {
	return nil
}
