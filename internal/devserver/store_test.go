// ABOUTME: Store contract tests run against the memory and SQLite implementations
// ABOUTME: Covers create/get/list ordering, messages and ending

package devserver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storeFactories() map[string]func(t *testing.T) Store {
	return map[string]func(t *testing.T) Store{
		"memory": func(*testing.T) Store { return NewMemoryStore() },
		"sqlite": func(t *testing.T) Store {
			s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "dev.db"), nil)
			require.NoError(t, err)
			return s
		},
	}
}

func TestStore_Contract(t *testing.T) {
	for name, newStore := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			defer s.Close()
			ctx := t.Context()

			first, err := s.CreateConversation(ctx, "first")
			require.NoError(t, err)
			second, err := s.CreateConversation(ctx, "")
			require.NoError(t, err)
			assert.NotEqual(t, first.ID, second.ID)
			assert.Equal(t, StatusActive, first.Status)
			assert.Nil(t, first.Summary)

			list, err := s.ListConversations(ctx)
			require.NoError(t, err)
			require.Len(t, list, 2)
			assert.Equal(t, second.ID, list[0].ID, "newest first")
			assert.Equal(t, first.ID, list[1].ID)

			_, err = s.AddMessage(ctx, first.ID, "user", "Hello")
			require.NoError(t, err)
			_, err = s.AddMessage(ctx, first.ID, "ai", "Hi there!")
			require.NoError(t, err)

			msgs, err := s.Messages(ctx, first.ID)
			require.NoError(t, err)
			require.Len(t, msgs, 2)
			assert.Equal(t, "user", msgs[0].Sender)
			assert.Equal(t, "Hi there!", msgs[1].Content)

			empty, err := s.Messages(ctx, second.ID)
			require.NoError(t, err)
			assert.Empty(t, empty)

			require.NoError(t, s.EndConversation(ctx, first.ID, "Discussed pricing."))
			got, err := s.GetConversation(ctx, first.ID)
			require.NoError(t, err)
			assert.Equal(t, StatusEnded, got.Status)
			require.NotNil(t, got.Summary)
			assert.Equal(t, "Discussed pricing.", *got.Summary)
			assert.NotNil(t, got.EndedAt)
		})
	}
}

func TestStore_NotFound(t *testing.T) {
	for name, newStore := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			defer s.Close()
			ctx := t.Context()

			_, err := s.GetConversation(ctx, 999)
			assert.ErrorIs(t, err, ErrNotFound)
			_, err = s.AddMessage(ctx, 999, "user", "x")
			assert.ErrorIs(t, err, ErrNotFound)
			_, err = s.Messages(ctx, 999)
			assert.ErrorIs(t, err, ErrNotFound)
			assert.ErrorIs(t, s.EndConversation(ctx, 999, "x"), ErrNotFound)
		})
	}
}

func TestNewSQLiteStore_CreatesDirectoryAndPersists(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "dev.db")

	s, err := NewSQLiteStore(dbPath, nil)
	require.NoError(t, err)
	c, err := s.CreateConversation(t.Context(), "kept")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = os.Stat(dbPath)
	require.NoError(t, err)

	reopened, err := NewSQLiteStore(dbPath, nil)
	require.NoError(t, err)
	defer reopened.Close()
	got, err := reopened.GetConversation(t.Context(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, "kept", got.Title)
}
