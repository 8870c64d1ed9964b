// ABOUTME: SQLite implementation of the Store interface using modernc.org/sqlite
// ABOUTME: Persists conversations and messages with automatic schema creation

package devserver

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore implements the Store interface using SQLite
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore opens (or creates) the database at path. Parent directories
// are created if needed and the schema is applied.
func NewSQLiteStore(path string, logger *slog.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "store")

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLiteStore{db: db, logger: logger}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Info("SQLite store initialized", "path", path)
	return s, nil
}

func (s *SQLiteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS conversations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'active',
			summary TEXT,
			created_at TEXT NOT NULL,
			ended_at TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_conversations_created
			ON conversations(created_at);

		CREATE TABLE IF NOT EXISTS messages (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			conversation_id INTEGER NOT NULL,
			sender TEXT NOT NULL,
			content TEXT NOT NULL,
			timestamp TEXT NOT NULL,
			FOREIGN KEY (conversation_id) REFERENCES conversations(id) ON DELETE CASCADE
		);

		CREATE INDEX IF NOT EXISTS idx_messages_conversation
			ON messages(conversation_id, id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	s.logger.Info("closing SQLite store")
	return s.db.Close()
}

// CreateConversation inserts a new active conversation.
func (s *SQLiteStore) CreateConversation(ctx context.Context, title string) (*Conversation, error) {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO conversations (title, status, created_at) VALUES (?, ?, ?)`,
		title, StatusActive, now.Format(timeLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting conversation: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading conversation id: %w", err)
	}

	s.logger.Debug("created conversation", "id", id)
	return &Conversation{ID: id, Title: title, Status: StatusActive, CreatedAt: now}, nil
}

// GetConversation returns a conversation, or ErrNotFound.
func (s *SQLiteStore) GetConversation(ctx context.Context, id int64) (*Conversation, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, status, summary, created_at, ended_at
		FROM conversations
		WHERE id = ?
	`, id)

	c, err := scanConversation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying conversation: %w", err)
	}
	return c, nil
}

// ListConversations returns every conversation, newest first.
func (s *SQLiteStore) ListConversations(ctx context.Context) ([]*Conversation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, status, summary, created_at, ended_at
		FROM conversations
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying conversations: %w", err)
	}
	defer rows.Close()

	convs := []*Conversation{}
	for rows.Next() {
		c, err := scanConversation(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning conversation row: %w", err)
		}
		convs = append(convs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating conversation rows: %w", err)
	}
	return convs, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanConversation(sc scanner) (*Conversation, error) {
	var (
		c         Conversation
		summary   sql.NullString
		createdAt string
		endedAt   sql.NullString
	)
	if err := sc.Scan(&c.ID, &c.Title, &c.Status, &summary, &createdAt, &endedAt); err != nil {
		return nil, err
	}

	var err error
	c.CreatedAt, err = time.Parse(timeLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if summary.Valid {
		c.Summary = &summary.String
	}
	if endedAt.Valid {
		t, err := time.Parse(timeLayout, endedAt.String)
		if err != nil {
			return nil, fmt.Errorf("parsing ended_at: %w", err)
		}
		c.EndedAt = &t
	}
	return &c, nil
}

// AddMessage appends a message to a conversation.
func (s *SQLiteStore) AddMessage(ctx context.Context, conversationID int64, sender, content string) (*Message, error) {
	if _, err := s.GetConversation(ctx, conversationID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (conversation_id, sender, content, timestamp) VALUES (?, ?, ?, ?)`,
		conversationID, sender, content, now.Format(timeLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting message: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading message id: %w", err)
	}

	s.logger.Debug("saved message", "id", id, "conversation_id", conversationID, "sender", sender)
	return &Message{
		ID:             id,
		ConversationID: conversationID,
		Sender:         sender,
		Content:        content,
		Timestamp:      now,
	}, nil
}

// Messages returns a conversation's messages, oldest first.
func (s *SQLiteStore) Messages(ctx context.Context, conversationID int64) ([]*Message, error) {
	if _, err := s.GetConversation(ctx, conversationID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, conversation_id, sender, content, timestamp
		FROM messages
		WHERE conversation_id = ?
		ORDER BY id ASC
	`, conversationID)
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}
	defer rows.Close()

	msgs := []*Message{}
	for rows.Next() {
		var msg Message
		var ts string
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &msg.Sender, &msg.Content, &ts); err != nil {
			return nil, fmt.Errorf("scanning message row: %w", err)
		}
		msg.Timestamp, err = time.Parse(timeLayout, ts)
		if err != nil {
			return nil, fmt.Errorf("parsing timestamp: %w", err)
		}
		msgs = append(msgs, &msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating message rows: %w", err)
	}
	return msgs, nil
}

// EndConversation marks a conversation ended with the given summary.
func (s *SQLiteStore) EndConversation(ctx context.Context, id int64, summary string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE conversations
		SET status = ?, summary = ?, ended_at = ?
		WHERE id = ?
	`, StatusEnded, summary, time.Now().UTC().Format(timeLayout), id)
	if err != nil {
		return fmt.Errorf("updating conversation: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
