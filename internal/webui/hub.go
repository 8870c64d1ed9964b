// ABOUTME: Per-browser chat sessions, each owning one chat page
// ABOUTME: Sessions share an update broadcaster and are reaped after idling

package webui

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/2389/chat-summariser/internal/chat"
	"github.com/2389/chat-summariser/internal/events"
)

// DefaultIdleTimeout is how long a session without requests or open event
// streams is kept.
const DefaultIdleTimeout = 30 * time.Minute

// session is one browser's chat state.
type session struct {
	id   string
	page *chat.Page

	mu        sync.Mutex
	createdAt time.Time
	lastUsed  time.Time
	streams   int // open /ui/events connections
}

func (s *session) touch(now time.Time) {
	s.mu.Lock()
	s.lastUsed = now
	s.mu.Unlock()
}

func (s *session) attach() {
	s.mu.Lock()
	s.streams++
	s.mu.Unlock()
}

func (s *session) detach(now time.Time) {
	s.mu.Lock()
	s.streams--
	s.lastUsed = now
	s.mu.Unlock()
}

// idle reports whether the session has had no activity for longer than
// timeout and has no open event streams.
func (s *session) idle(now time.Time, timeout time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.streams == 0 && now.Sub(s.lastUsed) > timeout
}

// hubConfig configures each page the hub creates.
type hubConfig struct {
	DefaultTitle string
	Breakpoint   int
	IdleTimeout  time.Duration
	Logger       *slog.Logger
}

// sessionHub manages active browser sessions.
type sessionHub struct {
	client chat.Client
	cfg    hubConfig
	bus    *events.Broadcaster[chat.Update]
	logger *slog.Logger
	now    func() time.Time

	mu       sync.RWMutex
	sessions map[string]*session
	closed   bool
	cancel   context.CancelFunc
	done     chan struct{}
}

func newSessionHub(client chat.Client, cfg hubConfig) *sessionHub {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = DefaultIdleTimeout
	}
	ctx, cancel := context.WithCancel(context.Background())
	h := &sessionHub{
		client:   client,
		cfg:      cfg,
		bus:      events.NewBroadcaster[chat.Update](cfg.Logger),
		logger:   cfg.Logger.With("component", "sessions"),
		now:      time.Now,
		sessions: make(map[string]*session),
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	go h.cleanupLoop(ctx)
	return h
}

// cleanupLoop periodically removes idle sessions.
func (h *sessionHub) cleanupLoop(ctx context.Context) {
	defer close(h.done)

	interval := time.Minute
	if h.cfg.IdleTimeout < 2*interval {
		interval = h.cfg.IdleTimeout / 2
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.cleanupStaleSessions()
		}
	}
}

// cleanupStaleSessions closes and forgets sessions idle past the timeout.
func (h *sessionHub) cleanupStaleSessions() int {
	now := h.now()

	h.mu.Lock()
	var stale []*session
	for id, s := range h.sessions {
		if s.idle(now, h.cfg.IdleTimeout) {
			stale = append(stale, s)
			delete(h.sessions, id)
		}
	}
	h.mu.Unlock()

	for _, s := range stale {
		s.page.Close()
		h.logger.Debug("session expired", "session", s.id)
	}
	return len(stale)
}

// getOrCreate returns the session with the given id, creating it (and
// starting its first list fetch) when it does not exist. It returns nil once
// the hub is closed.
func (h *sessionHub) getOrCreate(id string) *session {
	now := h.now()

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	if s, ok := h.sessions[id]; ok {
		// cleanupStaleSessions checks idle under h.mu, so touch before unlocking.
		s.touch(now)
		h.mu.Unlock()
		return s
	}

	s := &session{
		id: id,
		page: chat.New(h.client, chat.Config{
			DefaultTitle: h.cfg.DefaultTitle,
			Breakpoint:   h.cfg.Breakpoint,
			Logger:       h.cfg.Logger,
			Bus:          h.bus,
			Key:          id,
		}),
		createdAt: now,
		lastUsed:  now,
	}
	h.sessions[id] = s
	h.mu.Unlock()

	h.logger.Debug("session created", "session", id)
	s.page.Refresh()
	return s
}

// get returns an existing session.
func (h *sessionHub) get(id string) (*session, bool) {
	now := h.now()

	h.mu.RLock()
	defer h.mu.RUnlock()
	s, ok := h.sessions[id]
	if ok {
		s.touch(now)
	}
	return s, ok
}

// count returns the number of live sessions.
func (h *sessionHub) count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Close closes all sessions, stops the cleanup goroutine and closes the
// broadcaster.
func (h *sessionHub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	sessions := h.sessions
	h.sessions = make(map[string]*session)
	h.mu.Unlock()

	h.cancel()
	<-h.done

	for _, s := range sessions {
		s.page.Close()
	}
	h.bus.Close()
}
