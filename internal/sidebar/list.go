// ABOUTME: Conversation list view: fetched listing, active marker and panel state
// ABOUTME: Reports selection and creation upward through callbacks

package sidebar

import (
	"context"
	"log/slog"
	"sync"

	"github.com/2389/chat-summariser/internal/api"
)

// DefaultBreakpoint is the viewport width below which selecting a conversation
// collapses the panel.
const DefaultBreakpoint = 768

const previewRunes = 40

// Lister fetches every known conversation.
type Lister interface {
	ListAllConversations(ctx context.Context) ([]api.Conversation, error)
}

// Listener observes list outcomes.
type Listener interface {
	ListChanged()
	ListFailed(err error)
}

type nopListener struct{}

func (nopListener) ListChanged()     {}
func (nopListener) ListFailed(error) {}

// SelectFunc is invoked when the user picks a conversation.
type SelectFunc func(ctx context.Context, id api.ID)

// CreateFunc is invoked when the user asks for a new conversation.
type CreateFunc func(ctx context.Context)

// Item is one rendered row.
type Item struct {
	ID        api.ID
	Label     string
	Preview   string
	Active    bool
	Ended     bool
	CreatedAt string
}

// Option configures a List.
type Option func(*List)

// WithBreakpoint overrides DefaultBreakpoint.
func WithBreakpoint(width int) Option {
	return func(l *List) {
		if width > 0 {
			l.breakpoint = width
		}
	}
}

// WithListener registers the outcome listener.
func WithListener(listener Listener) Option {
	return func(l *List) {
		if listener != nil {
			l.listener = listener
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *List) {
		if logger != nil {
			l.logger = logger.With("component", "sidebar")
		}
	}
}

// List is the conversation list view.
type List struct {
	lister     Lister
	listener   Listener
	logger     *slog.Logger
	breakpoint int

	mu        sync.Mutex
	convs     []api.Conversation
	shown     uint64
	loading   bool
	collapsed bool
	width     int
	active    api.ID
	onSelect  SelectFunc
	onCreate  CreateFunc
}

// New creates an empty list in the loading state.
func New(lister Lister, opts ...Option) *List {
	l := &List{
		lister:     lister,
		listener:   nopListener{},
		logger:     slog.Default().With("component", "sidebar"),
		breakpoint: DefaultBreakpoint,
		loading:    true,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// SetHandlers wires the upward callbacks. Either may be nil.
func (l *List) SetHandlers(onSelect SelectFunc, onCreate CreateFunc) {
	l.mu.Lock()
	l.onSelect = onSelect
	l.onCreate = onCreate
	l.mu.Unlock()
}

// Refresh fetches the listing once and replaces local state, unless a newer
// generation has already been displayed, in which case the result is dropped.
// A failed fetch keeps the last good listing.
func (l *List) Refresh(ctx context.Context, generation uint64) error {
	convs, err := l.lister.ListAllConversations(ctx)

	l.mu.Lock()
	l.loading = false
	if err != nil {
		l.mu.Unlock()
		l.logger.Error("failed to fetch conversations", "generation", generation, "error", err)
		l.listener.ListChanged()
		l.listener.ListFailed(err)
		return err
	}
	if generation < l.shown {
		l.mu.Unlock()
		l.logger.Debug("discarding stale listing", "generation", generation, "shown", l.shown)
		return nil
	}
	l.convs = convs
	l.shown = generation
	l.mu.Unlock()

	l.logger.Debug("conversations refreshed", "generation", generation, "count", len(convs))
	l.listener.ListChanged()
	return nil
}

// Loading reports whether no fetch has completed yet.
func (l *List) Loading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loading
}

// Generation returns the generation of the displayed listing.
func (l *List) Generation() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.shown
}

// SetActive marks the open conversation; the empty ID clears it. The listener
// hears about it only when the marker moves.
func (l *List) SetActive(id api.ID) {
	l.mu.Lock()
	changed := l.active != id
	l.active = id
	l.mu.Unlock()

	if changed {
		l.listener.ListChanged()
	}
}

// Items returns the rows in server order.
func (l *List) Items() []Item {
	l.mu.Lock()
	defer l.mu.Unlock()
	items := make([]Item, 0, len(l.convs))
	for _, c := range l.convs {
		items = append(items, Item{
			ID:        c.ID,
			Label:     Label(c),
			Preview:   Preview(c.Summary),
			Active:    l.active != "" && c.ID == l.active,
			Ended:     c.Status == api.StatusEnded,
			CreatedAt: c.CreatedAt,
		})
	}
	return items
}

// Find returns the listed conversation with the given ID.
func (l *List) Find(id api.ID) (api.Conversation, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, c := range l.convs {
		if c.ID == id {
			return c, true
		}
	}
	return api.Conversation{}, false
}

// SetViewportWidth records the renderer's width; zero means unknown (wide).
func (l *List) SetViewportWidth(width int) {
	l.mu.Lock()
	l.width = width
	l.mu.Unlock()
}

// Narrow reports whether the viewport is below the breakpoint.
func (l *List) Narrow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.narrowLocked()
}

func (l *List) narrowLocked() bool {
	return l.width > 0 && l.width < l.breakpoint
}

// Collapsed reports whether the panel is hidden.
func (l *List) Collapsed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.collapsed
}

// Toggle flips the panel open or closed and returns the new collapsed state.
func (l *List) Toggle() bool {
	l.mu.Lock()
	l.collapsed = !l.collapsed
	c := l.collapsed
	l.mu.Unlock()
	l.listener.ListChanged()
	return c
}

// Select reports a pick upward and collapses the panel on narrow viewports.
func (l *List) Select(ctx context.Context, id api.ID) {
	l.mu.Lock()
	onSelect := l.onSelect
	collapse := l.narrowLocked() && !l.collapsed
	if collapse {
		l.collapsed = true
	}
	l.mu.Unlock()

	if collapse {
		l.listener.ListChanged()
	}
	if onSelect != nil {
		onSelect(ctx, id)
	}
}

// Create reports a new-conversation request upward.
func (l *List) Create(ctx context.Context) {
	l.mu.Lock()
	onCreate := l.onCreate
	l.mu.Unlock()
	if onCreate != nil {
		onCreate(ctx)
	}
}

// Label is the row title: the conversation title, or "Chat <id>" when empty.
func Label(c api.Conversation) string {
	if c.Title != "" {
		return c.Title
	}
	return "Chat " + c.ID.String()
}

// Preview is the first 40 characters of a summary followed by "...", or ""
// when there is no summary.
func Preview(summary string) string {
	if summary == "" {
		return ""
	}
	r := []rune(summary)
	if len(r) > previewRunes {
		r = r[:previewRunes]
	}
	return string(r) + "..."
}
