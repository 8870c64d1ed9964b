// ABOUTME: Chat page orchestrator: open conversation, refresh counter and notices
// ABOUTME: Wires the list view's callbacks to the thread view and fans out updates

package chat

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/2389/chat-summariser/internal/api"
	"github.com/2389/chat-summariser/internal/events"
	"github.com/2389/chat-summariser/internal/sidebar"
	"github.com/2389/chat-summariser/internal/thread"
)

// DefaultTitle is the title new conversations are created with.
const DefaultTitle = "New Chat"

const maxNotices = 20

// Client is the API surface the page and its views use.
type Client interface {
	thread.Client
	sidebar.Lister
	CreateConversation(ctx context.Context, title string) (*api.Conversation, error)
}

// Config configures a Page. The zero value is usable.
type Config struct {
	DefaultTitle string
	Breakpoint   int
	Logger       *slog.Logger

	// Bus and Key let several pages share one broadcaster, each publishing
	// under its own key. A nil Bus gives the page a private one.
	Bus *events.Broadcaster[Update]
	Key string
}

// Page owns the open conversation and coordinates the list and thread views.
type Page struct {
	client       Client
	logger       *slog.Logger
	defaultTitle string
	key          string
	bus          *events.Broadcaster[Update]
	ownsBus      bool
	list         *sidebar.List

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	openID   api.ID
	th       *thread.Thread
	openGen  uint64
	openReq  uint64
	refresh  uint64
	creating bool
	notices  []Notice
	closed   bool
}

// New creates a page in the placeholder state. Call Refresh to load the list.
func New(client Client, cfg Config) *Page {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	title := cfg.DefaultTitle
	if title == "" {
		title = DefaultTitle
	}
	key := cfg.Key
	if key == "" {
		key = uuid.New().String()
	}

	p := &Page{
		client:       client,
		logger:       logger.With("component", "chat", "page", key),
		defaultTitle: title,
		key:          key,
		bus:          cfg.Bus,
	}
	if p.bus == nil {
		p.bus = events.NewBroadcaster[Update](logger)
		p.ownsBus = true
	}
	p.ctx, p.cancel = context.WithCancel(context.Background())

	p.list = sidebar.New(client,
		sidebar.WithBreakpoint(cfg.Breakpoint),
		sidebar.WithListener(listObserver{p}),
		sidebar.WithLogger(logger),
	)
	p.list.SetHandlers(
		func(ctx context.Context, id api.ID) { _ = p.OpenConversation(ctx, id) },
		func(ctx context.Context) { _ = p.StartConversation(ctx) },
	)
	return p
}

// Key identifies the page on its broadcaster.
func (p *Page) Key() string {
	return p.key
}

// List returns the conversation list view.
func (p *Page) List() *sidebar.List {
	return p.list
}

// Thread returns the open conversation's thread, or nil in the placeholder state.
func (p *Page) Thread() *thread.Thread {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.th
}

// OpenID returns the open conversation's ID, or "" when none is open.
func (p *Page) OpenID() api.ID {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.openID
}

// RefreshCount returns the refresh counter.
func (p *Page) RefreshCount() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.refresh
}

// Creating reports whether a StartConversation is in flight.
func (p *Page) Creating() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.creating
}

// Subscribe returns a channel of updates for this page. The subscription ends
// when ctx is cancelled or the page's broadcaster is closed.
func (p *Page) Subscribe(ctx context.Context) (<-chan Update, string) {
	return p.bus.Subscribe(ctx, p.key)
}

// Refresh increments the refresh counter and re-fetches the list in the
// background. Each call issues exactly one fetch.
func (p *Page) Refresh() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.refresh++
	gen := p.refresh
	p.wg.Add(1)
	p.mu.Unlock()

	go func() {
		defer p.wg.Done()
		_ = p.list.Refresh(p.ctx, gen)
	}()
}

// StartConversation creates a conversation with the default title, opens it
// with an empty sequence and refreshes the list.
func (p *Page) StartConversation(ctx context.Context) error {
	p.mu.Lock()
	p.creating = true
	p.openReq++
	req := p.openReq
	p.mu.Unlock()

	conv, err := p.client.CreateConversation(ctx, p.defaultTitle)

	p.mu.Lock()
	p.creating = false
	p.mu.Unlock()

	if err != nil {
		p.logger.Error("failed to start conversation", "error", err)
		p.notify(OpCreate, "", err)
		return err
	}

	p.logger.Info("conversation started", "conversation_id", conv.ID)
	p.open(req, *conv, nil)
	p.Refresh()
	return nil
}

// OpenConversation fetches a conversation's history and makes it the open one,
// replacing the previous sequence entirely. On failure nothing changes.
// When opens overlap, the most recently requested one wins.
func (p *Page) OpenConversation(ctx context.Context, id api.ID) error {
	p.mu.Lock()
	p.openReq++
	req := p.openReq
	p.mu.Unlock()

	hist, err := p.client.GetHistory(ctx, id)
	if err != nil {
		p.logger.Error("failed to load history", "conversation_id", id, "error", err)
		p.notify(OpHistory, id, err)
		return err
	}

	p.logger.Debug("conversation opened", "conversation_id", id, "messages", len(hist.Messages))
	p.open(req, hist.Conversation, hist.Messages)
	return nil
}

func (p *Page) open(req uint64, conv api.Conversation, history []api.Message) {
	p.mu.Lock()
	if req != p.openReq {
		p.mu.Unlock()
		p.logger.Debug("discarding superseded open", "conversation_id", conv.ID)
		return
	}
	p.openGen++
	obs := &threadObserver{page: p, gen: p.openGen}
	p.th = thread.New(p.client, conv, history, obs, p.logger)
	p.openID = conv.ID
	p.mu.Unlock()

	p.publish(Update{Kind: UpdateOpen, ConversationID: conv.ID})
	p.list.SetActive(conv.ID)
}

// Clear returns to the placeholder state. Nothing is deleted server-side.
func (p *Page) Clear() {
	p.mu.Lock()
	p.openID = ""
	p.th = nil
	p.openGen++
	p.openReq++
	p.mu.Unlock()

	p.publish(Update{Kind: UpdateOpen})
	p.list.SetActive("")
}

// Send sends text on the open conversation and waits for the outcome. It
// reports false when nothing was sent.
func (p *Page) Send(ctx context.Context, text string) bool {
	th := p.Thread()
	if th == nil {
		return false
	}
	return th.Send(ctx, text)
}

// SendAsync appends the user's entry immediately and completes the send in the
// background. It reports false when nothing was sent.
func (p *Page) SendAsync(text string) bool {
	th := p.Thread()
	if th == nil {
		return false
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return false
	}
	p.wg.Add(1)
	p.mu.Unlock()

	pending, ok := th.Begin(text)
	if !ok {
		p.wg.Done()
		return false
	}
	go func() {
		defer p.wg.Done()
		th.Complete(p.ctx, pending)
	}()
	return true
}

// End ends the open conversation. The list refreshes once the thread reports
// the end.
func (p *Page) End(ctx context.Context) error {
	th := p.Thread()
	if th == nil {
		return ErrNoConversation
	}
	return th.End(ctx)
}

// Notices returns recent failures, oldest first.
func (p *Page) Notices() []Notice {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Notice, len(p.notices))
	copy(out, p.notices)
	return out
}

// DismissNotices forgets all recorded notices.
func (p *Page) DismissNotices() {
	p.mu.Lock()
	p.notices = nil
	p.mu.Unlock()
	p.publish(Update{Kind: UpdateNotice})
}

// Wait blocks until background work started so far has finished.
func (p *Page) Wait() {
	p.wg.Wait()
}

// Close cancels background work, waits for it and closes a private broadcaster.
func (p *Page) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()

	p.cancel()
	p.wg.Wait()
	if p.ownsBus {
		p.bus.Close()
	}
}

func (p *Page) notify(op Op, id api.ID, err error) {
	n := newNotice(op, id, err)
	p.mu.Lock()
	p.notices = append(p.notices, n)
	if len(p.notices) > maxNotices {
		p.notices = p.notices[len(p.notices)-maxNotices:]
	}
	p.mu.Unlock()
	p.publish(Update{Kind: UpdateNotice, ConversationID: id, Notice: &n})
}

func (p *Page) publish(u Update) {
	p.bus.Publish(p.key, u, "")
}

func (p *Page) isCurrent(gen uint64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.openGen == gen
}

type listObserver struct{ page *Page }

func (o listObserver) ListChanged() {
	o.page.publish(Update{Kind: UpdateList})
}

func (o listObserver) ListFailed(err error) {
	o.page.notify(OpList, "", err)
}

// threadObserver relays one thread's outcomes. Changes from a thread that is
// no longer open are ignored; ends and failures still count.
type threadObserver struct {
	page *Page
	gen  uint64
}

func (o *threadObserver) ThreadChanged(id api.ID) {
	if o.page.isCurrent(o.gen) {
		o.page.publish(Update{Kind: UpdateThread, ConversationID: id})
	}
}

func (o *threadObserver) ThreadEnded(id api.ID, _ string) {
	o.page.logger.Debug("conversation ended, refreshing list", "conversation_id", id)
	o.page.Refresh()
}

func (o *threadObserver) ThreadFailed(op thread.Op, id api.ID, err error) {
	o.page.notify(Op(op), id, err)
}
