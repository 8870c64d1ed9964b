// ABOUTME: Message thread state for one open conversation
// ABOUTME: Optimistic send, end-with-summary and server reconciliation

package thread

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/2389/chat-summariser/internal/api"
)

// Op names a thread operation in failure reports.
type Op string

const (
	OpSend   Op = "send"
	OpEnd    Op = "end"
	OpReload Op = "reload"
)

// Client is the subset of the API client a thread needs.
type Client interface {
	SendMessage(ctx context.Context, id api.ID, content string) (string, error)
	EndConversation(ctx context.Context, id api.ID) (string, error)
	GetHistory(ctx context.Context, id api.ID) (*api.History, error)
}

// Listener observes thread outcomes. Methods are called without the thread's
// lock held and may call back into the thread.
type Listener interface {
	ThreadChanged(id api.ID)
	ThreadEnded(id api.ID, summary string)
	ThreadFailed(op Op, id api.ID, err error)
}

type nopListener struct{}

func (nopListener) ThreadChanged(api.ID)           {}
func (nopListener) ThreadEnded(api.ID, string)     {}
func (nopListener) ThreadFailed(Op, api.ID, error) {}

// Pending is an optimistic send awaiting Complete.
type Pending struct {
	entryID string
	Content string
}

// Thread is the message sequence of one open conversation.
type Thread struct {
	client   Client
	listener Listener
	logger   *slog.Logger

	mu       sync.Mutex
	id       api.ID
	title    string
	entries  []Entry
	input    string
	inFlight int
	ended    bool
	revision uint64
}

// New creates a thread for conversation id seeded with its server history.
// A nil listener discards notifications.
func New(client Client, conv api.Conversation, history []api.Message, listener Listener, logger *slog.Logger) *Thread {
	if listener == nil {
		listener = nopListener{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	t := &Thread{
		client:   client,
		listener: listener,
		logger:   logger.With("component", "thread", "conversation_id", conv.ID),
		id:       conv.ID,
		title:    conv.Title,
		ended:    conv.Ended(),
		entries:  make([]Entry, 0, len(history)),
	}
	for _, m := range history {
		t.entries = append(t.entries, newEntry(m, StatusConfirmed))
	}
	return t
}

// ID returns the conversation identifier.
func (t *Thread) ID() api.ID {
	return t.id
}

// Title returns the conversation title the thread was opened with.
func (t *Thread) Title() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.title
}

// Entries returns a copy of the message sequence, oldest first.
func (t *Thread) Entries() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len returns the number of entries.
func (t *Thread) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// Revision increases on every mutation of the sequence. Renderers scroll to the
// newest entry when it moves.
func (t *Thread) Revision() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.revision
}

// Busy reports whether a send is outstanding. It is advisory only.
func (t *Thread) Busy() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.inFlight > 0
}

// Ended reports whether the conversation has been ended.
func (t *Thread) Ended() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ended
}

// Input returns the compose buffer.
func (t *Thread) Input() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.input
}

// SetInput replaces the compose buffer.
func (t *Thread) SetInput(s string) {
	t.mu.Lock()
	t.input = s
	t.mu.Unlock()
}

// Begin performs the synchronous half of a send: it appends the user's entry
// as pending, clears the input and marks the thread busy. Empty or
// whitespace-only text is ignored and reports false.
func (t *Thread) Begin(text string) (Pending, bool) {
	if strings.TrimSpace(text) == "" {
		return Pending{}, false
	}

	e := newEntry(api.NewMessage(api.SenderUser, text), StatusPending)

	t.mu.Lock()
	t.revision++
	e.rev = t.revision
	t.entries = append(t.entries, e)
	t.input = ""
	t.inFlight++
	t.mu.Unlock()

	t.listener.ThreadChanged(t.id)
	return Pending{entryID: e.ID, Content: text}, true
}

// Complete sends a pending message and appends the outcome: the assistant's
// reply verbatim, or FailureNotice as a system entry. Busy is cleared either way.
func (t *Thread) Complete(ctx context.Context, p Pending) {
	reply, err := t.client.SendMessage(ctx, t.id, p.Content)

	t.mu.Lock()
	t.revision++
	if err != nil {
		t.setStatusLocked(p.entryID, StatusFailed)
		t.appendLocked(newEntry(api.NewMessage(api.SenderSystem, FailureNotice), StatusLocal))
	} else {
		t.setStatusLocked(p.entryID, StatusConfirmed)
		t.appendLocked(newEntry(api.NewMessage(api.SenderAI, reply), StatusConfirmed))
	}
	if t.inFlight > 0 {
		t.inFlight--
	}
	t.mu.Unlock()

	if err != nil {
		t.logger.Error("failed to send message", "error", err)
		t.listener.ThreadChanged(t.id)
		t.listener.ThreadFailed(OpSend, t.id, err)
		return
	}
	t.logger.Debug("message sent", "reply_len", len(reply))
	t.listener.ThreadChanged(t.id)
}

// Send is Begin followed by Complete. It reports whether anything was sent.
func (t *Thread) Send(ctx context.Context, text string) bool {
	p, ok := t.Begin(text)
	if !ok {
		return false
	}
	t.Complete(ctx, p)
	return true
}

// End closes the conversation server-side. On success one system entry with
// the formatted summary is appended and ThreadEnded fires once. On failure the
// sequence is untouched and the error is reported to the listener.
func (t *Thread) End(ctx context.Context) error {
	summary, err := t.client.EndConversation(ctx, t.id)
	if err != nil {
		t.logger.Error("failed to end conversation", "error", err)
		t.listener.ThreadFailed(OpEnd, t.id, err)
		return err
	}

	t.mu.Lock()
	t.revision++
	t.appendLocked(newEntry(api.NewMessage(api.SenderSystem, SummaryNotice(summary)), StatusLocal))
	t.ended = true
	t.mu.Unlock()

	t.logger.Info("conversation ended", "summary_len", len(summary))
	t.listener.ThreadChanged(t.id)
	t.listener.ThreadEnded(t.id, summary)
	return nil
}

// Reload re-fetches history and reconciles: server history replaces the
// entries known when the fetch started, except pending ones. Pending entries
// and anything appended or settled while the fetch was outstanding follow the
// history in their original order. Older failed entries and local notices are
// dropped.
func (t *Thread) Reload(ctx context.Context) error {
	t.mu.Lock()
	since := t.revision
	t.mu.Unlock()

	hist, err := t.client.GetHistory(ctx, t.id)
	if err != nil {
		t.logger.Error("failed to reload history", "error", err)
		t.listener.ThreadFailed(OpReload, t.id, err)
		return err
	}

	t.mu.Lock()
	next := make([]Entry, 0, len(hist.Messages)+t.inFlight)
	for _, m := range hist.Messages {
		next = append(next, newEntry(m, StatusConfirmed))
	}
	t.revision++
	for _, e := range t.entries {
		if e.Status == StatusPending || e.rev > since {
			next = append(next, e)
		}
	}
	t.entries = next
	if hist.Title != "" {
		t.title = hist.Title
	}
	t.ended = t.ended || hist.Ended()
	t.mu.Unlock()

	t.listener.ThreadChanged(t.id)
	return nil
}

func (t *Thread) appendLocked(e Entry) {
	e.rev = t.revision
	t.entries = append(t.entries, e)
}

func (t *Thread) setStatusLocked(entryID string, s Status) {
	for i := range t.entries {
		if t.entries[i].ID == entryID {
			t.entries[i].Status = s
			t.entries[i].rev = t.revision
			return
		}
	}
}
