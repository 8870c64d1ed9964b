// ABOUTME: Thread entries: a message plus local id and reconciliation status
// ABOUTME: Display helpers for avatars, clock labels and the fixed notice texts

package thread

import (
	"strings"

	"github.com/google/uuid"

	"github.com/2389/chat-summariser/internal/api"
)

// Status tags where an entry came from and whether the server has it.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusFailed    Status = "failed"
	StatusLocal     Status = "local"
)

// FailureNotice is appended as a system entry when a send fails, whatever the cause.
const FailureNotice = "⚠️ Failed to get AI response. Try again later."

const summaryHeading = "🧾 Summary:\n\n"

// SummaryNotice formats a conversation summary for display, doubling every
// line break so each line renders as its own paragraph.
func SummaryNotice(summary string) string {
	return summaryHeading + strings.ReplaceAll(summary, "\n", "\n\n")
}

// Entry is one message in the displayed sequence.
type Entry struct {
	ID string
	api.Message
	Status Status

	// rev is the thread revision at which the entry was appended or last
	// changed status.
	rev uint64
}

func newEntry(msg api.Message, status Status) Entry {
	return Entry{
		ID:      uuid.New().String(),
		Message: msg,
		Status:  status,
	}
}

// IsUser reports whether the entry was authored by the user.
func (e Entry) IsUser() bool { return e.Sender == api.SenderUser }

// IsAI reports whether the entry was authored by the assistant.
func (e Entry) IsAI() bool { return e.Sender == api.SenderAI }

// IsSystem reports whether the entry is a system notice.
func (e Entry) IsSystem() bool { return e.Sender == api.SenderSystem }

// Avatar returns the short author badge; system entries have none.
func (e Entry) Avatar() string {
	switch e.Sender {
	case api.SenderUser:
		return "U"
	case api.SenderAI:
		return "AI"
	default:
		return ""
	}
}

// Clock returns the local HH:MM the entry was stamped with. System entries and
// unparseable timestamps return "".
func (e Entry) Clock() string {
	if e.IsSystem() {
		return ""
	}
	t := e.Time()
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("15:04")
}
