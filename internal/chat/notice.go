// ABOUTME: Update and notice types published by the chat page
// ABOUTME: Every failure becomes a Notice with a user-facing message

package chat

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/2389/chat-summariser/internal/api"
	"github.com/2389/chat-summariser/internal/thread"
)

// ErrNoConversation is returned by operations that need an open conversation.
var ErrNoConversation = errors.New("no conversation is open")

// UpdateKind says which part of the page changed.
type UpdateKind string

const (
	UpdateList   UpdateKind = "list"
	UpdateThread UpdateKind = "thread"
	UpdateNotice UpdateKind = "notice"
	UpdateOpen   UpdateKind = "open"
)

// Update is published on the page's broadcaster whenever something renderable changes.
type Update struct {
	Kind           UpdateKind `json:"type"`
	ConversationID api.ID     `json:"conversation_id,omitempty"`
	Notice         *Notice    `json:"-"`
}

// Op names the operation a notice is about.
type Op string

const (
	OpList    Op = "list"
	OpHistory Op = "history"
	OpCreate  Op = "create"
	OpSend    Op = Op(thread.OpSend)
	OpEnd     Op = Op(thread.OpEnd)
	OpReload  Op = Op(thread.OpReload)
)

// Notice records one failed operation.
type Notice struct {
	Op             Op
	ConversationID api.ID
	Err            error
	At             time.Time
}

func newNotice(op Op, id api.ID, err error) Notice {
	return Notice{Op: op, ConversationID: id, Err: err, At: time.Now()}
}

// Message is a short user-facing description of the failure.
func (n Notice) Message() string {
	var what string
	switch n.Op {
	case OpList:
		what = "Could not load conversations"
	case OpHistory:
		what = "Could not open conversation"
	case OpCreate:
		what = "Could not start a new conversation"
	case OpSend:
		what = "Could not get a reply"
	case OpEnd:
		what = "Could not end the conversation"
	case OpReload:
		what = "Could not reload the conversation"
	default:
		what = "Something went wrong"
	}
	return what + " (" + Cause(n.Err) + ")"
}

// Cause classifies err for display.
func Cause(err error) string {
	var se *api.StatusError
	switch {
	case err == nil:
		return "unknown error"
	case errors.Is(err, api.ErrNotFound):
		return "not found"
	case errors.As(err, &se):
		return fmt.Sprintf("server returned %d %s", se.StatusCode, http.StatusText(se.StatusCode))
	case api.IsNetwork(err):
		return "service unreachable"
	default:
		return "unexpected response"
	}
}
