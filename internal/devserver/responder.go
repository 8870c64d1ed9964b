// ABOUTME: Canned reply and summary generation for the development backend
// ABOUTME: Echoes user messages and summarizes by transcript concatenation

package devserver

import (
	"fmt"
	"strings"
)

// maxSummaryRunes caps the naive summary length.
const maxSummaryRunes = 500

// Responder produces assistant replies and conversation summaries.
type Responder interface {
	Reply(history []*Message, content string) string
	Summarize(transcript string) string
}

// EchoResponder replies by echoing the user's message with some markdown.
type EchoResponder struct{}

// Reply echoes content. Messages mentioning markdown or lists get a sample
// markdown document so renderers have something to show.
func (EchoResponder) Reply(history []*Message, content string) string {
	lower := strings.ToLower(content)
	if strings.Contains(lower, "markdown") || strings.Contains(lower, "bullet") || strings.Contains(lower, "list") {
		return "Here is a **markdown** response:\n\n- First item\n- Second item with `code`\n- Third item\n\n> This is a blockquote.\n"
	}
	return fmt.Sprintf("Echo: **%s**\n\nThis is message %d in the conversation.", content, len(history)+1)
}

// Summarize returns the transcript itself, truncated.
func (EchoResponder) Summarize(transcript string) string {
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return "No messages were exchanged."
	}
	r := []rune(transcript)
	if len(r) > maxSummaryRunes {
		return string(r[:maxSummaryRunes]) + "…"
	}
	return transcript
}

// Transcript renders messages as "sender: content" lines.
func Transcript(msgs []*Message) string {
	lines := make([]string, len(msgs))
	for i, m := range msgs {
		lines[i] = m.Sender + ": " + m.Content
	}
	return strings.Join(lines, "\n")
}
