// ABOUTME: Rendering for the terminal chat client: list pane, thread pane and help
// ABOUTME: Entries are laid out per width; assistant and system text goes through glamour

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/2389/chat-summariser/internal/thread"
)

const shortHelp = "enter send • tab switch pane • ctrl+n new • ctrl+e end • ctrl+b list • /help • ctrl+c quit"

var longHelp = strings.Join([]string{
	"Keys:",
	"  enter        send message (thread) / open conversation (list)",
	"  tab          switch between list and thread",
	"  up/down j/k  move in the list",
	"  ctrl+n       start a new conversation",
	"  ctrl+e       end the conversation and show its summary",
	"  ctrl+l       close the conversation",
	"  ctrl+r       reload the conversation from the server",
	"  ctrl+b       show or hide the conversation list",
	"  esc          dismiss notices",
	"  pgup/pgdown  scroll messages",
	"Commands: /new /end /clear /reload /help /quit",
}, "\n")

// truncate shortens s to maxLen runes, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

func (m Model) mainWidth() int {
	if m.page.List().Collapsed() {
		return m.width
	}
	w := m.width - sidebarWidth - 2
	if w < 20 {
		w = 20
	}
	return w
}

// layout resizes the input and message viewport and re-renders the messages.
func (m *Model) layout() {
	if m.width == 0 {
		return
	}
	w := m.mainWidth()
	m.input.SetWidth(w)

	chrome := 1 + m.input.Height() + 1 + 1 + len(m.page.Notices())
	if m.help {
		chrome += strings.Count(longHelp, "\n")
	}
	h := m.height - chrome
	if h < 3 {
		h = 3
	}
	m.viewport.Width = w
	m.viewport.Height = h
	m.viewport.SetContent(m.renderEntries(w))
	m.viewport.GotoBottom()
}

func (m Model) renderEntries(width int) string {
	th := m.page.Thread()
	if th == nil {
		return ""
	}
	bodyWidth := width - 2
	text := lipgloss.NewStyle().Width(bodyWidth)

	var b strings.Builder
	for _, e := range th.Entries() {
		var head, body string
		switch {
		case e.IsUser():
			head = userBadge.Render(e.Avatar())
			switch e.Status {
			case thread.StatusPending:
				head += " " + dimStyle.Render("sending...")
			case thread.StatusFailed:
				head += " " + failedStyle.Render("not delivered")
			}
			body = text.Render(e.Content)
		case e.IsAI():
			head = aiBadge.Render(e.Avatar())
			body = m.md.Render(e.ID, e.Content, bodyWidth)
		default:
			body = systemStyle.Render(m.md.Render(e.ID, e.Content, bodyWidth))
		}
		if clock := e.Clock(); clock != "" {
			head += " " + dimStyle.Render(clock)
		}
		if head != "" {
			b.WriteString(head)
			b.WriteString("\n")
		}
		b.WriteString(body)
		b.WriteString("\n\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// View renders the list pane (unless hidden) beside the main column.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	main := m.mainView()
	if m.page.List().Collapsed() {
		return main
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, m.sidebarView(), main)
}

func (m Model) sidebarView() string {
	l := m.page.List()
	inner := sidebarWidth - 2

	lines := []string{titleStyle.Render("Conversations")}
	if m.page.Creating() {
		lines = append(lines, dimStyle.Render("Creating..."))
	} else {
		lines = append(lines, dimStyle.Render("+ New Chat (ctrl+n)"))
	}
	lines = append(lines, "")

	items := l.Items()
	switch {
	case l.Loading():
		lines = append(lines, dimStyle.Render("Loading conversations..."))
	case len(items) == 0:
		lines = append(lines, dimStyle.Render("No conversations yet."))
	}
	for i, it := range items {
		marker := "  "
		if m.focus == focusSidebar && i == m.cursor {
			marker = cursorStyle.Render("> ")
		}
		label := truncate(it.Label, inner-4)
		if it.Active {
			label = activeStyle.Render(label)
		}
		if it.Ended {
			label += " " + endedStyle.Render("✓")
		}
		lines = append(lines, marker+label)
		if it.Preview != "" {
			lines = append(lines, "  "+dimStyle.Render(truncate(it.Preview, inner-2)))
		}
	}

	pane := sidebarPane
	if m.focus == focusSidebar {
		pane = sidebarFocusedPane
	}
	h := m.height - 2
	if h < 1 {
		h = 1
	}
	return pane.Width(sidebarWidth).Height(h).Render(strings.Join(lines, "\n"))
}

func (m Model) mainView() string {
	w := m.mainWidth()
	th := m.page.Thread()

	var parts []string
	if th == nil {
		parts = append(parts,
			headerStyle.Width(w).Render("Chat Summariser"),
			placeholderStyle.Width(w).Height(m.viewport.Height).Render(
				"No conversation open\n\nPress ctrl+n to start a new conversation\nor tab to pick one from the list."),
		)
	} else {
		title := th.Title()
		if th.Ended() {
			title += " (ended)"
		}
		parts = append(parts, headerStyle.Width(w).Render(truncate(title, w-2)), m.viewport.View())
	}

	for _, n := range m.page.Notices() {
		parts = append(parts, noticeStyle.Width(w).Render(truncate(n.Message(), w-2)))
	}

	switch {
	case th != nil && th.Busy():
		parts = append(parts, m.spinner.View()+" AI is typing...")
	case m.status != "":
		parts = append(parts, dimStyle.Render(m.status))
	default:
		parts = append(parts, "")
	}

	parts = append(parts, m.input.View())
	if m.help {
		parts = append(parts, helpStyle.Render(longHelp))
	} else {
		parts = append(parts, helpStyle.Render(truncate(shortHelp, w)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
