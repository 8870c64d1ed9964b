// ABOUTME: bubbletea model for the terminal chat client
// ABOUTME: Keys and slash commands drive the chat page; page updates trigger re-renders

package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/2389/chat-summariser/internal/chat"
)

type focus int

const (
	focusThread focus = iota
	focusSidebar
)

// updateMsg carries a page update into the program loop.
type updateMsg chat.Update

// closedMsg reports that the page's update stream ended.
type closedMsg struct{}

// Options configures the model.
type Options struct {
	// GlamourStyle is the glamour standard style for markdown ("dark",
	// "light", "notty", ...). Defaults to "dark".
	GlamourStyle string
}

// Model is the terminal chat client.
type Model struct {
	ctx     context.Context
	page    *chat.Page
	updates <-chan chat.Update
	md      *markdownRenderer

	input    textarea.Model
	viewport viewport.Model
	spinner  spinner.Model

	focus  focus
	cursor int
	status string
	help   bool

	width  int
	height int
}

// New creates a model over page. Updates are consumed until ctx is cancelled.
func New(ctx context.Context, page *chat.Page, opts Options) Model {
	updates, _ := page.Subscribe(ctx)

	ta := textarea.New()
	ta.Placeholder = "Type a message... (/help for commands)"
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetHeight(3)
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)

	return Model{
		ctx:      ctx,
		page:     page,
		updates:  updates,
		md:       newMarkdownRenderer(opts.GlamourStyle),
		input:    ta,
		viewport: viewport.New(0, 0),
		spinner:  sp,
	}
}

// waitForUpdate blocks for the next page update.
func waitForUpdate(ch <-chan chat.Update) tea.Cmd {
	return func() tea.Msg {
		u, ok := <-ch
		if !ok {
			return closedMsg{}
		}
		return updateMsg(u)
	}
}

// Init loads the conversation list and starts listening for updates.
func (m Model) Init() tea.Cmd {
	page := m.page
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
		waitForUpdate(m.updates),
		func() tea.Msg {
			page.Refresh()
			return nil
		},
	)
}

// do runs fn off the program loop. Outcomes arrive as page updates.
func (m Model) do(fn func(ctx context.Context, p *chat.Page)) tea.Cmd {
	ctx, page := m.ctx, m.page
	return func() tea.Msg {
		fn(ctx, page)
		return nil
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.page.List().SetViewportWidth(msg.Width)
		m.layout()
		return m, nil

	case updateMsg:
		switch msg.Kind {
		case chat.UpdateOpen:
			m.status = ""
			m.layout()
		case chat.UpdateList:
			m.clampCursor()
			m.layout()
		case chat.UpdateThread, chat.UpdateNotice:
			m.layout()
		}
		return m, waitForUpdate(m.updates)

	case closedMsg:
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "tab":
		if m.focus == focusThread {
			m.focus = focusSidebar
			m.input.Blur()
		} else {
			m.focus = focusThread
			m.input.Focus()
		}
		return m, nil
	case "ctrl+n":
		return m, m.do(func(ctx context.Context, p *chat.Page) { p.List().Create(ctx) })
	case "ctrl+e":
		return m, m.endCmd()
	case "ctrl+l":
		m.page.Clear()
		return m, nil
	case "ctrl+r":
		return m, m.reloadCmd()
	case "ctrl+b":
		m.page.List().Toggle()
		m.layout()
		return m, nil
	case "ctrl+x", "esc":
		m.page.DismissNotices()
		m.status = ""
		m.help = false
		m.layout()
		return m, nil
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	if m.focus == focusSidebar {
		return m.handleSidebarKey(msg)
	}

	if msg.Type == tea.KeyEnter {
		return m.submit()
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if th := m.page.Thread(); th != nil {
		th.SetInput(m.input.Value())
	}
	return m, cmd
}

func (m Model) handleSidebarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.page.List().Items()
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(items)-1 {
			m.cursor++
		}
	case "enter":
		if m.cursor < len(items) {
			id := items[m.cursor].ID
			m.focus = focusThread
			m.input.Focus()
			return m, m.do(func(ctx context.Context, p *chat.Page) { p.List().Select(ctx, id) })
		}
	case "n":
		return m, m.do(func(ctx context.Context, p *chat.Page) { p.List().Create(ctx) })
	case "?":
		m.help = !m.help
		m.layout()
	}
	return m, nil
}

// submit sends the compose buffer, or runs it as a slash command.
func (m Model) submit() (tea.Model, tea.Cmd) {
	text := m.input.Value()
	trimmed := strings.TrimSpace(text)

	if strings.HasPrefix(trimmed, "/") {
		m.input.Reset()
		return m.command(trimmed)
	}

	if m.page.Thread() == nil {
		if trimmed != "" {
			m.status = "No conversation open. Press ctrl+n to start one."
		}
		return m, nil
	}
	if m.page.SendAsync(text) {
		m.input.Reset()
		m.status = ""
	}
	m.layout()
	return m, nil
}

func (m Model) command(line string) (tea.Model, tea.Cmd) {
	name, _, _ := strings.Cut(line, " ")
	switch name {
	case "/new":
		return m, m.do(func(ctx context.Context, p *chat.Page) { p.List().Create(ctx) })
	case "/end":
		return m, m.endCmd()
	case "/clear", "/close":
		m.page.Clear()
	case "/reload":
		return m, m.reloadCmd()
	case "/help":
		m.help = !m.help
		m.layout()
	case "/quit", "/exit", "/q":
		return m, tea.Quit
	default:
		m.status = "Unknown command " + name + ". Type /help for commands."
	}
	return m, nil
}

func (m Model) endCmd() tea.Cmd {
	return m.do(func(ctx context.Context, p *chat.Page) { _ = p.End(ctx) })
}

func (m Model) reloadCmd() tea.Cmd {
	return m.do(func(ctx context.Context, p *chat.Page) {
		if th := p.Thread(); th != nil {
			_ = th.Reload(ctx)
		}
	})
}

func (m *Model) clampCursor() {
	n := len(m.page.List().Items())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}
