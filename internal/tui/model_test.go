package tui

import (
	"net/http/httptest"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/chat-summariser/internal/api"
	"github.com/2389/chat-summariser/internal/chat"
	"github.com/2389/chat-summariser/internal/devserver"
)

type fixture struct {
	t       *testing.T
	page    *chat.Page
	backend *api.Client
}

func newFixture(t *testing.T, breakpoint int) (*fixture, Model) {
	t.Helper()
	srv := httptest.NewServer(devserver.New(devserver.NewMemoryStore(), nil, nil))
	t.Cleanup(srv.Close)
	client := api.New(srv.URL + "/api")

	page := chat.New(client, chat.Config{Breakpoint: breakpoint})
	t.Cleanup(page.Close)

	m := New(t.Context(), page, Options{GlamourStyle: "notty"})
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	return &fixture{t: t, page: page, backend: client}, m
}

// update feeds msg to the model and returns the new model.
func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm
}

// press feeds a key and runs the resulting command, if any, to completion.
func (f *fixture) press(m Model, key tea.KeyMsg) Model {
	f.t.Helper()
	next, cmd := m.Update(key)
	m = next.(Model)
	if cmd != nil {
		cmd()
	}
	f.page.Wait()
	return update(f.t, m, updateMsg{Kind: chat.UpdateThread})
}

func key(t tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: t} }

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func TestModel_Placeholder(t *testing.T) {
	_, m := newFixture(t, 0)

	view := m.View()
	assert.Contains(t, view, "No conversation open")
	assert.Contains(t, view, "Conversations")
}

func TestModel_ViewBeforeSize(t *testing.T) {
	f, _ := newFixture(t, 0)
	m := New(t.Context(), f.page, Options{})
	assert.Equal(t, "Loading...", m.View())
}

func TestModel_CreateSendEnd(t *testing.T) {
	f, m := newFixture(t, 0)

	m = f.press(m, key(tea.KeyCtrlN))
	th := f.page.Thread()
	require.NotNil(t, th)
	assert.Contains(t, m.View(), "New Chat")

	m.input.SetValue("Hello")
	m = f.press(m, key(tea.KeyEnter))
	assert.Empty(t, m.input.Value())
	require.Equal(t, 2, th.Len())
	assert.Contains(t, m.View(), "Hello")

	m.input.SetValue("/end")
	m = f.press(m, key(tea.KeyEnter))
	assert.True(t, th.Ended())
	assert.Contains(t, m.View(), "(ended)")
	assert.Contains(t, m.View(), "Summary")
}

func TestModel_BlankSendIgnored(t *testing.T) {
	f, m := newFixture(t, 0)
	m = f.press(m, key(tea.KeyCtrlN))

	m.input.SetValue("   ")
	m = f.press(m, key(tea.KeyEnter))
	assert.Equal(t, 0, f.page.Thread().Len())
}

func TestModel_SendWithoutConversation(t *testing.T) {
	f, m := newFixture(t, 0)

	m.input.SetValue("Hello")
	m = f.press(m, key(tea.KeyEnter))
	assert.Contains(t, m.status, "ctrl+n")
	assert.Equal(t, "Hello", m.input.Value())
}

func TestModel_SlashCommands(t *testing.T) {
	f, m := newFixture(t, 0)

	m.input.SetValue("/new")
	m = f.press(m, key(tea.KeyEnter))
	require.NotNil(t, f.page.Thread())

	m.input.SetValue("/clear")
	m = f.press(m, key(tea.KeyEnter))
	assert.Nil(t, f.page.Thread())

	m.input.SetValue("/help")
	m = f.press(m, key(tea.KeyEnter))
	assert.True(t, m.help)
	assert.Contains(t, m.View(), "Commands:")

	m.input.SetValue("/bogus")
	m = f.press(m, key(tea.KeyEnter))
	assert.Contains(t, m.status, "Unknown command /bogus")

	m.input.SetValue("/quit")
	_, cmd := m.Update(key(tea.KeyEnter))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_SidebarNavigation(t *testing.T) {
	f, m := newFixture(t, 0)
	ctx := t.Context()

	_, err := f.backend.CreateConversation(ctx, "First")
	require.NoError(t, err)
	_, err = f.backend.CreateConversation(ctx, "Second")
	require.NoError(t, err)
	f.page.Refresh()
	f.page.Wait()
	m = update(t, m, updateMsg{Kind: chat.UpdateList})

	items := f.page.List().Items()
	require.Len(t, items, 2)

	m = update(t, m, key(tea.KeyTab))
	assert.Equal(t, focusSidebar, m.focus)

	m = update(t, m, key(tea.KeyDown))
	m = update(t, m, key(tea.KeyDown))
	assert.Equal(t, 1, m.cursor)
	m = update(t, m, runes("k"))
	m = update(t, m, runes("j"))
	assert.Equal(t, 1, m.cursor)
	assert.Contains(t, m.View(), "> ")

	m = f.press(m, key(tea.KeyEnter))
	assert.Equal(t, items[1].ID, f.page.OpenID())
	assert.Equal(t, focusThread, m.focus)
	assert.Contains(t, m.View(), items[1].Label)
}

func TestModel_ToggleSidebar(t *testing.T) {
	f, m := newFixture(t, 0)

	m = update(t, m, key(tea.KeyCtrlB))
	assert.True(t, f.page.List().Collapsed())
	assert.NotContains(t, m.View(), "Conversations")

	m = update(t, m, key(tea.KeyCtrlB))
	assert.False(t, f.page.List().Collapsed())
	assert.Contains(t, m.View(), "Conversations")
}

func TestModel_NarrowSelectCollapses(t *testing.T) {
	f, m := newFixture(t, 80)
	conv, err := f.backend.CreateConversation(t.Context(), "Narrow")
	require.NoError(t, err)
	f.page.Refresh()
	f.page.Wait()

	m = update(t, m, tea.WindowSizeMsg{Width: 60, Height: 30})
	assert.True(t, f.page.List().Narrow())

	m = update(t, m, updateMsg{Kind: chat.UpdateList})
	m = update(t, m, key(tea.KeyTab))
	m = f.press(m, key(tea.KeyEnter))
	assert.Equal(t, conv.ID, f.page.OpenID())
	assert.True(t, f.page.List().Collapsed())
}

func TestModel_NoticesShownAndDismissed(t *testing.T) {
	f, m := newFixture(t, 0)

	require.Error(t, f.page.OpenConversation(t.Context(), "999"))
	m = update(t, m, updateMsg{Kind: chat.UpdateNotice})
	assert.Contains(t, m.View(), "Could not open conversation")

	m = update(t, m, key(tea.KeyEsc))
	assert.Empty(t, f.page.Notices())
	assert.NotContains(t, m.View(), "Could not open conversation")
}

func TestModel_UpdateKeepsListening(t *testing.T) {
	_, m := newFixture(t, 0)

	_, cmd := m.Update(updateMsg{Kind: chat.UpdateList})
	assert.NotNil(t, cmd)

	_, cmd = m.Update(closedMsg{})
	assert.Nil(t, cmd)
}

func TestModel_CtrlCQuits(t *testing.T) {
	_, m := newFixture(t, 0)

	_, cmd := m.Update(key(tea.KeyCtrlC))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is too long", 10, "this is..."},
		{"héllo wörld", 8, "héllo..."},
		{"abcdef", 3, "abc"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestMarkdownRenderer_Caches(t *testing.T) {
	r := newMarkdownRenderer("notty")

	first := r.Render("e1", "**bold** text", 40)
	assert.Contains(t, first, "bold")
	assert.Equal(t, first, r.Render("e1", "different source", 40))
	assert.Len(t, r.cache, 1)
	assert.Len(t, r.renderers, 1)
}
