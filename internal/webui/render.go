// ABOUTME: View models and template rendering for the chat page partials
// ABOUTME: AI replies and summaries are rendered from markdown with goldmark

package webui

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/2389/chat-summariser/internal/assets"
	"github.com/2389/chat-summariser/internal/chat"
	"github.com/2389/chat-summariser/internal/sidebar"
	"github.com/2389/chat-summariser/internal/thread"
)

//go:embed templates/*.html
var templateFS embed.FS

// shellData holds data for the full page.
type shellData struct {
	Title   string
	Sidebar sidebarData
	Main    mainData
}

// sidebarData holds data for the conversation list partial.
type sidebarData struct {
	Items     []sidebar.Item
	Loading   bool
	Collapsed bool
	Narrow    bool
	Creating  bool
}

// mainData holds data for the main column: notices plus the open thread or
// the placeholder.
type mainData struct {
	Notices  []noticeData
	Thread   *threadData
	Creating bool
}

type noticeData struct {
	Message string
}

// threadData holds data for the open conversation.
type threadData struct {
	ID      string
	Title   string
	Entries []entryData
	Busy    bool
	Ended   bool
	Input   string
}

// entryData is one rendered message.
type entryData struct {
	Class   string
	Avatar  string
	Clock   string
	Pending bool
	Body    template.HTML
}

type renderer struct {
	tmpl *template.Template
	md   goldmark.Markdown
}

func newRenderer() (*renderer, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"assetTags": assets.Tags,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	return &renderer{
		tmpl: tmpl,
		md:   goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}, nil
}

// markdown converts src to HTML. Raw HTML in src is not passed through.
func (r *renderer) markdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(buf.String())
}

func (r *renderer) sidebarData(p *chat.Page) sidebarData {
	l := p.List()
	return sidebarData{
		Items:     l.Items(),
		Loading:   l.Loading(),
		Collapsed: l.Collapsed(),
		Narrow:    l.Narrow(),
		Creating:  p.Creating(),
	}
}

func (r *renderer) mainData(p *chat.Page) mainData {
	d := mainData{Creating: p.Creating()}
	for _, n := range p.Notices() {
		d.Notices = append(d.Notices, noticeData{Message: n.Message()})
	}
	if th := p.Thread(); th != nil {
		d.Thread = r.threadData(th)
	}
	return d
}

func (r *renderer) threadData(th *thread.Thread) *threadData {
	entries := th.Entries()
	d := &threadData{
		ID:      th.ID().String(),
		Title:   th.Title(),
		Entries: make([]entryData, 0, len(entries)),
		Busy:    th.Busy(),
		Ended:   th.Ended(),
		Input:   th.Input(),
	}
	for _, e := range entries {
		ed := entryData{
			Class:   string(e.Sender),
			Avatar:  e.Avatar(),
			Clock:   e.Clock(),
			Pending: e.Status == thread.StatusPending,
		}
		if e.IsUser() {
			ed.Body = template.HTML(template.HTMLEscapeString(e.Content))
		} else {
			ed.Body = r.markdown(e.Content)
		}
		d.Entries = append(d.Entries, ed)
	}
	return d
}

func (r *renderer) execute(w http.ResponseWriter, name string, data any) error {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("rendering %s: %w", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err := buf.WriteTo(w)
	return err
}
