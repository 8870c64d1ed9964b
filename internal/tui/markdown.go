// ABOUTME: Markdown rendering for assistant replies and summaries
// ABOUTME: glamour renderers per wrap width, output cached per entry

package tui

import (
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

const maxCachedRenders = 512

// markdownRenderer renders markdown to ANSI text. Renders are cached by entry
// ID and width; entry contents never change once appended.
type markdownRenderer struct {
	style string

	mu        sync.Mutex
	renderers map[int]*glamour.TermRenderer
	cache     map[string]string
}

func newMarkdownRenderer(style string) *markdownRenderer {
	if style == "" {
		style = "dark"
	}
	return &markdownRenderer{
		style:     style,
		renderers: make(map[int]*glamour.TermRenderer),
		cache:     make(map[string]string),
	}
}

// Render returns src rendered for the given width. On renderer failure the
// source text is returned unchanged.
func (r *markdownRenderer) Render(id, src string, width int) string {
	if width < 20 {
		width = 20
	}
	key := id + "/" + strconv.Itoa(width)

	r.mu.Lock()
	defer r.mu.Unlock()

	if out, ok := r.cache[key]; ok {
		return out
	}

	tr, ok := r.renderers[width]
	if !ok {
		var err error
		tr, err = glamour.NewTermRenderer(
			glamour.WithStandardStyle(r.style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return src
		}
		r.renderers[width] = tr
	}

	out, err := tr.Render(src)
	if err != nil {
		return src
	}
	out = strings.Trim(out, "\n")

	if len(r.cache) >= maxCachedRenders {
		r.cache = make(map[string]string)
	}
	r.cache[key] = out
	return out
}
