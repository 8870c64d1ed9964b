// ABOUTME: Browser frontend server: renders the chat page and its partials
// ABOUTME: One chat page per browser session, form posts drive the state machine

package webui

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/2389/chat-summariser/internal/api"
	"github.com/2389/chat-summariser/internal/assets"
	"github.com/2389/chat-summariser/internal/chat"
)

const (
	sessionCookie = "summariser_session"
	pageTitle     = "Chat Summariser"

	// headerPartial asks for the updated partial instead of a redirect.
	headerPartial = "X-Partial"
	// headerWidth carries the browser's viewport width in CSS pixels.
	headerWidth = "X-Viewport-Width"
)

// Options configures a Server.
type Options struct {
	// DefaultTitle is the title new conversations are created with.
	DefaultTitle string
	// Breakpoint is the viewport width below which the sidebar collapses on select.
	Breakpoint int
	// IdleTimeout is how long an unused browser session is kept.
	IdleTimeout time.Duration
	Logger      *slog.Logger
}

// Server serves the chat page.
type Server struct {
	hub    *sessionHub
	render *renderer
	logger *slog.Logger
	router chi.Router
}

// New creates a Server talking to the conversation service through client.
func New(client chat.Client, opts Options) (*Server, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	render, err := newRenderer()
	if err != nil {
		return nil, err
	}
	s := &Server{
		hub: newSessionHub(client, hubConfig{
			DefaultTitle: opts.DefaultTitle,
			Breakpoint:   opts.Breakpoint,
			IdleTimeout:  opts.IdleTimeout,
			Logger:       logger,
		}),
		render: render,
		logger: logger.With("component", "webui"),
	}
	s.router = s.routes()
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Sessions returns the number of live browser sessions.
func (s *Server) Sessions() int {
	return s.hub.count()
}

// Close ends every session and its background work.
func (s *Server) Close() {
	s.hub.Close()
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/health"))

	r.Handle("/static/*", http.StripPrefix("/static/", assets.FileServer()))

	r.Group(func(r chi.Router) {
		r.Use(s.withSession)

		r.Get("/", s.handleShell)
		r.Route("/ui", func(r chi.Router) {
			r.Get("/sidebar", s.handleSidebar)
			r.Get("/thread", s.handleMain)
			r.Get("/events", s.handleEvents)

			r.Post("/conversations", s.handleCreate)
			r.Post("/conversations/{id}/open", s.handleOpen)
			r.Post("/send", s.handleSend)
			r.Post("/end", s.handleEnd)
			r.Post("/reload", s.handleReload)
			r.Post("/clear", s.handleClear)
			r.Post("/sidebar/toggle", s.handleToggle)
			r.Post("/notices/dismiss", s.handleDismiss)
		})
	})

	return r
}

type sessionKey struct{}

// withSession resolves the browser's session from its cookie, creating one
// when the cookie is missing or unknown.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ""
		if c, err := r.Cookie(sessionCookie); err == nil {
			if _, err := uuid.Parse(c.Value); err == nil {
				id = c.Value
			}
		}
		if id == "" {
			id = uuid.New().String()
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookie,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
				Secure:   r.TLS != nil,
			})
		}

		sess := s.hub.getOrCreate(id)
		if sess == nil {
			http.Error(w, "shutting down", http.StatusServiceUnavailable)
			return
		}
		if width := viewportWidth(r); width > 0 {
			sess.page.List().SetViewportWidth(width)
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, sess)))
	})
}

func viewportWidth(r *http.Request) int {
	v := r.Header.Get(headerWidth)
	if v == "" {
		v = r.URL.Query().Get("width")
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func pageFrom(r *http.Request) *chat.Page {
	return r.Context().Value(sessionKey{}).(*session).page
}

func (s *Server) handleShell(w http.ResponseWriter, r *http.Request) {
	p := pageFrom(r)
	data := shellData{
		Title:   pageTitle,
		Sidebar: s.render.sidebarData(p),
		Main:    s.render.mainData(p),
	}
	if err := s.render.execute(w, "shell", data); err != nil {
		s.logger.Error("failed to render chat page", "error", err)
	}
}

func (s *Server) handleSidebar(w http.ResponseWriter, r *http.Request) {
	s.renderSidebar(w, pageFrom(r))
}

func (s *Server) handleMain(w http.ResponseWriter, r *http.Request) {
	s.renderMain(w, pageFrom(r))
}

func (s *Server) renderSidebar(w http.ResponseWriter, p *chat.Page) {
	if err := s.render.execute(w, "sidebar", s.render.sidebarData(p)); err != nil {
		s.logger.Error("failed to render sidebar", "error", err)
	}
}

func (s *Server) renderMain(w http.ResponseWriter, p *chat.Page) {
	if err := s.render.execute(w, "main", s.render.mainData(p)); err != nil {
		s.logger.Error("failed to render thread", "error", err)
	}
}

// respond finishes a form post: script-driven requests get the named partial,
// plain form posts are redirected back to the page.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, partial string) {
	if r.Header.Get(headerPartial) == "" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	p := pageFrom(r)
	switch partial {
	case "sidebar":
		s.renderSidebar(w, p)
	default:
		s.renderMain(w, p)
	}
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	pageFrom(r).List().Create(r.Context())
	s.respond(w, r, "main")
}

func (s *Server) handleOpen(w http.ResponseWriter, r *http.Request) {
	id := api.ID(chi.URLParam(r, "id"))
	pageFrom(r).List().Select(r.Context(), id)
	s.respond(w, r, "main")
}

func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	p := pageFrom(r)
	if p.Thread() == nil {
		w.WriteHeader(http.StatusConflict)
		s.renderMain(w, p)
		return
	}
	p.SendAsync(r.FormValue("content"))
	s.respond(w, r, "main")
}

func (s *Server) handleEnd(w http.ResponseWriter, r *http.Request) {
	p := pageFrom(r)
	if err := p.End(r.Context()); errors.Is(err, chat.ErrNoConversation) {
		w.WriteHeader(http.StatusConflict)
		s.renderMain(w, p)
		return
	}
	s.respond(w, r, "main")
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	p := pageFrom(r)
	if th := p.Thread(); th != nil {
		_ = th.Reload(r.Context())
	}
	s.respond(w, r, "main")
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	pageFrom(r).Clear()
	s.respond(w, r, "main")
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	pageFrom(r).List().Toggle()
	s.respond(w, r, "sidebar")
}

func (s *Server) handleDismiss(w http.ResponseWriter, r *http.Request) {
	pageFrom(r).DismissNotices()
	s.respond(w, r, "main")
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
