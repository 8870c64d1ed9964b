// ABOUTME: HTTP handlers implementing the conversation service REST contract
// ABOUTME: chi router over a Store and a Responder, JSON in and out

package devserver

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// DefaultCreateTitle is used when a create request carries no title.
const DefaultCreateTitle = "Untitled Conversation"

const errConversationNotFound = "Conversation not found"

// Server serves the conversation API under /api.
type Server struct {
	store     Store
	responder Responder
	logger    *slog.Logger
	router    chi.Router
}

// New creates a Server. A nil responder echoes; a nil logger uses the default.
func New(store Store, responder Responder, logger *slog.Logger) *Server {
	if responder == nil {
		responder = EchoResponder{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		store:     store,
		responder: responder,
		logger:    logger.With("component", "devserver"),
	}
	s.router = s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/health"))
	r.Use(cors)

	r.Route("/api/conversations", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Get("/all/", s.handleListAll)
		r.Post("/create/", s.handleCreate)
		r.Get("/{id}/", s.handleGet)
		r.Get("/{id}/history/", s.handleHistory)
		r.Post("/{id}/send/", s.handleSend)
		r.Post("/{id}/end/", s.handleEnd)
	})

	return r
}

type conversationJSON struct {
	ID        int64   `json:"id"`
	Title     string  `json:"title"`
	Summary   *string `json:"summary"`
	Status    string  `json:"status"`
	CreatedAt string  `json:"created_at"`
}

func toConversationJSON(c *Conversation) conversationJSON {
	return conversationJSON{
		ID:        c.ID,
		Title:     c.Title,
		Summary:   c.Summary,
		Status:    c.Status,
		CreatedAt: c.CreatedAt.Format(time.RFC3339Nano),
	}
}

type messageJSON struct {
	Sender    string `json:"sender"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

type historyJSON struct {
	ConversationID int64         `json:"conversation_id"`
	Title          string        `json:"title"`
	Messages       []messageJSON `json:"messages"`
	Summary        *string       `json:"summary"`
	Status         string        `json:"status"`
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	s.writeConversations(w, r)
}

func (s *Server) handleListAll(w http.ResponseWriter, r *http.Request) {
	s.writeConversations(w, r)
}

func (s *Server) writeConversations(w http.ResponseWriter, r *http.Request) {
	convs, err := s.store.ListConversations(r.Context())
	if err != nil {
		s.internalError(w, "listing conversations", err)
		return
	}
	out := make([]conversationJSON, len(convs))
	for i, c := range convs {
		out[i] = toConversationJSON(c)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title *string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	title := DefaultCreateTitle
	if req.Title != nil {
		title = *req.Title
	}

	c, err := s.store.CreateConversation(r.Context(), title)
	if err != nil {
		s.internalError(w, "creating conversation", err)
		return
	}
	s.logger.Info("conversation created", "conversation_id", c.ID)
	writeJSON(w, http.StatusOK, map[string]any{"id": c.ID, "title": c.Title})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	c, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toConversationJSON(c))
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	c, ok := s.lookup(w, r)
	if !ok {
		return
	}
	msgs, err := s.store.Messages(r.Context(), c.ID)
	if err != nil {
		s.internalError(w, "loading messages", err)
		return
	}
	out := historyJSON{
		ConversationID: c.ID,
		Title:          c.Title,
		Messages:       make([]messageJSON, len(msgs)),
		Summary:        c.Summary,
		Status:         c.Status,
	}
	for i, m := range msgs {
		out.Messages[i] = messageJSON{
			Sender:    m.Sender,
			Content:   m.Content,
			Timestamp: m.Timestamp.Format(time.RFC3339Nano),
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	c, ok := s.lookup(w, r)
	if !ok {
		return
	}

	var req struct {
		Sender  string  `json:"sender"`
		Content *string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Content == nil {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}

	ctx := r.Context()
	prior, err := s.store.Messages(ctx, c.ID)
	if err != nil {
		s.internalError(w, "loading messages", err)
		return
	}
	userMsg, err := s.store.AddMessage(ctx, c.ID, "user", *req.Content)
	if err != nil {
		s.internalError(w, "saving user message", err)
		return
	}

	reply := s.responder.Reply(prior, *req.Content)
	if _, err := s.store.AddMessage(ctx, c.ID, "ai", reply); err != nil {
		s.internalError(w, "saving ai message", err)
		return
	}

	s.logger.Debug("message exchanged", "conversation_id", c.ID, "content_len", len(*req.Content))
	writeJSON(w, http.StatusOK, map[string]string{
		"user_message": userMsg.Content,
		"ai_response":  reply,
	})
}

func (s *Server) handleEnd(w http.ResponseWriter, r *http.Request) {
	c, ok := s.lookup(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	msgs, err := s.store.Messages(ctx, c.ID)
	if err != nil {
		s.internalError(w, "loading messages", err)
		return
	}
	summary := s.responder.Summarize(Transcript(msgs))
	if err := s.store.EndConversation(ctx, c.ID, summary); err != nil {
		s.internalError(w, "ending conversation", err)
		return
	}

	s.logger.Info("conversation ended", "conversation_id", c.ID, "messages", len(msgs))
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "Conversation ended",
		"summary": summary,
	})
}

// lookup resolves the {id} URL parameter, writing a 404 when it is malformed
// or unknown.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*Conversation, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, errConversationNotFound)
		return nil, false
	}
	c, err := s.store.GetConversation(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusNotFound, errConversationNotFound)
		return nil, false
	}
	if err != nil {
		s.internalError(w, "loading conversation", err)
		return nil, false
	}
	return c, true
}

func (s *Server) internalError(w http.ResponseWriter, what string, err error) {
	s.logger.Error("request failed", "op", what, "error", err)
	writeError(w, http.StatusInternalServerError, err.Error())
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

// cors allows the browser frontend to call the API from another origin.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := r.Header.Get("Origin"); origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": strings.TrimSpace(msg)})
}
