// ABOUTME: HTTP client for the conversation/summarization service REST API
// ABOUTME: One method per endpoint; no retries, caching or auth

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the hosted service the client talks to when none is configured.
const DefaultBaseURL = "https://chat-summarizer.zeabur.app/api"

// Client talks to the conversation service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout bounds every request. Zero means no client-side timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			hc := *c.httpClient
			hc.Timeout = d
			c.httpClient = &hc
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger.With("component", "api")
		}
	}
}

// New creates a Client for the service rooted at baseURL (including the /api prefix).
func New(baseURL string, opts ...Option) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
		logger:     slog.Default().With("component", "api"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the service root the client is bound to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListConversations fetches the default conversation listing.
func (c *Client) ListConversations(ctx context.Context) ([]Conversation, error) {
	var out []Conversation
	if err := c.do(ctx, "list conversations", http.MethodGet, "/conversations/", nil, &out); err != nil {
		return nil, err
	}
	return nonNil(out), nil
}

// ListAllConversations fetches every known conversation.
func (c *Client) ListAllConversations(ctx context.Context) ([]Conversation, error) {
	var out []Conversation
	if err := c.do(ctx, "list all conversations", http.MethodGet, "/conversations/all/", nil, &out); err != nil {
		return nil, err
	}
	return nonNil(out), nil
}

// GetConversation fetches a single conversation's metadata.
func (c *Client) GetConversation(ctx context.Context, id ID) (*Conversation, error) {
	var out Conversation
	if err := c.do(ctx, "get conversation", http.MethodGet, conversationPath(id, ""), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetHistory fetches a conversation's metadata and full ordered message sequence.
func (c *Client) GetHistory(ctx context.Context, id ID) (*History, error) {
	var out historyResponse
	if err := c.do(ctx, "get history", http.MethodGet, conversationPath(id, "history/"), nil, &out); err != nil {
		return nil, err
	}
	h := out.toHistory()
	if h.ID == "" {
		h.ID = id
	}
	return h, nil
}

// CreateConversation creates a conversation with the given title.
func (c *Client) CreateConversation(ctx context.Context, title string) (*Conversation, error) {
	var out Conversation
	if err := c.do(ctx, "create conversation", http.MethodPost, "/conversations/create/", createRequest{Title: title}, &out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, fmt.Errorf("create conversation: response carried no id")
	}
	return &out, nil
}

// SendMessage posts a user message and returns the assistant's reply.
func (c *Client) SendMessage(ctx context.Context, id ID, content string) (string, error) {
	var out sendResponse
	body := sendRequest{Sender: SenderUser, Content: content}
	if err := c.do(ctx, "send message", http.MethodPost, conversationPath(id, "send/"), body, &out); err != nil {
		return "", err
	}
	return out.AIResponse, nil
}

// EndConversation closes the conversation and returns its generated summary.
func (c *Client) EndConversation(ctx context.Context, id ID) (string, error) {
	var out endResponse
	if err := c.do(ctx, "end conversation", http.MethodPost, conversationPath(id, "end/"), nil, &out); err != nil {
		return "", err
	}
	return out.Summary, nil
}

func conversationPath(id ID, suffix string) string {
	return "/conversations/" + url.PathEscape(string(id)) + "/" + suffix
}

// do performs one JSON request. A nil in sends no body; a nil out discards the response.
func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	u := c.baseURL + path

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: marshaling request: %w", op, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("%s: creating request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("request failed", "op", op, "method", method, "url", u, "error", err)
		return &NetworkError{Op: op, URL: u, Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug("request completed",
		"op", op,
		"method", method,
		"url", u,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{
			Op:         op,
			StatusCode: resp.StatusCode,
			URL:        u,
			Body:       strings.TrimSpace(string(snippet)),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decoding response: %w", op, err)
	}
	return nil
}

func nonNil(cs []Conversation) []Conversation {
	if cs == nil {
		return []Conversation{}
	}
	return cs
}
