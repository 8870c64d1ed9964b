// ABOUTME: Tests for the conversation service HTTP client
// ABOUTME: Drives each endpoint against an httptest server and checks error kinds

package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL + "/api")
}

func TestNew_DefaultsBaseURL(t *testing.T) {
	assert.Equal(t, DefaultBaseURL, New("").BaseURL())
	assert.Equal(t, "http://localhost:8000/api", New("http://localhost:8000/api/").BaseURL())
}

func TestListAllConversations(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/conversations/all/", r.URL.Path)
		_, _ = io.WriteString(w, `[
			{"id": 2, "title": "Pricing", "summary": "Discussed pricing.", "status": "ended", "created_at": "2025-01-02T10:00:00Z"},
			{"id": 1, "title": "", "summary": null, "status": "active"}
		]`)
	})

	convs, err := c.ListAllConversations(t.Context())
	require.NoError(t, err)
	require.Len(t, convs, 2)

	assert.Equal(t, ID("2"), convs[0].ID)
	assert.Equal(t, "Discussed pricing.", convs[0].Summary)
	assert.True(t, convs[0].Ended())
	assert.Equal(t, ID("1"), convs[1].ID)
	assert.Empty(t, convs[1].Summary)
	assert.False(t, convs[1].Ended())
}

func TestListConversations_EmptyBodyIsEmptySlice(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/conversations/", r.URL.Path)
		_, _ = io.WriteString(w, `null`)
	})

	convs, err := c.ListConversations(t.Context())
	require.NoError(t, err)
	assert.NotNil(t, convs)
	assert.Empty(t, convs)
}

func TestGetHistory(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/conversations/7/history/", r.URL.Path)
		_, _ = io.WriteString(w, `{
			"conversation_id": 7,
			"title": "New Chat",
			"summary": null,
			"status": "active",
			"messages": [
				{"sender": "user", "content": "Hello", "timestamp": "2025-01-02T10:00:00.123456Z"},
				{"sender": "ai", "content": "Hi there!", "timestamp": "2025-01-02T10:00:01Z"}
			]
		}`)
	})

	h, err := c.GetHistory(t.Context(), "7")
	require.NoError(t, err)
	assert.Equal(t, ID("7"), h.ID)
	assert.Equal(t, "New Chat", h.Title)
	require.Len(t, h.Messages, 2)
	assert.Equal(t, SenderUser, h.Messages[0].Sender)
	assert.Equal(t, "Hi there!", h.Messages[1].Content)
	assert.False(t, h.Messages[0].Time().IsZero())
}

func TestGetHistory_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error": "Conversation not found"}`)
	})

	_, err := c.GetHistory(t.Context(), "404")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.True(t, IsServer(err))
	assert.False(t, IsNetwork(err))

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
	assert.Contains(t, se.Body, "Conversation not found")
}

func TestGetConversation(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/conversations/abc/", r.URL.Path)
		_, _ = io.WriteString(w, `{"id": "abc", "title": "Chat", "summary": "short"}`)
	})

	conv, err := c.GetConversation(t.Context(), "abc")
	require.NoError(t, err)
	assert.Equal(t, ID("abc"), conv.ID)
	assert.Equal(t, "short", conv.Summary)
}

func TestCreateConversation(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/conversations/create/", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "New Chat", body["title"])

		_, _ = io.WriteString(w, `{"id": 12, "title": "New Chat"}`)
	})

	conv, err := c.CreateConversation(t.Context(), "New Chat")
	require.NoError(t, err)
	assert.Equal(t, ID("12"), conv.ID)
	assert.Equal(t, "New Chat", conv.Title)
}

func TestCreateConversation_ServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.CreateConversation(t.Context(), "New Chat")
	require.Error(t, err)
	assert.True(t, IsServer(err))
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestSendMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/conversations/3/send/", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "user", body["sender"])
		assert.Equal(t, "Hello", body["content"])

		_, _ = io.WriteString(w, `{"user_message": "Hello", "ai_response": "Hi there!"}`)
	})

	reply, err := c.SendMessage(t.Context(), "3", "Hello")
	require.NoError(t, err)
	assert.Equal(t, "Hi there!", reply)
}

func TestEndConversation(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/conversations/3/end/", r.URL.Path)
		_, _ = io.WriteString(w, `{"status": "Conversation ended", "summary": "Discussed pricing."}`)
	})

	summary, err := c.EndConversation(t.Context(), "3")
	require.NoError(t, err)
	assert.Equal(t, "Discussed pricing.", summary)
}

func TestNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := New(url + "/api")
	_, err := c.SendMessage(t.Context(), "1", "Hello")
	require.Error(t, err)
	assert.True(t, IsNetwork(err))
	assert.False(t, IsServer(err))
}

func TestWithTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	c := New(srv.URL+"/api", WithTimeout(50*time.Millisecond))
	_, err := c.ListAllConversations(t.Context())
	require.Error(t, err)
	assert.True(t, IsNetwork(err))
}

func TestDecodeError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `not json`)
	})

	_, err := c.EndConversation(t.Context(), "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding response")
	assert.False(t, IsNetwork(err))
	assert.False(t, IsServer(err))
}

func TestID_JSON(t *testing.T) {
	var ids []ID
	require.NoError(t, json.Unmarshal([]byte(`[1, "abc", null]`), &ids))
	assert.Equal(t, []ID{"1", "abc", ""}, ids)

	data, err := json.Marshal([]ID{"5", "x-1", "007", "+5", "-3"})
	require.NoError(t, err)
	assert.JSONEq(t, `[5, "x-1", "007", "+5", -3]`, string(data))

	var back []ID
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, []ID{"5", "x-1", "007", "+5", "-3"}, back)
}

func TestNetworkError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := &NetworkError{Op: "get history", URL: "http://x", Err: cause}
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "get history")
}
