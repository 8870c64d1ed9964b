// ABOUTME: Tests for the development backend HTTP handlers
// ABOUTME: Drives the routes through the real API client plus raw requests for edge cases

package devserver

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/chat-summariser/internal/api"
)

func newTestServer(t *testing.T) (*httptest.Server, *api.Client) {
	t.Helper()
	srv := httptest.NewServer(New(NewMemoryStore(), nil, nil))
	t.Cleanup(srv.Close)
	return srv, api.New(srv.URL + "/api")
}

func TestServer_Lifecycle(t *testing.T) {
	_, client := newTestServer(t)
	ctx := t.Context()

	conv, err := client.CreateConversation(ctx, "New Chat")
	require.NoError(t, err)
	assert.Equal(t, "New Chat", conv.Title)
	assert.NotEmpty(t, conv.ID)

	reply, err := client.SendMessage(ctx, conv.ID, "Hello")
	require.NoError(t, err)
	assert.Contains(t, reply, "Hello")

	hist, err := client.GetHistory(ctx, conv.ID)
	require.NoError(t, err)
	assert.Equal(t, conv.ID, hist.ID)
	require.Len(t, hist.Messages, 2)
	assert.Equal(t, api.SenderUser, hist.Messages[0].Sender)
	assert.Equal(t, "Hello", hist.Messages[0].Content)
	assert.Equal(t, api.SenderAI, hist.Messages[1].Sender)
	assert.Equal(t, reply, hist.Messages[1].Content)
	assert.False(t, hist.Messages[0].Time().IsZero())
	assert.False(t, hist.Ended())

	summary, err := client.EndConversation(ctx, conv.ID)
	require.NoError(t, err)
	assert.Contains(t, summary, "user: Hello")

	got, err := client.GetConversation(ctx, conv.ID)
	require.NoError(t, err)
	assert.Equal(t, summary, got.Summary)
	assert.True(t, got.Ended())
}

func TestServer_ListsNewestFirst(t *testing.T) {
	_, client := newTestServer(t)
	ctx := t.Context()

	a, err := client.CreateConversation(ctx, "a")
	require.NoError(t, err)
	b, err := client.CreateConversation(ctx, "b")
	require.NoError(t, err)

	for _, list := range []func() ([]api.Conversation, error){
		func() ([]api.Conversation, error) { return client.ListConversations(ctx) },
		func() ([]api.Conversation, error) { return client.ListAllConversations(ctx) },
	} {
		convs, err := list()
		require.NoError(t, err)
		require.Len(t, convs, 2)
		assert.Equal(t, b.ID, convs[0].ID)
		assert.Equal(t, a.ID, convs[1].ID)
		assert.Equal(t, api.StatusActive, convs[0].Status)
		assert.NotEmpty(t, convs[0].CreatedAt)
	}
}

func TestServer_UnknownConversation(t *testing.T) {
	srv, client := newTestServer(t)
	ctx := t.Context()

	_, err := client.GetHistory(ctx, "42")
	assert.ErrorIs(t, err, api.ErrNotFound)
	_, err = client.SendMessage(ctx, "42", "hi")
	assert.ErrorIs(t, err, api.ErrNotFound)
	_, err = client.EndConversation(ctx, "not-a-number")
	assert.ErrorIs(t, err, api.ErrNotFound)

	resp, err := http.Get(srv.URL + "/api/conversations/42/history/")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"error": "Conversation not found"}`, string(body))
}

func TestServer_CreateDefaultsTitle(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/conversations/create/", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"id": 1, "title": "Untitled Conversation"}`, string(body))
}

func TestServer_SendRequiresContent(t *testing.T) {
	srv, client := newTestServer(t)
	conv, err := client.CreateConversation(t.Context(), "x")
	require.NoError(t, err)

	resp, err := http.Post(srv.URL+"/api/conversations/"+conv.ID.String()+"/send/", "application/json", strings.NewReader(`{"sender": "user"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_Health(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_CORSPreflight(t *testing.T) {
	srv, _ := newTestServer(t)
	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/conversations/create/", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestEchoResponder(t *testing.T) {
	r := EchoResponder{}
	assert.Contains(t, r.Reply(nil, "ping"), "**ping**")
	assert.Contains(t, r.Reply(nil, "show me a list"), "- First item")

	assert.Equal(t, "No messages were exchanged.", r.Summarize("  "))
	long := strings.Repeat("a", 600)
	assert.Len(t, []rune(r.Summarize(long)), maxSummaryRunes+1)
}

func TestTranscript(t *testing.T) {
	got := Transcript([]*Message{
		{Sender: "user", Content: "How much?"},
		{Sender: "ai", Content: "Ten."},
	})
	assert.Equal(t, "user: How much?\nai: Ten.", got)
}
