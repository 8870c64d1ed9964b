// Package api is the HTTP client for the remote conversation/summarization service.
//
// # Overview
//
// The service exposes a small REST surface under a configurable base URL
// (including its /api prefix). Client maps each logical operation to one
// request and decodes the JSON response. There is no retry, caching or
// authentication: every non-2xx response is a failure.
//
// # Operations
//
//   - ListConversations:    GET  /conversations/
//   - ListAllConversations: GET  /conversations/all/
//   - GetConversation:      GET  /conversations/{id}/
//   - GetHistory:           GET  /conversations/{id}/history/
//   - CreateConversation:   POST /conversations/create/
//   - SendMessage:          POST /conversations/{id}/send/
//   - EndConversation:      POST /conversations/{id}/end/
//
// # Errors
//
// Failures fall into two kinds:
//
//   - *NetworkError: the request never completed (DNS, connection, timeout)
//   - *StatusError:  the request completed with a non-2xx status
//
// A 404 StatusError matches ErrNotFound:
//
//	hist, err := c.GetHistory(ctx, id)
//	if errors.Is(err, api.ErrNotFound) {
//	    // unknown conversation
//	}
//
// # Usage
//
//	c := api.New("https://chat-summarizer.zeabur.app/api")
//	conv, err := c.CreateConversation(ctx, "New Chat")
//	reply, err := c.SendMessage(ctx, conv.ID, "Hello")
package api
