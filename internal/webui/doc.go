// Package webui serves the browser frontend.
//
// The chat state machine stays in Go: every browser session (a cookie holding
// a UUID) owns one chat.Page, and the browser is a thin renderer. Forms post
// to /ui/* and receive the updated partial back; a websocket on /ui/events
// tells the browser which partial to re-fetch when background work finishes,
// such as an assistant reply or a list refresh.
//
// Routes:
//
//	GET  /                         full page
//	GET  /ui/sidebar               conversation list partial
//	GET  /ui/thread                notices plus thread or placeholder
//	GET  /ui/events                websocket of {"type": "list"|"thread"|"notice"|"open"}
//	POST /ui/conversations         start a conversation
//	POST /ui/conversations/{id}/open
//	POST /ui/send                  content=...
//	POST /ui/end
//	POST /ui/reload
//	POST /ui/clear
//	POST /ui/sidebar/toggle
//	POST /ui/notices/dismiss
//	GET  /health
//
// Sessions idle for longer than the configured timeout, with no open event
// stream, are closed.
package webui
