// ABOUTME: WebSocket push of page updates to the browser
// ABOUTME: Each message names the part of the page that changed

package webui

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"

	"github.com/2389/chat-summariser/internal/chat"
)

const writeTimeout = 5 * time.Second

// handleEvents streams the session's updates as {"type": ...} JSON messages
// until the browser disconnects or the server shuts down.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	sess := r.Context().Value(sessionKey{}).(*session)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Subscribe before the handshake completes so nothing published after the
	// client sees the connection open is missed.
	updates, _ := sess.page.Subscribe(ctx)

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.logger.Error("failed to accept websocket", "error", err)
		return
	}
	defer conn.CloseNow()

	sess.attach()
	defer sess.detach(time.Now())
	s.logger.Debug("event stream opened", "session", sess.id)

	// Browsers never send anything; CloseRead handles control frames and
	// cancels ctx when the peer goes away.
	ctx = conn.CloseRead(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("event stream closed", "session", sess.id)
			return
		case u, ok := <-updates:
			if !ok {
				conn.Close(websocket.StatusGoingAway, "server shutting down")
				return
			}
			if err := s.writeUpdate(ctx, conn, u); err != nil {
				s.logger.Debug("event stream write failed", "session", sess.id, "error", err)
				return
			}
		}
	}
}

func (s *Server) writeUpdate(ctx context.Context, conn *websocket.Conn, u chat.Update) error {
	data, err := json.Marshal(u)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, data)
}
