// Package thread holds the state of one open conversation: its message
// sequence, the compose input and the advisory busy flag.
//
// # Sending
//
// A send is optimistic. Begin appends the user's entry (status pending) and
// clears the input before any network I/O; Complete performs the request and
// appends either the assistant reply or a fixed failure notice. Send does both.
//
//	if p, ok := th.Begin(text); ok {
//	    go th.Complete(ctx, p)
//	}
//
// Within one send the user entry always precedes its reply. Overlapping sends
// are allowed at the data level but carry no ordering guarantee between them;
// renderers consult Busy to discourage them.
//
// # Entry status
//
//   - pending:   user entry whose send is in flight
//   - confirmed: from server history, or acknowledged by a successful send
//   - failed:    user entry whose send failed
//   - local:     client-synthesized notice (failure or summary)
//
// Reload reconciles against the server: history replaces everything confirmed,
// pending entries are kept after it, failed entries and local notices are dropped.
//
// # Listener
//
// Outcomes are reported through a Listener registered at construction: every
// mutation (ThreadChanged), a successful end (ThreadEnded) and every failure
// (ThreadFailed).
package thread
