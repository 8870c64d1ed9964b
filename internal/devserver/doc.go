// Package devserver is a local stand-in for the conversation service. It
// serves the same REST routes under /api so the web and terminal clients can
// be developed and tested without the hosted backend.
//
// Replies echo the user's message; summaries are the "sender: content"
// transcript. Conversations live in memory or, with NewSQLiteStore, in a
// SQLite file.
//
//	srv := devserver.New(devserver.NewMemoryStore(), nil, logger)
//	http.ListenAndServe(":8000", srv)
package devserver
