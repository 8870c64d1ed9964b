// Package tui is the terminal chat client: a bubbletea program over a
// chat.Page. The conversation list sits on the left and the open thread on
// the right; ending a conversation renders its summary with glamour.
//
// Keys and slash commands (/new, /end, /clear, /reload, /help, /quit) call
// into the page from tea.Cmds so network calls never block the program loop.
// The model re-renders whenever the page publishes an update.
package tui
