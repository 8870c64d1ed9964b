// Package chat is the page-level orchestrator. A Page owns which conversation
// is open and a refresh counter; it wires the sidebar's select and create
// callbacks to opening and starting conversations, and listens to the open
// thread so that ending a conversation refreshes the list.
//
// Renderers do not poll. They Subscribe and re-render the part of the page an
// Update names:
//
//	updates, _ := page.Subscribe(ctx)
//	for u := range updates {
//	    switch u.Kind {
//	    case chat.UpdateList, chat.UpdateOpen:
//	        // re-render sidebar (and thread for open)
//	    case chat.UpdateThread:
//	        // re-render thread, scroll to newest
//	    case chat.UpdateNotice:
//	        // show u.Notice.Message()
//	    }
//	}
//
// Every failure, whatever the operation, is recorded as a Notice and published
// with kind UpdateNotice.
package chat
