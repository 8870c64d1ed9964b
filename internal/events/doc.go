// Package events provides an in-memory, typed fan-out broadcaster.
//
// Subscribers register for a key and receive every value published on that key
// after they subscribed. Delivery is fire-and-forget: there is no replay for
// late subscribers, and a subscriber whose buffer is full misses the value.
//
//	b := events.NewBroadcaster[chat.Update](logger)
//	ch, _ := b.Subscribe(ctx, sessionID)
//	b.Publish(sessionID, chat.Update{Kind: chat.UpdateList}, "")
package events
