// Package sidebar is the conversation list view. It holds the most recent
// listing fetched from the service, which conversation is open, and whether the
// panel is collapsed. Selection and creation are not handled here; they are
// reported to the owner through the callbacks given to SetHandlers.
//
// Refreshes are tagged with a generation. When refreshes overlap, the listing
// from the newest generation is kept and older completions are dropped.
package sidebar
