// Package notify debounces library change events into per-user batches.
//
// Changes arrive one item at a time during scans and watcher callbacks.
// The notifier holds them until the library has been quiet for a full
// window (30 seconds by default; every new change restarts the window),
// then emits one diff per connected user, filtered to what that user
// can see, with physical library roots replaced by the user's view
// folders. A user whose diff comes up empty gets nothing.
package notify
