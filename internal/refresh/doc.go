// Package refresh holds the in-memory provider refresh queue. Scans
// queue items whose metadata needs (re)fetching; a single worker drains
// the queue through a host-supplied Handler. The queue never persists:
// a restart loses pending jobs and the next scan re-queues them.
package refresh
