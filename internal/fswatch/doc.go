// Package fswatch watches library roots for filesystem changes.
//
// Events accumulate until the filesystem has been quiet for a few
// seconds, then the changed paths are handed to the change handler in
// one sorted batch. The validation orchestrator suspends the monitor
// for the duration of a scan; events arriving while suspended are
// dropped, since the scan will see their effects anyway.
package fswatch
