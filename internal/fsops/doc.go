// Package fsops provides filesystem access for library traversal: filtered
// directory enumeration with root flattening and shortcut resolution, path
// normalization, and retry logic for NFS stale file handle errors.
//
// The LocalFileSystem type is the disk-backed implementation of the
// catalog.FileSystem interface. Enumeration returns plain Entry values so
// the resolution pipeline never touches os.File handles directly.
//
// Metric recording goes through the Observer interface; the implementation
// is provided by the metrics package to break the import cycle between
// fsops and metrics.
package fsops
