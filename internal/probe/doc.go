// Package probe defines the interface to an external media prober and
// the types its results arrive in. The catalog only reads probe data;
// running ffprobe or an equivalent is the host's concern.
package probe
