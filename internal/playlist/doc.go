// Package playlist parses playlist files found in music libraries.
//
// Supported formats:
//   - M3U / M3U8, including the #PLAYLIST and #EXTINF extended directives
//   - WPL / ZPL, the smil-based format Windows Media Player and Zune write
//
// Media references inside a playlist are resolved against the playlist
// file's own directory. References written on another system (drive
// letters, backslash separators, foreign mounts) fall back to a file of
// the same name next to the playlist, so a playlist copied into a music
// folder together with its tracks still resolves. Unresolvable entries
// are kept with Exists=false; the playlist item stays useful even when
// some referenced files are gone.
//
// The resolver chain catalogs playlist files as leaf items; entries
// reference audio items by path and are not materialized as children.
package playlist
