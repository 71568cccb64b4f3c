// Package resolvers turns filesystem entries into catalog items.
//
// Resolution runs through a prioritized chain: each resolver inspects
// the entry (and its surroundings via Context) and either claims it by
// returning an item or passes. Lower priority numbers run first, so the
// most specific shapes (movies, series) get a look before the generic
// fallbacks (plain video, plain folder). A resolver that errors or
// panics is logged and skipped; it never blocks the entry's siblings.
//
// The movie resolver additionally implements folder-level resolution,
// seeing all of a folder's files at once so it can join stacked parts
// ("cd1"/"cd2"), fold alternate versions of the same movie, and attach
// extra-suffixed siblings ("-trailer", "-sample") to their owner. Files
// it declines are handed back for single-entry resolution.
package resolvers
