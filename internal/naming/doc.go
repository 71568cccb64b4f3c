// Package naming implements the filename-pattern algorithms that turn raw
// file and folder names into catalog structure: name/year parsing,
// decoration stripping, multi-part stack detection, alternate-version
// grouping, extras classification, and season/episode number parsing.
//
// Everything here is pure string work on paths and names. Nothing in this
// package touches the filesystem, so the full rule set is testable with
// plain table tests.
package naming
