// Package database provides the SQLite-backed catalog repository.
//
// It stores:
//   - Catalog items (folders, movies, series, seasons, episodes, audio)
//   - People linked to items (actors, directors, artists)
//   - Denormalized ancestry (top parent IDs) recomputed after scans
//
// The database uses WAL mode for improved concurrent read performance
// and includes automatic schema initialization. List-valued item fields
// are stored as JSON text columns; timestamps are stored as Unix
// nanoseconds so modification times survive a round trip exactly.
package database
