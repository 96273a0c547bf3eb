// Package store reads join inputs out of SQLite databases.
//
// The store is strictly read-only: databases are opened with mode=ro and
// PRAGMA query_only, and nothing in this package writes. A table is read in
// full into ir.IRObject records, one per row, keyed by column name.
//
// # Deterministic Reads
//
// Rows are returned ORDER BY rowid, so the insertion-ordered mapping built
// from them (and therefore join output order) is stable across runs. Tables
// declared WITHOUT ROWID and views are not supported.
//
// # Value Mapping
//
//   - INTEGER → ir.IRInt
//   - TEXT, BLOB → ir.IRString
//   - NULL → ir.IRNull
//   - DATETIME/TIMESTAMP columns → ir.IRString (RFC 3339)
//   - REAL → error (records carry no floats)
package store
