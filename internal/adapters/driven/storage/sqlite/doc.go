// Package sqlite implements document persistence on SQLite.
//
// The database holds document metadata and extracted text; the term
// index is derived state and lives outside the database entirely.
package sqlite
