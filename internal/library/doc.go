// Package library persists named timeline projects in SQLite.
//
// Each row holds a complete project document (the same JSON the timelinefile
// package writes) plus summary columns for listing. The schema is managed by
// embedded, ordered migrations recorded in schema_migrations. Writes retry
// briefly when the database is busy.
package library
