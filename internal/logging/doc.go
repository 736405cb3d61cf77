// Package logging assembles structured slog loggers for morpher.
//
// It owns the console and JSON handlers, level parsing and output plumbing,
// and the context helpers that tag records with the editing session and the
// timeline being worked on. NewNop gives tests and optional wiring a logger
// that cannot fail.
package logging
