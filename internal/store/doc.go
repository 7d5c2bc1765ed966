// Package store is the in-memory SQLite ledger of a run's check results.
//
// Each Open creates a private ":memory:" database; nothing is ever written
// to disk. The ledger exists so per-category summaries and failure listings
// are SQL queries over the ordered results instead of ad hoc loops.
//
// Rows are ordered by the logical seq assigned by the Scenario Runner,
// never by insertion time. Every query ends in ORDER BY seq.
package store
