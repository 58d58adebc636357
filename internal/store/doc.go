// Package store declares the persistence contracts for users, tasks and the
// per-user token row, plus the shared pieces every implementation uses:
// the DBTX abstraction over *sql.DB and *sql.Tx, RunInTransaction, page
// arithmetic and the sentinel errors services test with errors.Is.
package store
