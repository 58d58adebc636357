// Package postgres implements the store interfaces on PostgreSQL through
// database/sql and the pgx stdlib driver. Every store accepts a store.DBTX so
// it can run on the pool or, via WithTx, inside a transaction opened with
// store.RunInTransaction. The schema lives in the embedded goose migrations.
package postgres
