//go:build integration

// Package testdb provides utilities for database integration tests.
//
// Tests run against the database named by DATABASE_URL (or
// UETODO_TEST_DATABASE_URL) and are skipped when neither is set. The schema
// is migrated once per test binary with the embedded goose migrations, and
// each test works inside a transaction that is rolled back when it returns,
// so tests can run in parallel without cleanup:
//
//	func TestUserStore(t *testing.T) {
//	    t.Parallel()
//	    db := testdb.GetTestDBWithT(t)
//
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        users := postgres.NewPostgresUserStore(tx, logger)
//	        // ...
//	    })
//	}
package testdb
