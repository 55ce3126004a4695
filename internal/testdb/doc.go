// Package testdb provides utilities for database-backed tests.
//
// Tests run against the PostgreSQL database named by DATABASE_URL (or
// TASKIFY_TEST_DB_URL) and are skipped when neither is set. Each test runs in
// its own transaction, which is rolled back when the test completes, so tests
// can run in parallel without cleaning up after themselves:
//
//	func TestMyFeature(t *testing.T) {
//	    t.Parallel()
//	    db := testdb.GetTestDBWithT(t)
//
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        users := postgres.NewPostgresUserStore(tx, nil)
//	        // ...
//	    })
//	}
package testdb
