// Package testdb provides document stores for tests.
//
// Every backend implements database.Store, so behaviour tests can run the
// same assertions against each one:
//
//	func TestSomething(t *testing.T) {
//	    testdb.ForEachStore(t, func(t *testing.T, store database.Store) {
//	        // ...
//	    })
//	}
//
// # Backends
//
// memory and sqlite always run. sqlite uses a file in t.TempDir().
//
// redis runs when TEST_REDIS_ADDR is set and uses TEST_REDIS_DB (default 15).
// The database is flushed before and after the test.
//
// surrealdb runs when TEST_DB_HOST is set. Each store gets its own
// namespace, removed again on cleanup:
//
//	TEST_DB_HOST=localhost TEST_DB_PORT=8000 go test ./...
package testdb
