//go:build integration

package testdb

import "os"

// databaseURLVars are checked in order; the first non-empty value wins.
var databaseURLVars = []string{"DATABASE_URL", "UETODO_TEST_DATABASE_URL"}

// GetTestDatabaseURL returns the database URL for tests, or "" when none is configured.
func GetTestDatabaseURL() string {
	for _, name := range databaseURLVars {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// IsIntegrationTestEnvironment reports whether a test database is configured.
func IsIntegrationTestEnvironment() bool {
	return GetTestDatabaseURL() != ""
}

// ShouldSkipDatabaseTest returns true if the database connection environment variables
// are not set, indicating that database integration tests should be skipped.
func ShouldSkipDatabaseTest() bool {
	return !IsIntegrationTestEnvironment()
}
