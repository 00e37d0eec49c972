// Package testutil provides shared utilities for tests.
package testutil

import (
	"os"
	"testing"
)

// SetEnv sets an environment variable for the duration of a test.
func SetEnv(t *testing.T, key, value string) {
	t.Helper()
	old, existed := os.LookupEnv(key)
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("failed to set env %s: %v", key, err)
	}
	t.Cleanup(func() {
		if existed {
			os.Setenv(key, old)
		} else {
			os.Unsetenv(key)
		}
	})
}

// SkipIfShort skips long-running tests when -short flag is used.
func SkipIfShort(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping test in short mode")
	}
}

// RequireEnv skips the test unless key is set, returning its value.
// Used to gate tests that need a live Postgres or Redis.
func RequireEnv(t *testing.T, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("Skipping: %s not set. Run with docker-compose up -d", key)
	}
	return value
}
