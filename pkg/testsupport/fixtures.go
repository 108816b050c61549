package testsupport

import (
	"os"
	"testing"
)

// LoadFixture reads a fixture file or fails the test.
func LoadFixture(tb testing.TB, path string) []byte {
	tb.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		tb.Fatalf("load fixture %s: %v", path, err)
	}
	return data
}
