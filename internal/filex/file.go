// Package filex holds small filesystem helpers shared by the client
// commands.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureParentDir creates the directory that will hold path, owner-only.
// A bare file name needs nothing.
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == string(filepath.Separator) {
		return nil
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return nil
}

// IsPlainPath reports whether a SQLite DSN names a file on disk rather than
// an in-memory database or a file: URI.
func IsPlainPath(dsn string) bool {
	if dsn == "" || dsn == ":memory:" {
		return false
	}
	return len(dsn) < 5 || dsn[:5] != "file:"
}
