package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"discsub/internal/submission"
)

// WriteFile writes content to path, creating parent directories.
func WriteFile(t testing.TB, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteRecord serializes rec to path as plain JSON.
func WriteRecord(t testing.TB, path string, rec *submission.Record) {
	t.Helper()

	data, err := submission.Marshal(rec, false)
	if err != nil {
		t.Fatalf("marshal record: %v", err)
	}
	WriteFile(t, path, string(data))
}

// ReadFile returns the content of path.
func ReadFile(t testing.TB, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}
