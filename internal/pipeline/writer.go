package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"

	"discsub/internal/fileutil"
	"discsub/internal/formatter"
	"discsub/internal/services"
	"discsub/internal/submission"
)

// ErrLocked is returned when another run holds the output lock for a base name.
var ErrLocked = errors.New("output locked by another run")

// Artifacts are the files a write produced.
type Artifacts struct {
	ReportPath string
	JSONPath   string
}

// Writer places report and record files in an output directory.
type Writer struct {
	dir      string
	compress bool
}

// NewWriter constructs a Writer for dir. With compress the record is written
// gzip-compressed.
func NewWriter(dir string, compress bool) *Writer {
	return &Writer{dir: dir, compress: compress}
}

// ReportPath returns the report location for base.
func (w *Writer) ReportPath(base string) string {
	return filepath.Join(w.dir, base+"_submissionInfo.txt")
}

// JSONPath returns the record location for base.
func (w *Writer) JSONPath(base string) string {
	name := base + "_submissionInfo.json"
	if w.compress {
		name += ".gz"
	}
	return filepath.Join(w.dir, name)
}

// LockPath returns the lock file guarding base.
func (w *Writer) LockPath(base string) string {
	return filepath.Join(w.dir, base+".lock")
}

// Write stores the report lines and the record for base while holding the
// base name's lock. A nil lines slice skips the report; a nil record skips
// the JSON file.
func (w *Writer) Write(base string, lines []string, rec *submission.Record) (Artifacts, error) {
	var out Artifacts
	if strings.TrimSpace(base) == "" {
		return out, services.Wrap(services.ErrValidation, "write", "resolve name", "output base name is empty", nil)
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return out, services.Wrap(services.ErrConfiguration, "write", "create output dir", "could not create output directory", err)
	}

	lock := flock.New(w.LockPath(base))
	ok, err := lock.TryLock()
	if err != nil {
		return out, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return out, services.Wrap(services.ErrValidation, "write", "acquire lock",
			fmt.Sprintf("another run is writing %q", base), ErrLocked)
	}
	defer func() {
		_ = lock.Unlock()
		_ = os.Remove(lock.Path())
	}()

	if lines != nil {
		path := w.ReportPath(base)
		if err := fileutil.WriteAtomic(path, []byte(formatter.Text(lines)), 0o644); err != nil {
			return out, fmt.Errorf("write report: %w", err)
		}
		out.ReportPath = path
	}
	if rec != nil {
		data, err := submission.Marshal(rec, w.compress)
		if err != nil {
			return out, err
		}
		path := w.JSONPath(base)
		if err := fileutil.WriteAtomic(path, data, 0o644); err != nil {
			return out, fmt.Errorf("write record: %w", err)
		}
		out.JSONPath = path
	}
	return out, nil
}
