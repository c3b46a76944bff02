// Package testing holds doubles and fixtures shared by the package tests.
package testing

import (
	"errors"
	"io"
	"os"
	"testing"
)

var (
	errWrite      = errors.New("write failed")
	errWriteLimit = errors.New("write limit exceeded")
)

// FWriter fails every write.
type FWriter struct{}

func (f *FWriter) Write(p []byte) (int, error) {
	return 0, errWrite
}

// LimitedWriter forwards to target until maxWrites writes have happened, then fails.
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (int, error) {
	if l.written >= l.maxWrites {
		return 0, errWriteLimit
	}
	l.written++
	return l.target.Write(p)
}

// NewLimitedWriter creates a writer that has already seen written of its maxWrites writes.
func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// AssertFileExists fails t when nothing exists at path.
func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected file at %s", path)
	}
}

// MustReadFile returns the contents of path, stopping t on error.
func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(content)
}
