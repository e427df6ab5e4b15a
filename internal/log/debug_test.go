package log

import (
	"os"
	"path/filepath"
	"testing"
)

func resetWriter(t *testing.T) func() {
	t.Helper()

	writer.mu.Lock()
	prevFile := writer.file
	writer.file = nil
	writer.mu.Unlock()

	return func() {
		writer.mu.Lock()
		if writer.file != nil {
			_ = writer.file.Close()
		}
		writer.file = prevFile
		writer.mu.Unlock()
	}
}

func TestSetFileFailureLeavesLoggingDiscarded(t *testing.T) {
	restore := resetWriter(t)
	t.Cleanup(restore)

	unwritableDir := t.TempDir()
	if err := os.Chmod(unwritableDir, 0o500); err != nil { //nolint:gosec
		t.Fatalf("set directory permissions: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Chmod(unwritableDir, 0o700) //nolint:gosec
	})

	logPath := filepath.Join(unwritableDir, "debug.log")
	if err := SetFile(logPath); err == nil {
		t.Fatalf("expected SetFile to fail for %q", logPath)
	}

	writer.mu.Lock()
	file := writer.file
	writer.mu.Unlock()
	if file != nil {
		t.Fatalf("expected no file to be open after SetFile failure")
	}

	// Printf/Close must not panic once discarding.
	Printf("should be discarded")
	if err := Close(); err != nil {
		t.Fatalf("Close after discard: %v", err)
	}
}

func TestSetFileWritesAndClose(t *testing.T) {
	restore := resetWriter(t)
	t.Cleanup(restore)

	logPath := filepath.Join(t.TempDir(), "debug.log")
	if err := SetFile(logPath); err != nil {
		t.Fatalf("SetFile: %v", err)
	}

	Printf("hello %s", "world")

	if err := Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	got, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if len(got) == 0 {
		t.Fatalf("expected log file to contain the written message")
	}
}

func TestSetFileEmptyPathTurnsLoggingOff(t *testing.T) {
	restore := resetWriter(t)
	t.Cleanup(restore)

	if err := SetFile(""); err != nil {
		t.Fatalf("SetFile(\"\"): %v", err)
	}

	writer.mu.Lock()
	file := writer.file
	writer.mu.Unlock()
	if file != nil {
		t.Fatalf("expected no file open after SetFile(\"\")")
	}

	Printf("discarded")
}
