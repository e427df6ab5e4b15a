// Package log is owt's package-level debug logger, switched on by
// cmd/owt's --debug-log flag. runTUI calls SetFile as the very first thing
// it does, before config load, bare-repo discovery, or the model is built,
// so unlike a general-purpose logging library owt never needs to buffer
// messages logged before a destination is known: every Printf/Println call
// in the program happens after SetFile has already run once.
package log

import (
	"log"
	"os"
	"sync"
)

// debugWriter forwards to an open file, or discards silently when none is
// set. It implements io.Writer so the standard log.Logger can wrap it.
type debugWriter struct {
	mu   sync.Mutex
	file *os.File
}

var (
	writer    = &debugWriter{}
	stdLogger = log.New(writer, "", log.LstdFlags|log.Lmicroseconds)
)

// Write implements io.Writer.
func (w *debugWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return len(p), nil
	}
	n, err := w.file.Write(p)
	_ = w.file.Sync() // watch/dispatcher goroutines log concurrently; flush so a crash doesn't lose the tail
	return n, err
}

// SetFile points debug logging at path, closing any file opened by a
// previous call first. An empty path turns logging off.
func SetFile(path string) error {
	writer.mu.Lock()
	defer writer.mu.Unlock()

	if writer.file != nil {
		_ = writer.file.Close()
		writer.file = nil
	}

	if path == "" {
		return nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) //nolint:gosec
	if err != nil {
		return err
	}
	writer.file = f
	return nil
}

// Printf writes a formatted debug message via the standard logger.
func Printf(format string, args ...any) {
	stdLogger.Printf(format, args...)
}

// Println writes a debug message via the standard logger.
func Println(v ...any) {
	stdLogger.Println(v...)
}

// Close closes the debug log file if open.
func Close() error {
	writer.mu.Lock()
	defer writer.mu.Unlock()

	if writer.file == nil {
		return nil
	}
	err := writer.file.Close()
	writer.file = nil
	return err
}
