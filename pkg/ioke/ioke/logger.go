package ioke

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sambeau/ioke/config"
)

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// NewLogger builds a logger from logging settings. Output "stdout" and
// "stderr" select the given writers; anything else is a file opened for
// appending, which the returned closer closes. The closer is never nil.
func NewLogger(cfg config.LoggingConfig, stdout, stderr io.Writer) (*slog.Logger, io.Closer, error) {
	level, ok := logLevels[cfg.Level]
	if !ok {
		return nil, nil, fmt.Errorf("invalid log level: %s", cfg.Level)
	}

	var w io.Writer
	var closer io.Closer = nopCloser{}
	switch cfg.Output {
	case "", "stderr":
		w = stderr
	case "stdout":
		w = stdout
	default:
		if err := os.MkdirAll(filepath.Dir(cfg.Output), 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w, closer = f, f
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch cfg.Format {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	case "", "text":
		handler = slog.NewTextHandler(w, opts)
	default:
		closer.Close()
		return nil, nil, fmt.Errorf("invalid log format: %s", cfg.Format)
	}
	return slog.New(handler), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// BufferedOutput captures log output line by line, for tests and for
// embedders that surface logs themselves.
type BufferedOutput struct {
	mu    sync.Mutex
	lines []string
	buf   strings.Builder
}

// NewBufferedOutput creates an empty buffer.
func NewBufferedOutput() *BufferedOutput {
	return &BufferedOutput{lines: make([]string, 0)}
}

// Write implements io.Writer. Complete lines are split off as they arrive.
func (b *BufferedOutput) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.Write(p)
	pending := b.buf.String()
	for {
		i := strings.IndexByte(pending, '\n')
		if i < 0 {
			break
		}
		b.lines = append(b.lines, pending[:i])
		pending = pending[i+1:]
	}
	b.buf.Reset()
	b.buf.WriteString(pending)
	return len(p), nil
}

// Lines returns the complete lines captured so far.
func (b *BufferedOutput) Lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	result := make([]string, len(b.lines))
	copy(result, b.lines)
	return result
}

// String returns everything captured, including a trailing partial line.
func (b *BufferedOutput) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	result := strings.Join(b.lines, "\n")
	if len(b.lines) > 0 {
		result += "\n"
	}
	return result + b.buf.String()
}

// Reset clears all captured output.
func (b *BufferedOutput) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines = b.lines[:0]
	b.buf.Reset()
}
