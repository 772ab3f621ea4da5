package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// DefaultPath is the log file, relative to the working directory (project root when run via
// go run ./cmd/piano).
const DefaultPath = "logs/piano.txt"

// maxEntries bounds the in-memory history shown by the overlay.
const maxEntries = 500

// Entry is one logged line.
type Entry struct {
	Time  time.Time
	Level slog.Level
	Text  string
}

// String formats the entry the way it is shown on screen: [timestamp] LEVEL text.
func (e Entry) String() string {
	return "[" + e.Time.Format("2006-01-02 15:04:05") + "] " + e.Level.String() + " " + e.Text
}

// Logger keeps recent lines in memory (for the on-screen overlay) and writes every line through
// slog to stderr and to a log file on disk.
type Logger struct {
	mu      sync.Mutex
	entries []Entry
	once    map[string]struct{}
	log     *slog.Logger

	// OnProblem, if set, is called after every warning or error.
	OnProblem func(Entry)
}

// New returns a Logger appending to path (created with its directory if needed). An empty path
// logs to stderr only.
func New(path string) *Logger {
	var w io.Writer = os.Stderr
	if path != "" {
		_ = os.MkdirAll(filepath.Dir(path), 0755)
		w = io.MultiWriter(os.Stderr, appendFile(path))
	}
	return NewWithWriter(w)
}

// NewWithWriter returns a Logger whose slog output goes to w.
func NewWithWriter(w io.Writer) *Logger {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	return &Logger{
		log:  slog.New(h),
		once: make(map[string]struct{}),
	}
}

// appendFile opens, appends and closes on every write so the file can be rotated or deleted
// while the viewer runs.
type appendFile string

func (p appendFile) Write(b []byte) (int, error) {
	f, err := os.OpenFile(string(p), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		// losing the file copy must not break logging to stderr
		return len(b), nil
	}
	defer f.Close()
	return f.Write(b)
}

func (l *Logger) Info(msg string, args ...any)  { l.emit(slog.LevelInfo, msg, args...) }
func (l *Logger) Warn(msg string, args ...any)  { l.emit(slog.LevelWarn, msg, args...) }
func (l *Logger) Error(msg string, args ...any) { l.emit(slog.LevelError, msg, args...) }
func (l *Logger) Debug(msg string, args ...any) { l.emit(slog.LevelDebug, msg, args...) }

// Once logs at level only the first time key is seen and reports whether it logged.
func (l *Logger) Once(key string, level slog.Level, msg string, args ...any) bool {
	l.mu.Lock()
	_, seen := l.once[key]
	if !seen {
		l.once[key] = struct{}{}
	}
	l.mu.Unlock()
	if seen {
		return false
	}
	l.emit(level, msg, args...)
	return true
}

// Slog exposes the underlying structured logger for libraries that take one.
func (l *Logger) Slog() *slog.Logger {
	return l.log
}

func (l *Logger) emit(level slog.Level, msg string, args ...any) {
	l.log.Log(context.Background(), level, msg, args...)
	e := Entry{Time: time.Now(), Level: level, Text: format(msg, args)}

	l.mu.Lock()
	l.entries = append(l.entries, e)
	if len(l.entries) > maxEntries {
		l.entries = append(l.entries[:0], l.entries[len(l.entries)-maxEntries:]...)
	}
	hook := l.OnProblem
	l.mu.Unlock()

	if level >= slog.LevelWarn && hook != nil {
		hook(e)
	}
}

// format renders msg followed by key=value pairs, matching slog's argument convention.
func format(msg string, args []any) string {
	if len(args) == 0 {
		return msg
	}
	var b strings.Builder
	b.WriteString(msg)
	for i := 0; i < len(args); i += 2 {
		if i+1 >= len(args) {
			fmt.Fprintf(&b, " %v", args[i])
			break
		}
		fmt.Fprintf(&b, " %v=%v", args[i], args[i+1])
	}
	return b.String()
}

// Entries returns a copy of stored entries at or above min.
func (l *Logger) Entries(min slog.Level) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, 0, len(l.entries))
	for _, e := range l.entries {
		if e.Level >= min {
			out = append(out, e)
		}
	}
	return out
}

// Lines returns all stored entries formatted for display.
func (l *Logger) Lines() []string {
	entries := l.Entries(slog.LevelDebug)
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.String()
	}
	return out
}
