package logger

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Entry is a captured WARN or ERROR record shown in the status bar
type Entry struct {
	Time    time.Time
	Level   slog.Level
	Message string
}

// ring is a fixed-size circular buffer of recent entries
type ring struct {
	mu      sync.RWMutex
	entries []Entry
	head    int
	count   int

	warnCount  int
	errorCount int
}

func newRing(size int) *ring {
	return &ring{entries: make([]Entry, size)}
}

func (r *ring) add(e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[r.head] = e
	r.head = (r.head + 1) % len(r.entries)
	if r.count < len(r.entries) {
		r.count++
	}

	if e.Level >= slog.LevelError {
		r.errorCount++
	} else if e.Level >= slog.LevelWarn {
		r.warnCount++
	}
}

func (r *ring) all() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	size := len(r.entries)
	out := make([]Entry, r.count)
	for i := 0; i < r.count; i++ {
		out[i] = r.entries[(r.head-r.count+i+size)%size]
	}
	return out
}

func (r *ring) counts() (warn, err int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.warnCount, r.errorCount
}

// captureHandler copies WARN and ERROR records into the ring
type captureHandler struct {
	inner slog.Handler
	ring  *ring
}

func (h *captureHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *captureHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelWarn {
		h.ring.add(Entry{Time: r.Time, Level: r.Level, Message: r.Message})
	}
	return h.inner.Handle(ctx, r)
}

func (h *captureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &captureHandler{inner: h.inner.WithAttrs(attrs), ring: h.ring}
}

func (h *captureHandler) WithGroup(name string) slog.Handler {
	return &captureHandler{inner: h.inner.WithGroup(name), ring: h.ring}
}

var (
	// Log is the global structured logger
	Log *slog.Logger
	// LogPath is the path to the current log file
	LogPath string

	logWriter *lumberjack.Logger
	recent    *ring
)

// ParseLevel maps a level name to a slog level, defaulting to info
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// Init installs the global logger writing JSON to a rotating file at path.
// A TUI owns the terminal, so nothing is ever written to stdout.
func Init(level slog.Level, path string) {
	LogPath = path
	logWriter = &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     7, // days
		Compress:   true,
	}
	InitWriter(level, logWriter)
}

// InitWriter installs the global logger over an arbitrary writer
func InitWriter(level slog.Level, w io.Writer) {
	recent = newRing(100)
	handler := &captureHandler{
		inner: slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}),
		ring:  recent,
	}
	Log = slog.New(handler)
	slog.SetDefault(Log)
}

// Close closes the log file
func Close() {
	if logWriter != nil {
		logWriter.Close()
	}
}

func get() *slog.Logger {
	if Log != nil {
		return Log
	}
	return slog.Default()
}

// Debug logs a debug message
func Debug(msg string, args ...any) {
	get().Debug(msg, args...)
}

// Info logs an info message
func Info(msg string, args ...any) {
	get().Info(msg, args...)
}

// Warn logs a warning message
func Warn(msg string, args ...any) {
	get().Warn(msg, args...)
}

// Error logs an error message
func Error(msg string, args ...any) {
	get().Error(msg, args...)
}

// With creates a new logger with additional attributes
func With(args ...any) *slog.Logger {
	return get().With(args...)
}

// Counts returns how many warnings and errors were logged
func Counts() (warn, err int) {
	if recent == nil {
		return 0, 0
	}
	return recent.counts()
}

// Recent returns the captured WARN/ERROR entries, oldest first
func Recent() []Entry {
	if recent == nil {
		return nil
	}
	return recent.all()
}
