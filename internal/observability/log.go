// Package observability is a small structured-logging facade used by
// the adapters and the authorization engine to emit WARN/ERROR events
// on the failure paths the error taxonomy calls out, without those
// packages importing log/slog directly.
package observability

import (
	"log/slog"
	"os"
	"sync"
)

// Logger is the narrow logging surface adapters depend on. Production
// code obtains one from Component (or Get) rather than holding a
// *slog.Logger directly; SetLogger swaps the logger those calls return
// from then on, not loggers already handed out.
type Logger interface {
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Info(msg string, args ...any)
}

type slogLogger struct {
	l *slog.Logger
}

func (s slogLogger) Warn(msg string, args ...any)  { s.l.Warn(msg, args...) }
func (s slogLogger) Error(msg string, args ...any) { s.l.Error(msg, args...) }
func (s slogLogger) Info(msg string, args ...any)  { s.l.Info(msg, args...) }

var (
	current Logger = slogLogger{l: slog.New(slog.NewTextHandler(os.Stderr, nil))}
	mu      sync.RWMutex
)

// Get returns the process-wide logger.
func Get() Logger {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// SetLogger replaces the process-wide logger. Tests use this to
// install a discard logger or one backed by a buffer they can assert
// against.
func SetLogger(l Logger) {
	mu.Lock()
	defer mu.Unlock()
	current = l
}

// Component scopes every subsequent log line to a named subsystem
// (e.g. "filestore", "authz"), matching the tier/component tagging
// decisions on tiers and rejections need to carry.
func Component(name string) Logger {
	mu.RLock()
	defer mu.RUnlock()
	if s, ok := current.(slogLogger); ok {
		return slogLogger{l: s.l.With("component", name)}
	}
	return current
}
