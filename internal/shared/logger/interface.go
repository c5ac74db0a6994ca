package logger

import (
	"io"
	"log/slog"
)

// Interface is the logger injected into every component. The *w variants take
// alternating key/value pairs.
type Interface interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Fatal(msg string, args ...any)
	With(args ...any) Interface
	Named(name string) Interface

	Debugw(msg string, keysAndValues ...any)
	Infow(msg string, keysAndValues ...any)
	Warnw(msg string, keysAndValues ...any)
	Errorw(msg string, keysAndValues ...any)
	Fatalw(msg string, keysAndValues ...any)
}

var _ Interface = (*slogLogger)(nil)

type slogLogger struct {
	logger *slog.Logger
	// base is logger without the "logger" name attribute.
	base *slog.Logger
	name string
}

func newSlogLogger(base *slog.Logger, name string) *slogLogger {
	l := &slogLogger{logger: base, base: base, name: name}
	if name != "" {
		l.logger = base.With("logger", name)
	}
	return l
}

// NewLogger returns a logger backed by the process-wide handler.
func NewLogger() Interface {
	return newSlogLogger(Get(), "")
}

func NewLoggerWithSlog(slogLog *slog.Logger) Interface {
	return newSlogLogger(slogLog, "")
}

// NewNopLogger discards everything.
func NewNopLogger() Interface {
	return newSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)), "")
}

func (l *slogLogger) Debug(msg string, args ...any) { l.logger.Debug(msg, args...) }
func (l *slogLogger) Info(msg string, args ...any)  { l.logger.Info(msg, args...) }
func (l *slogLogger) Warn(msg string, args ...any)  { l.logger.Warn(msg, args...) }
func (l *slogLogger) Error(msg string, args ...any) { l.logger.Error(msg, args...) }

// Fatal logs at error level and panics so deferred cleanup still runs.
func (l *slogLogger) Fatal(msg string, args ...any) {
	l.logger.Error(msg, args...)
	panic("fatal: " + msg)
}

func (l *slogLogger) With(args ...any) Interface {
	return newSlogLogger(l.base.With(args...), l.name)
}

// Named nests names with dots, so Named("http").Named("sse") logs "http.sse".
func (l *slogLogger) Named(name string) Interface {
	full := name
	if l.name != "" {
		full = l.name + "." + name
	}
	return newSlogLogger(l.base, full)
}

func (l *slogLogger) Debugw(msg string, keysAndValues ...any) { l.logger.Debug(msg, keysAndValues...) }
func (l *slogLogger) Infow(msg string, keysAndValues ...any)  { l.logger.Info(msg, keysAndValues...) }
func (l *slogLogger) Warnw(msg string, keysAndValues ...any)  { l.logger.Warn(msg, keysAndValues...) }
func (l *slogLogger) Errorw(msg string, keysAndValues ...any) { l.logger.Error(msg, keysAndValues...) }

func (l *slogLogger) Fatalw(msg string, keysAndValues ...any) {
	l.logger.Error(msg, keysAndValues...)
	panic("fatal: " + msg)
}
