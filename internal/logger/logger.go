package logger

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
)

type contextKey string

const requestIDKey contextKey = "request_id"

var (
	current     atomic.Pointer[slog.Logger]
	defaultOnce sync.Once
)

// Init configures the process-wide logger: text for development, JSON otherwise.
func Init(env string) {
	var handler slog.Handler

	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	if env == "development" || env == "test" {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	l := slog.New(handler)
	current.Store(l)
	slog.SetDefault(l)
}

// GetLogger returns the configured logger, falling back to the development setup
// when Init was never called.
func GetLogger() *slog.Logger {
	if l := current.Load(); l != nil {
		return l
	}
	defaultOnce.Do(func() {
		if current.Load() == nil {
			Init("development")
		}
	})
	return current.Load()
}

func Debug(msg string, args ...any) {
	GetLogger().Debug(msg, args...)
}

func Info(msg string, args ...any) {
	GetLogger().Info(msg, args...)
}

func Warn(msg string, args ...any) {
	GetLogger().Warn(msg, args...)
}

func Error(msg string, args ...any) {
	GetLogger().Error(msg, args...)
}

func Fatal(msg string, args ...any) {
	GetLogger().Error(msg, args...)
	os.Exit(1)
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// FromContext returns the logger enriched with the request id, if any.
func FromContext(ctx context.Context) *slog.Logger {
	l := GetLogger()
	if requestID := GetRequestID(ctx); requestID != "" {
		l = l.With("request_id", requestID)
	}
	return l
}
