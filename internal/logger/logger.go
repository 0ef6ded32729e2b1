package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
)

const (
	RequestIDKey = "request_id"
	SourceKey    = "source"
)

// New logs JSON lines at level and above to stdout.
func New(level slog.Level) *slog.Logger {
	return NewWithWriter(os.Stdout, level)
}

func NewWithWriter(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func WithRequestID(ctx context.Context, l *slog.Logger, requestID string) *slog.Logger {
	if requestID == "" {
		return l
	}
	return l.With(slog.String(RequestIDKey, requestID))
}

// WithSource tags every line with the data source being read.
func WithSource(l *slog.Logger, source string) *slog.Logger {
	if source == "" {
		return l
	}
	return l.With(slog.String(SourceKey, source))
}
