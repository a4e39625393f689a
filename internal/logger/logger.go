package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

var base = slog.New(NewTraceContextHandler(slog.NewJSONHandler(os.Stdout, nil)))

// Init installs the JSON logger on stdout. Level comes from LOG_LEVEL.
func Init() *slog.Logger {
	return InitWithWriter(os.Stdout, os.Getenv("LOG_LEVEL"))
}

// InitWithWriter is Init with an explicit sink, used by tests.
func InitWithWriter(w io.Writer, level string) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: parseLevel(level),
	})

	base = slog.New(NewTraceContextHandler(handler))
	slog.SetDefault(base)

	base.Info("logger initialized")
	return base
}

// L returns the process logger for components that take a *slog.Logger.
func L() *slog.Logger {
	return base
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func Debug(msg string, fields map[string]any) {
	log(context.Background(), slog.LevelDebug, msg, fields)
}

func Info(msg string, fields map[string]any) {
	log(context.Background(), slog.LevelInfo, msg, fields)
}

func Warn(msg string, fields map[string]any) {
	log(context.Background(), slog.LevelWarn, msg, fields)
}

func Error(msg string, fields map[string]any) {
	log(context.Background(), slog.LevelError, msg, fields)
}

// WarnContext logs with the request context so trace ids are attached.
func WarnContext(ctx context.Context, msg string, fields map[string]any) {
	log(ctx, slog.LevelWarn, msg, fields)
}

// InfoContext logs with the request context so trace ids are attached.
func InfoContext(ctx context.Context, msg string, fields map[string]any) {
	log(ctx, slog.LevelInfo, msg, fields)
}

func Fatal(msg string, fields map[string]any) {
	log(context.Background(), slog.LevelError, msg, fields)
	os.Exit(1)
}

func log(ctx context.Context, level slog.Level, msg string, fields map[string]any) {
	if !base.Enabled(ctx, level) {
		return
	}

	attrs := make([]slog.Attr, 0, len(fields))
	for k, v := range fields {
		attrs = append(attrs, slog.Any(k, v))
	}

	base.LogAttrs(ctx, level, msg, attrs...)
}
