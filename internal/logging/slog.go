package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

type SlogLogger struct {
	l *slog.Logger
}

func NewSlogLogger(l *slog.Logger) *SlogLogger {
	return &SlogLogger{l: l}
}

// Params controls where and how verbosely the process logs.
type Params struct {
	Level string
	// File, when set, routes output to a size-rotated file instead of stdout.
	File string
}

// New builds the process logger: JSON lines at the requested level, written to
// stdout or to a lumberjack-rotated file.
func New(p Params) *SlogLogger {
	var w io.Writer = os.Stdout
	if p.File != "" {
		w = &lumberjack.Logger{
			Filename: p.File,
			MaxSize:  50, // megabytes
			Compress: true,
		}
	}
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: ParseLevel(p.Level)})
	return NewSlogLogger(slog.New(h))
}

// ParseLevel maps a config string to a slog level; unknown values mean info.
func ParseLevel(level string) slog.Level {
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

func (s *SlogLogger) Debug(ctx context.Context, msg string, args ...any) {
	s.l.DebugContext(ctx, msg, args...)
}

func (s *SlogLogger) Info(ctx context.Context, msg string, args ...any) {
	s.l.InfoContext(ctx, msg, args...)
}

func (s *SlogLogger) Warn(ctx context.Context, msg string, args ...any) {
	s.l.WarnContext(ctx, msg, args...)
}

func (s *SlogLogger) Error(ctx context.Context, msg string, args ...any) {
	s.l.ErrorContext(ctx, msg, args...)
}

func (s *SlogLogger) With(args ...any) Logger {
	return &SlogLogger{l: s.l.With(args...)}
}
