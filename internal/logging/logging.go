package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Options struct {
	Level  string // "debug"|"info"|"warn"|"error"
	Format string // "text"|"json"
	File   string // rotated log file; stdout when empty

	// Writer overrides File and stdout.
	Writer io.Writer
}

func New(opts Options) *slog.Logger {
	return slog.New(NewHandler(opts))
}

func NewHandler(opts Options) slog.Handler {
	w := opts.Writer
	if w == nil {
		w = os.Stdout
		if opts.File != "" {
			w = &lumberjack.Logger{
				Filename:   opts.File,
				MaxSize:    50, // megabytes
				MaxBackups: 3,
				MaxAge:     28, // days
			}
		}
	}

	lvl := parseLevel(opts.Level)
	if strings.ToLower(opts.Format) == "text" {
		return log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      time.RFC3339,
			Level:           log.Level(lvl),
		})
	}

	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       lvl,
		AddSource:   false,
		ReplaceAttr: replaceAttrsCompact,
	})
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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

func replaceAttrsCompact(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 && a.Key == slog.TimeKey && a.Value.Kind() == slog.KindTime {
		return slog.Time(slog.TimeKey, a.Value.Time().UTC())
	}
	return a
}
