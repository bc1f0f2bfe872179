package main

import (
	"io"
	"log/slog"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/udisondev/la2go-blackmarket/internal/config"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// newLogger builds a text logger writing to out and, when cfg.Log.File is
// set, to a size-rotated file as well.
func newLogger(cfg config.GameServer, out io.Writer) (*slog.Logger, io.Closer) {
	var closer io.Closer = nopCloser{}
	if cfg.Log.File != "" {
		file := &lumberjack.Logger{
			Filename:   cfg.Log.File,
			MaxSize:    cfg.Log.MaxSizeMB,
			MaxAge:     cfg.Log.MaxAgeDays,
			MaxBackups: cfg.Log.MaxBackups,
			Compress:   cfg.Log.Compress,
		}
		out = io.MultiWriter(out, file)
		closer = file
	}

	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})), closer
}

// parseLogLevel converts string log level to slog.Level.
// Defaults to Info if invalid or empty.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
