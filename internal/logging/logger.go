// Package logging builds the process slog.Logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

type Params struct {
	Level  string
	JSON   bool
	File   string
	Stdout bool
}

// New returns a logger writing to stderr, or to a rotated file when File
// is set (and to stdout too with Stdout). The returned closer releases the
// file and is a no-op otherwise.
func New(p Params) (*slog.Logger, io.Closer) {
	var w io.Writer = os.Stderr
	var closer io.Closer = nopCloser{}

	if p.File != "" {
		if !strings.HasSuffix(p.File, ".log") {
			p.File += ".log"
		}
		lj := &lumberjack.Logger{
			Filename:   p.File,
			MaxSize:    20, // megabytes
			MaxBackups: 5,
			Compress:   true,
		}
		closer = lj
		w = lj
		if p.Stdout {
			w = io.MultiWriter(os.Stdout, lj)
		}
	}

	return slog.New(Handler(w, p.Level, p.JSON)), closer
}

// Handler returns a text or JSON handler at level.
func Handler(w io.Writer, level string, json bool) slog.Handler {
	opts := &slog.HandlerOptions{Level: Level(level)}
	if json {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// Level maps a config name to a slog level. Unknown names are info.
func Level(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
