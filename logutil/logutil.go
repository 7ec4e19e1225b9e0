// logutil.go - Logger-Erstellung und TRACE-Level
// Dieses Modul enthaelt NewLogger sowie Trace-Hilfsfunktionen fuer sehr
// ausfuehrliche Ausgaben unterhalb von DEBUG.
package logutil

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
)

const LevelTrace slog.Level = -8

// NewLogger erstellt einen Text-Logger mit dem gegebenen Level
// TRACE wird als "TRACE" ausgegeben, Quelldateien ohne Verzeichnis.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: true,
		ReplaceAttr: func(_ []string, attr slog.Attr) slog.Attr {
			switch attr.Key {
			case slog.LevelKey:
				switch attr.Value.Any().(slog.Level) {
				case LevelTrace:
					attr.Value = slog.StringValue("TRACE")
				}
			case slog.SourceKey:
				source := attr.Value.Any().(*slog.Source)
				source.File = filepath.Base(source.File)
			}
			return attr
		},
	}))
}

// Trace loggt auf TRACE-Level mit dem Default-Logger
func Trace(msg string, args ...any) {
	TraceContext(context.TODO(), msg, args...)
}

// TraceContext loggt auf TRACE-Level mit Kontext
func TraceContext(ctx context.Context, msg string, args ...any) {
	if logger := slog.Default(); logger.Enabled(ctx, LevelTrace) {
		logger.Log(ctx, LevelTrace, msg, args...)
	}
}
