// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"context"
	"io"
	"log/slog"

	gethlog "github.com/ethereum/go-ethereum/log"
)

const (
	LevelTrace = gethlog.LevelTrace
	LevelDebug = gethlog.LevelDebug
	LevelInfo  = gethlog.LevelInfo
	LevelWarn  = gethlog.LevelWarn
	LevelError = gethlog.LevelError
	LevelCrit  = gethlog.LevelCrit
)

// Legacy verbosity levels accepted by the --verbosity flag.
const (
	LegacyLevelCrit = iota
	LegacyLevelError
	LegacyLevelWarn
	LegacyLevelInfo
	LegacyLevelDebug
	LegacyLevelTrace
)

// Logger writes leveled key/value records.
type Logger interface {
	With(ctx ...any) Logger
	Trace(msg string, ctx ...any)
	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Warn(msg string, ctx ...any)
	Error(msg string, ctx ...any)
}

// contextLogger resolves the root logger on every call, so package level
// loggers declared before SetDefault still reach the configured handler.
type contextLogger struct {
	ctx []any
}

// WithContext returns a logger that prepends ctx to every record.
func WithContext(ctx ...any) Logger {
	return &contextLogger{ctx: ctx}
}

func (l *contextLogger) With(ctx ...any) Logger {
	merged := make([]any, 0, len(l.ctx)+len(ctx))
	merged = append(merged, l.ctx...)
	return &contextLogger{ctx: append(merged, ctx...)}
}

func (l *contextLogger) args(ctx []any) []any {
	if len(l.ctx) == 0 {
		return ctx
	}
	merged := make([]any, 0, len(l.ctx)+len(ctx))
	merged = append(merged, l.ctx...)
	return append(merged, ctx...)
}

func (l *contextLogger) Trace(msg string, ctx ...any) { gethlog.Root().Trace(msg, l.args(ctx)...) }
func (l *contextLogger) Debug(msg string, ctx ...any) { gethlog.Root().Debug(msg, l.args(ctx)...) }
func (l *contextLogger) Info(msg string, ctx ...any)  { gethlog.Root().Info(msg, l.args(ctx)...) }
func (l *contextLogger) Warn(msg string, ctx ...any)  { gethlog.Root().Warn(msg, l.args(ctx)...) }
func (l *contextLogger) Error(msg string, ctx ...any) { gethlog.Root().Error(msg, l.args(ctx)...) }

var root = WithContext()

func Trace(msg string, ctx ...any) { root.Trace(msg, ctx...) }
func Debug(msg string, ctx ...any) { root.Debug(msg, ctx...) }
func Info(msg string, ctx ...any)  { root.Info(msg, ctx...) }
func Warn(msg string, ctx ...any)  { root.Warn(msg, ctx...) }
func Error(msg string, ctx ...any) { root.Error(msg, ctx...) }

// SetDefault installs h as the handler behind every logger of this package.
func SetDefault(h slog.Handler) {
	gethlog.SetDefault(gethlog.NewLogger(h))
}

// levelHandler gates an inner handler on a level that may change at runtime.
type levelHandler struct {
	lvl   *slog.LevelVar
	inner slog.Handler
}

func (h *levelHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.lvl.Level() && h.inner.Enabled(ctx, level)
}

func (h *levelHandler) Handle(ctx context.Context, r slog.Record) error {
	return h.inner.Handle(ctx, r)
}

func (h *levelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelHandler{h.lvl, h.inner.WithAttrs(attrs)}
}

func (h *levelHandler) WithGroup(name string) slog.Handler {
	return &levelHandler{h.lvl, h.inner.WithGroup(name)}
}

// NewTerminalHandlerWithLevel returns a human readable handler filtered by lvl.
func NewTerminalHandlerWithLevel(wr io.Writer, lvl *slog.LevelVar, useColor bool) slog.Handler {
	return &levelHandler{lvl, gethlog.NewTerminalHandlerWithLevel(wr, LevelTrace, useColor)}
}

// JSONHandlerWithLevel returns a JSON handler filtered by lvl.
func JSONHandlerWithLevel(wr io.Writer, lvl *slog.LevelVar) slog.Handler {
	return &levelHandler{lvl, gethlog.JSONHandlerWithLevel(wr, LevelTrace)}
}

// FromLegacyLevel converts a 0-5 verbosity into a slog level.
func FromLegacyLevel(lvl int) slog.Level {
	switch {
	case lvl <= LegacyLevelCrit:
		return LevelCrit
	case lvl == LegacyLevelError:
		return LevelError
	case lvl == LegacyLevelWarn:
		return LevelWarn
	case lvl == LegacyLevelInfo:
		return LevelInfo
	case lvl == LegacyLevelDebug:
		return LevelDebug
	default:
		return LevelTrace
	}
}
