package logger

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

type ctxKey struct{}

// Log is the process-wide logger. Init replaces it.
var Log = zerolog.Nop()

// Init builds the global logger. format is "json" or "console"; an unknown
// level falls back to info.
func Init(level, format string, w io.Writer) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	if format != "json" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	l := zerolog.New(w).With().Timestamp().Logger().Level(lvl)

	Log = l
	zlog.Logger = l
}

// WithRequestID returns a context carrying a logger tagged with the request id.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	l := Log.With().Str("request_id", requestID).Logger()
	return context.WithValue(ctx, ctxKey{}, &l)
}

// Ctx returns the request logger stored in ctx, or the global one.
func Ctx(ctx context.Context) *zerolog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(*zerolog.Logger); ok {
			return l
		}
	}
	return &Log
}
