package pkg

import (
	"context"

	"github.com/rs/zerolog"
)

type logKey struct{}

// log returns the logger attached to the context. Callers that never set one
// (library use, tests) get a no-op logger instead of a panic; all pipeline
// output still goes through the task banners in that case.
func log(ctx context.Context) *zerolog.Logger {
	if logger, ok := ctx.Value(logKey{}).(*zerolog.Logger); ok {
		return logger
	}

	nop := zerolog.Nop()
	return &nop
}

// WithLogger attaches the given logger to the context
func WithLogger(ctx context.Context, logger *zerolog.Logger) context.Context {
	return context.WithValue(ctx, logKey{}, logger)
}
