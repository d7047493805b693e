package sqlite

import (
	"context"
	"log/slog"
	"time"

	"github.com/uptrace/bun"
)

// queryLogger echoes every statement bun runs, with its duration.
type queryLogger struct {
	log *slog.Logger
}

var _ bun.QueryHook = (*queryLogger)(nil)

func newQueryLogger(log *slog.Logger) *queryLogger {
	return &queryLogger{log: log}
}

func (h *queryLogger) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (h *queryLogger) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	attrs := []any{
		slog.String("operation", event.Operation()),
		slog.String("query", event.Query),
		slog.Duration("duration", time.Since(event.StartTime)),
	}
	if event.Err != nil {
		attrs = append(attrs, slog.String("error", event.Err.Error()))
	}
	h.log.DebugContext(ctx, "sql", attrs...)
}
