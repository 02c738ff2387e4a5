// Package logger logs bun queries through slog with the db log type.
package logger

import (
	"context"
	"log/slog"
	"time"

	"github.com/uptrace/bun"
)

// QueryHook logs failed queries at error level, slow ones at warn and the
// rest at debug.
type QueryHook struct {
	Slow time.Duration
}

var _ bun.QueryHook = (*QueryHook)(nil)

func NewQueryHook(slow time.Duration) *QueryHook {
	return &QueryHook{Slow: slow}
}

func (h *QueryHook) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (h *QueryHook) AfterQuery(_ context.Context, event *bun.QueryEvent) {
	duration := time.Since(event.StartTime)
	attrs := []any{
		slog.String("type", "db"),
		slog.String("operation", event.Operation()),
		slog.String("query", event.Query),
		slog.Duration("took", duration),
	}

	if event.Err != nil && !expected(event.Err) {
		slog.Error("Query failed", append(attrs, slog.Any("error", event.Err))...)
		return
	}
	if event.Result != nil {
		if n, err := event.Result.RowsAffected(); err == nil {
			attrs = append(attrs, slog.Int64("affected_rows", n))
		}
	}
	if h.Slow > 0 && duration > h.Slow {
		slog.Warn("Query executed slowly", attrs...)
		return
	}
	slog.Debug("Query executed", attrs...)
}
