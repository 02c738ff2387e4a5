package logger

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/uptrace/bun"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestQueryHook_Levels(t *testing.T) {
	tests := []struct {
		name  string
		event *bun.QueryEvent
		slow  time.Duration
		want  string
	}{
		{
			name:  "failure",
			event: &bun.QueryEvent{Query: "SELECT 1", StartTime: time.Now(), Err: errors.New("boom")},
			want:  "level=ERROR",
		},
		{
			name:  "no rows is not a failure",
			event: &bun.QueryEvent{Query: "SELECT 1", StartTime: time.Now(), Err: sql.ErrNoRows},
			want:  "level=DEBUG",
		},
		{
			name:  "slow",
			event: &bun.QueryEvent{Query: "SELECT pg_sleep(1)", StartTime: time.Now().Add(-time.Second)},
			slow:  100 * time.Millisecond,
			want:  "level=WARN",
		},
		{
			name:  "fast",
			event: &bun.QueryEvent{Query: "SELECT 1", StartTime: time.Now()},
			slow:  time.Minute,
			want:  "level=DEBUG",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureLogs(t)
			NewQueryHook(tt.slow).AfterQuery(context.Background(), tt.event)
			if !strings.Contains(buf.String(), tt.want) {
				t.Fatalf("log %q missing %q", buf.String(), tt.want)
			}
			if !strings.Contains(buf.String(), "type=db") {
				t.Fatalf("log %q missing db type", buf.String())
			}
		})
	}
}
