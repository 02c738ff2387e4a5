package handlers

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/gohye/cardtrade/tradebot/config"
)

// WrapWithLogging logs start, outcome and duration of a slash command.
func WrapWithLogging(name string, h handler.CommandHandler) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		return track("cmd", name, e.User(), func() error { return h(e) })
	}
}

// WrapComponentWithLogging is WrapWithLogging for button interactions.
func WrapComponentWithLogging(name string, h handler.ComponentHandler) handler.ComponentHandler {
	return func(e *handler.ComponentEvent) error {
		return track("component", name, e.User(), func() error { return h(e) })
	}
}

func track(kind, name string, user discord.User, run func() error) error {
	start := time.Now()
	attrs := []any{
		slog.String("type", kind),
		slog.String("name", name),
		slog.String("user_id", user.ID.String()),
		slog.String("user_name", user.Username),
	}
	slog.Debug("Interaction started", attrs...)

	done := make(chan error, 1)
	go func() {
		done <- run()
	}()

	select {
	case err := <-done:
		took := time.Since(start)
		attrs = append(attrs, slog.Duration("took", took))
		switch {
		case err != nil:
			slog.Error("Interaction failed", append(attrs,
				slog.Any("error", err),
				slog.String("status", "failed"))...)
		case took > config.SlowCommandThreshold:
			slog.Warn("Interaction executed slowly", append(attrs, slog.String("status", "slow"))...)
		default:
			slog.Info("Interaction completed", append(attrs, slog.String("status", "success"))...)
		}
		return err

	case <-time.After(config.CommandExecutionTimeout):
		slog.Error("Interaction timed out", append(attrs,
			slog.String("status", "timeout"),
			slog.Duration("timeout", config.CommandExecutionTimeout))...)
		return fmt.Errorf("%s %s timed out after %s", kind, name, config.CommandExecutionTimeout)
	}
}
