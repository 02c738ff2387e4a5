package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/snowflake/v2"
	appErrors "github.com/gohye/cardtrade/pkg/errors"
	"github.com/gohye/cardtrade/tradebot/config"
)

// userMessage turns a service error into text that is safe to show the
// caller. Errors without a known code are reported generically.
func userMessage(err error) string {
	var rl *appErrors.RateLimitedError
	if errors.As(err, &rl) {
		return fmt.Sprintf("⏰ You have no packs left. Next pack <t:%d:R>.", rl.NextAllowedAt.Unix())
	}

	var appErr *appErrors.AppError
	if !errors.As(err, &appErr) {
		return "🔧 Something went wrong. Please try again later."
	}

	switch appErr.Code {
	case appErrors.CodeInvalidArgument:
		return "⚠️ " + appErr.Message
	case appErrors.CodeNotFound:
		return "🔍 " + appErr.Message
	case appErrors.CodeRecipientNotFound:
		return "🔍 That user has not used the bot yet."
	case appErrors.CodeForbidden:
		return "🚫 You are not part of that trade."
	case appErrors.CodeInvalidTransition:
		return "⚠️ That is not possible in the current state: " + appErr.Message
	case appErrors.CodeDuplicateRequest:
		return "⚠️ You already have the same request pending with that user."
	case appErrors.CodeDuplicateInvite:
		return "⚠️ A room invite is already pending between you two."
	case appErrors.CodeSelfTradeNotAllowed:
		return "❌ You cannot trade with yourself!"
	case appErrors.CodeSelfInvite:
		return "❌ You cannot invite yourself!"
	case appErrors.CodeNotFriends:
		return "🚫 You can only invite friends. Use /friend add first."
	case appErrors.CodeInsufficientOwnership:
		return "❌ Not enough copies: " + appErr.Message
	case appErrors.CodeRateLimited:
		return "⏰ You have no packs left."
	default:
		return "🔧 Something went wrong. Please try again later."
	}
}

// replyError answers the interaction with an ephemeral error. Unclassified
// errors are also returned so the command logger records them.
func replyError(e *handler.CommandEvent, err error) error {
	code := appErrors.CodeOf(err)
	if code == appErrors.CodeUnknown || code == appErrors.CodeInternal {
		slog.Error("Command error",
			slog.String("type", "cmd"),
			slog.String("code", string(code)),
			slog.Any("error", err))
	}
	if sendErr := e.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{{
			Description: userMessage(err),
			Color:       config.ErrorColor,
		}},
		Flags: discord.MessageFlagEphemeral,
	}); sendErr != nil {
		return sendErr
	}
	if code == appErrors.CodeUnknown || code == appErrors.CodeInternal {
		return err
	}
	return nil
}

func replyComponentError(e *handler.ComponentEvent, err error) error {
	return e.CreateMessage(discord.MessageCreate{
		Content: userMessage(err),
		Flags:   discord.MessageFlagEphemeral,
	})
}

func replyEmbed(e *handler.CommandEvent, embed discord.Embed, components ...discord.ContainerComponent) error {
	return e.CreateMessage(discord.MessageCreate{
		Embeds:     []discord.Embed{embed},
		Components: components,
	})
}

func parseID(kind, raw string) (snowflake.ID, error) {
	id, err := snowflake.Parse(raw)
	if err != nil || id == 0 {
		return 0, appErrors.Newf(appErrors.CodeInvalidArgument, "%q is not a valid %s id", raw, kind)
	}
	return id, nil
}

func relative(t time.Time) string {
	return fmt.Sprintf("<t:%d:R>", t.Unix())
}
