package commands

import (
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/gohye/cardtrade/internal/domain/trading"
	"github.com/gohye/cardtrade/tradebot"
	"github.com/gohye/cardtrade/tradebot/config"
)

var inviteIDOption = discord.ApplicationCommandOptionString{
	Name:        "id",
	Description: "The invite id",
	Required:    true,
}

var Room = discord.SlashCommandCreate{
	Name:        "room",
	Description: "Private trade rooms between friends",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionSubCommand{
			Name:        "invite",
			Description: "Invite a friend to a private trade room",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionUser{
					Name:        "user",
					Description: "The friend to invite",
					Required:    true,
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{Name: "accept", Description: "Accept a room invite and open the room", Options: []discord.ApplicationCommandOption{inviteIDOption}},
		discord.ApplicationCommandOptionSubCommand{Name: "reject", Description: "Reject a room invite", Options: []discord.ApplicationCommandOption{inviteIDOption}},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "view",
			Description: "Show the trade behind a room code",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        "code",
					Description: "The room code",
					Required:    true,
				},
			},
		},
	},
}

func RoomInviteHandler(b *tradebot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := commandContext()
		defer cancel()

		inv, err := b.Rooms.Invite(ctx, e.User().ID.String(), e.SlashCommandInteractionData().User("user").ID.String())
		if err != nil {
			return replyError(e, err)
		}
		return replyEmbed(e, inviteEmbed(inv))
	}
}

func RoomAcceptHandler(b *tradebot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := commandContext()
		defer cancel()

		id, err := parseID("invite", e.SlashCommandInteractionData().String("id"))
		if err != nil {
			return replyError(e, err)
		}
		_, t, err := b.Rooms.Accept(ctx, id, e.User().ID.String())
		if err != nil {
			return replyError(e, err)
		}
		return replyTrade(ctx, e, b, t)
	}
}

func RoomRejectHandler(b *tradebot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := commandContext()
		defer cancel()

		id, err := parseID("invite", e.SlashCommandInteractionData().String("id"))
		if err != nil {
			return replyError(e, err)
		}
		inv, err := b.Rooms.Reject(ctx, id, e.User().ID.String())
		if err != nil {
			return replyError(e, err)
		}
		return replyEmbed(e, inviteEmbed(inv))
	}
}

func RoomViewHandler(b *tradebot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := commandContext()
		defer cancel()

		code := strings.ToUpper(strings.TrimSpace(e.SlashCommandInteractionData().String("code")))
		t, err := b.Trades.FindRoom(ctx, code, e.User().ID.String())
		if err != nil {
			return replyError(e, err)
		}
		return replyTrade(ctx, e, b, t)
	}
}

func inviteEmbed(inv *trading.RoomInvite) discord.Embed {
	eb := discord.NewEmbedBuilder().
		SetTitle("🚪 Room invite").
		SetDescription(fmt.Sprintf("<@%s> → <@%s>", inv.FromUserID, inv.ToUserID)).
		SetColor(config.InfoColor).
		AddField("Status", string(inv.Status), true).
		SetFooter("Invite ID "+inv.ID.String(), "")
	if inv.PrivateRoomCode != "" {
		eb.AddField("Room Code", inv.PrivateRoomCode, true)
	}
	return eb.Build()
}
