package commands

import (
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/gohye/cardtrade/tradebot"
	"github.com/gohye/cardtrade/tradebot/config"
)

var Pack = discord.SlashCommandCreate{
	Name:        "pack",
	Description: "Open card packs",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionSubCommand{
			Name:        "open",
			Description: "Open a pack from a card set",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        "set",
					Description: "The set id, e.g. base1",
					Required:    true,
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "tokens",
			Description: "Show how many packs you can open",
		},
	},
}

func PackOpenHandler(b *tradebot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := commandContext()
		defer cancel()

		setID := strings.TrimSpace(e.SlashCommandInteractionData().String("set"))
		result, err := b.Packs.Open(ctx, e.User().ID.String(), setID)
		if err != nil {
			return replyError(e, err)
		}

		var sb strings.Builder
		for _, c := range result.Cards {
			fmt.Fprintf(&sb, "`%-12s` %s\n", c.Rarity, c.Name)
		}

		footer := fmt.Sprintf("%d pack(s) left", result.TokensLeft)
		eb := discord.NewEmbedBuilder().
			SetTitle("🎴 Pack from "+setID).
			SetDescription(sb.String()).
			SetColor(config.SuccessColor).
			SetFooter(footer, "")
		if result.NextAllowedAt != nil {
			eb.AddField("Next pack", relative(*result.NextAllowedAt), true)
		}
		return replyEmbed(e, eb.Build())
	}
}

func PackTokensHandler(b *tradebot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := commandContext()
		defer cancel()

		snap, err := b.Packs.Tokens(ctx, e.User().ID.String())
		if err != nil {
			return replyError(e, err)
		}

		desc := fmt.Sprintf("You can open **%d** pack(s) right now.", snap.State.Tokens)
		if snap.NextAllowedAt != nil {
			desc += "\nNext refill " + relative(*snap.NextAllowedAt) + "."
		}
		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{Description: desc, Color: config.InfoColor}},
			Flags:  discord.MessageFlagEphemeral,
		})
	}
}
