package commands

import (
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	appErrors "github.com/gohye/cardtrade/pkg/errors"
	"github.com/gohye/cardtrade/tradebot"
	"github.com/gohye/cardtrade/tradebot/config"
)

var Friend = discord.SlashCommandCreate{
	Name:        "friend",
	Description: "Manage your trading friends",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionSubCommand{
			Name:        "add",
			Description: "Add a friend so you can invite each other to rooms",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionUser{
					Name:        "user",
					Description: "The user to befriend",
					Required:    true,
				},
			},
		},
	},
}

func FriendAddHandler(b *tradebot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := commandContext()
		defer cancel()

		self := e.User().ID.String()
		other := e.SlashCommandInteractionData().User("user")
		if other.ID.String() == self {
			return replyError(e, appErrors.InvalidArg("you cannot befriend yourself"))
		}
		if other.Bot {
			return replyError(e, appErrors.InvalidArg("bots cannot trade"))
		}

		if err := b.Users.Register(ctx, other.ID.String(), other.Username); err != nil {
			return replyError(e, err)
		}
		if err := b.Users.AddFriend(ctx, self, other.ID.String()); err != nil {
			return replyError(e, err)
		}
		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Description: fmt.Sprintf("🤝 You and <@%s> are now friends.", other.ID),
				Color:       config.SuccessColor,
			}},
		})
	}
}
