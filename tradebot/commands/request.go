package commands

import (
	"context"
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/gohye/cardtrade/internal/domain/trading"
	appErrors "github.com/gohye/cardtrade/pkg/errors"
	"github.com/gohye/cardtrade/tradebot"
	"github.com/gohye/cardtrade/tradebot/config"
)

var requestIDOption = discord.ApplicationCommandOptionString{
	Name:        "id",
	Description: "The request id",
	Required:    true,
}

var Request = discord.SlashCommandCreate{
	Name:        "request",
	Description: "Ask another user for a card",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionSubCommand{
			Name:        "send",
			Description: "Send a trade request",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionUser{
					Name:        "user",
					Description: "Who you are asking",
					Required:    true,
				},
				discord.ApplicationCommandOptionString{
					Name:        "want",
					Description: "The card you want from them",
					Required:    false,
				},
				discord.ApplicationCommandOptionString{
					Name:        "offer",
					Description: "A card you offer in return",
					Required:    false,
				},
				discord.ApplicationCommandOptionString{
					Name:        "note",
					Description: "A note; required when you do not name a card",
					Required:    false,
					MaxLength:   intPtr(200),
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{Name: "accept", Description: "Accept a request sent to you", Options: []discord.ApplicationCommandOption{requestIDOption}},
		discord.ApplicationCommandOptionSubCommand{Name: "reject", Description: "Reject a request sent to you", Options: []discord.ApplicationCommandOption{requestIDOption}},
	},
}

func intPtr(v int) *int { return &v }

// singleCard resolves an option that must name exactly one card.
func singleCard(ctx context.Context, b *tradebot.Bot, raw string) (*trading.CardRef, error) {
	refs, _, err := resolveCards(ctx, b.Cards, raw)
	if err != nil {
		return nil, err
	}
	if len(refs) != 1 {
		return nil, appErrors.InvalidArg("name exactly one card")
	}
	return &refs[0], nil
}

func RequestSendHandler(b *tradebot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := commandContext()
		defer cancel()

		data := e.SlashCommandInteractionData()
		var p trading.Proposal
		var err error
		if raw, ok := data.OptString("want"); ok {
			if p.Want, err = singleCard(ctx, b, raw); err != nil {
				return replyError(e, err)
			}
		}
		if raw, ok := data.OptString("offer"); ok {
			if p.Offer, err = singleCard(ctx, b, raw); err != nil {
				return replyError(e, err)
			}
		}
		p.Note = data.String("note")
		p.IsManual = p.Want == nil

		req, err := b.Requests.Create(ctx, e.User().ID.String(), data.User("user").ID.String(), p)
		if err != nil {
			return replyError(e, err)
		}
		return replyEmbed(e, requestEmbed(ctx, b, req))
	}
}

func RequestAcceptHandler(b *tradebot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := commandContext()
		defer cancel()

		id, err := parseID("request", e.SlashCommandInteractionData().String("id"))
		if err != nil {
			return replyError(e, err)
		}
		_, t, err := b.Requests.Accept(ctx, id, e.User().ID.String())
		if err != nil {
			return replyError(e, err)
		}
		return replyTrade(ctx, e, b, t)
	}
}

func RequestRejectHandler(b *tradebot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := commandContext()
		defer cancel()

		id, err := parseID("request", e.SlashCommandInteractionData().String("id"))
		if err != nil {
			return replyError(e, err)
		}
		req, err := b.Requests.Reject(ctx, id, e.User().ID.String())
		if err != nil {
			return replyError(e, err)
		}
		return replyEmbed(e, requestEmbed(ctx, b, req))
	}
}

func requestEmbed(ctx context.Context, b *tradebot.Bot, req *trading.TradeRequest) discord.Embed {
	eb := discord.NewEmbedBuilder().
		SetTitle("📨 Trade request").
		SetDescription(fmt.Sprintf("<@%s> → <@%s>", req.FromUserID, req.ToUserID)).
		SetColor(config.InfoColor).
		AddField("Status", string(req.Status), true).
		SetFooter("Request ID "+req.ID.String(), "")
	if req.Want != nil {
		eb.AddField("Wants", formatRefs(ctx, b.Cards, []trading.CardRef{*req.Want}), false)
	}
	if req.Offer != nil {
		eb.AddField("Offers", formatRefs(ctx, b.Cards, []trading.CardRef{*req.Offer}), false)
	}
	if req.Note != "" {
		eb.AddField("Note", req.Note, false)
	}
	if req.TradeID != nil {
		eb.AddField("Trade ID", req.TradeID.String(), true)
	}
	return eb.Build()
}
