package commands

import (
	"context"
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/snowflake/v2"
	"github.com/gohye/cardtrade/internal/domain/cards"
	"github.com/gohye/cardtrade/internal/domain/trading"
	"github.com/gohye/cardtrade/tradebot"
	"github.com/gohye/cardtrade/tradebot/config"
)

var tradeIDOption = discord.ApplicationCommandOptionString{
	Name:        "id",
	Description: "The trade id",
	Required:    true,
}

var Trade = discord.SlashCommandCreate{
	Name:        "trade",
	Description: "Trade cards with other users",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionSubCommand{
			Name:        "offer",
			Description: "Offer a public trade",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionUser{
					Name:        "user",
					Description: "The user you want to trade with",
					Required:    true,
				},
				discord.ApplicationCommandOptionString{
					Name:        "give",
					Description: "Cards you give, e.g. Pikachu x2, Charizard",
					Required:    true,
				},
				discord.ApplicationCommandOptionString{
					Name:        "take",
					Description: "Cards you want from them",
					Required:    false,
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{Name: "accept", Description: "Accept a trade offered to you", Options: []discord.ApplicationCommandOption{tradeIDOption}},
		discord.ApplicationCommandOptionSubCommand{Name: "reject", Description: "Reject a trade offered to you", Options: []discord.ApplicationCommandOption{tradeIDOption}},
		discord.ApplicationCommandOptionSubCommand{Name: "cancel", Description: "Cancel a trade", Options: []discord.ApplicationCommandOption{tradeIDOption}},
		discord.ApplicationCommandOptionSubCommand{Name: "complete", Description: "Complete an accepted trade and swap the cards", Options: []discord.ApplicationCommandOption{tradeIDOption}},
		discord.ApplicationCommandOptionSubCommand{Name: "view", Description: "Show a trade", Options: []discord.ApplicationCommandOption{tradeIDOption}},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "cards",
			Description: "Replace your side of a pending trade",
			Options: []discord.ApplicationCommandOption{
				tradeIDOption,
				discord.ApplicationCommandOptionString{
					Name:        "cards",
					Description: "Cards you put in, e.g. Pikachu x2. Leave empty to clear.",
					Required:    false,
				},
			},
		},
	},
}

type tradeAction string

const (
	actionAccept   tradeAction = "accept"
	actionReject   tradeAction = "reject"
	actionCancel   tradeAction = "cancel"
	actionComplete tradeAction = "complete"
)

func runTradeAction(ctx context.Context, b *tradebot.Bot, action tradeAction, id snowflake.ID, actor string) (*trading.Trade, error) {
	switch action {
	case actionAccept:
		return b.Trades.Accept(ctx, id, actor)
	case actionReject:
		return b.Trades.Reject(ctx, id, actor)
	case actionCancel:
		return b.Trades.Cancel(ctx, id, actor)
	case actionComplete:
		return b.Trades.Complete(ctx, id, actor)
	default:
		return nil, fmt.Errorf("unknown trade action %q", action)
	}
}

func TradeOfferHandler(b *tradebot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := commandContext()
		defer cancel()

		data := e.SlashCommandInteractionData()
		target := data.User("user")

		give, _, err := resolveCards(ctx, b.Cards, data.String("give"))
		if err != nil {
			return replyError(e, err)
		}
		var take []trading.CardRef
		if raw, ok := data.OptString("take"); ok {
			if take, _, err = resolveCards(ctx, b.Cards, raw); err != nil {
				return replyError(e, err)
			}
		}

		t, err := b.Trades.OpenPublic(ctx, e.User().ID.String(), target.ID.String(), give, take)
		if err != nil {
			return replyError(e, err)
		}
		return replyTrade(ctx, e, b, t)
	}
}

func TradeActionHandler(action tradeAction) func(b *tradebot.Bot) handler.CommandHandler {
	return func(b *tradebot.Bot) handler.CommandHandler {
		return func(e *handler.CommandEvent) error {
			ctx, cancel := commandContext()
			defer cancel()

			id, err := parseID("trade", e.SlashCommandInteractionData().String("id"))
			if err != nil {
				return replyError(e, err)
			}
			t, err := runTradeAction(ctx, b, action, id, e.User().ID.String())
			if err != nil {
				return replyError(e, err)
			}
			return replyTrade(ctx, e, b, t)
		}
	}
}

// TradeButtonHandler answers the accept, reject and complete buttons under
// a trade message. The service decides whether the clicking user may act.
func TradeButtonHandler(b *tradebot.Bot) handler.ComponentHandler {
	return func(e *handler.ComponentEvent) error {
		ctx, cancel := commandContext()
		defer cancel()

		id, err := parseID("trade", e.Vars["id"])
		if err != nil {
			return replyComponentError(e, err)
		}
		t, err := runTradeAction(ctx, b, tradeAction(e.Vars["action"]), id, e.User().ID.String())
		if err != nil {
			return replyComponentError(e, err)
		}

		components := []discord.ContainerComponent{}
		if row, ok := tradeButtonsFor(t); ok {
			components = append(components, row)
		}
		return e.UpdateMessage(discord.MessageUpdate{
			Embeds:     &[]discord.Embed{tradeEmbed(ctx, b.Cards, t)},
			Components: &components,
		})
	}
}

func TradeCardsHandler(b *tradebot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := commandContext()
		defer cancel()

		data := e.SlashCommandInteractionData()
		id, err := parseID("trade", data.String("id"))
		if err != nil {
			return replyError(e, err)
		}
		var refs []trading.CardRef
		if raw, ok := data.OptString("cards"); ok {
			if refs, _, err = resolveCards(ctx, b.Cards, raw); err != nil {
				return replyError(e, err)
			}
		}

		t, err := b.Trades.SetCards(ctx, id, e.User().ID.String(), refs)
		if err != nil {
			return replyError(e, err)
		}
		return replyTrade(ctx, e, b, t)
	}
}

func TradeViewHandler(b *tradebot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := commandContext()
		defer cancel()

		id, err := parseID("trade", e.SlashCommandInteractionData().String("id"))
		if err != nil {
			return replyError(e, err)
		}
		t, err := b.Trades.Get(ctx, id, e.User().ID.String())
		if err != nil {
			return replyError(e, err)
		}
		return replyTrade(ctx, e, b, t)
	}
}

func replyTrade(ctx context.Context, e *handler.CommandEvent, b *tradebot.Bot, t *trading.Trade) error {
	if row, ok := tradeButtonsFor(t); ok {
		return replyEmbed(e, tradeEmbed(ctx, b.Cards, t), row)
	}
	return replyEmbed(e, tradeEmbed(ctx, b.Cards, t))
}

var statusColors = map[trading.TradeStatus]int{
	trading.TradePending:   config.InfoColor,
	trading.TradeAccepted:  config.WarningColor,
	trading.TradeCompleted: config.SuccessColor,
	trading.TradeRejected:  config.ErrorColor,
	trading.TradeCancelled: config.BackgroundColor,
}

func tradeEmbed(ctx context.Context, svc cards.Service, t *trading.Trade) discord.Embed {
	eb := discord.NewEmbedBuilder().
		SetTitle(fmt.Sprintf("🔄 %s trade", t.TradeType)).
		SetDescription(fmt.Sprintf("<@%s> ⇄ <@%s>", t.InitiatorUserID, t.ReceiverUserID)).
		SetColor(statusColors[t.Status]).
		AddField("Initiator gives", formatRefs(ctx, svc, t.InitiatorCards), true).
		AddField("Receiver gives", formatRefs(ctx, svc, t.ReceiverCards), true).
		AddField("Status", string(t.Status), false).
		SetFooter("Trade ID "+t.ID.String(), "").
		SetTimestamp(t.UpdatedAt)
	if t.PrivateRoomCode != "" {
		eb.AddField("Room Code", t.PrivateRoomCode, true)
	}
	return eb.Build()
}

// tradeButtonsFor returns the buttons that match what can still happen to
// the trade. Terminal trades get none.
func tradeButtonsFor(t *trading.Trade) (discord.ContainerComponent, bool) {
	id := t.ID.String()
	switch t.Status {
	case trading.TradePending:
		return discord.NewActionRow(
			discord.NewSuccessButton("Accept", "/trade-btn/accept/"+id),
			discord.NewDangerButton("Reject", "/trade-btn/reject/"+id),
			discord.NewSecondaryButton("Cancel", "/trade-btn/cancel/"+id),
		), true
	case trading.TradeAccepted:
		return discord.NewActionRow(
			discord.NewPrimaryButton("Complete", "/trade-btn/complete/"+id),
			discord.NewSecondaryButton("Cancel", "/trade-btn/cancel/"+id),
		), true
	default:
		return nil, false
	}
}
