package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/paginator"
	"github.com/gohye/cardtrade/internal/domain/cards"
	"github.com/gohye/cardtrade/internal/domain/ownership"
	"github.com/gohye/cardtrade/internal/domain/trading"
	"github.com/gohye/cardtrade/tradebot"
	"github.com/gohye/cardtrade/tradebot/config"
)

var Inbox = discord.SlashCommandCreate{
	Name:        "inbox",
	Description: "View your pending requests and open trades",
}

var Collection = discord.SlashCommandCreate{
	Name:        "collection",
	Description: "View the cards you own",
}

func InboxHandler(b *tradebot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := commandContext()
		defer cancel()

		userID := e.User().ID.String()
		incoming, err := b.Requests.ListIncoming(ctx, userID)
		if err != nil {
			return replyError(e, err)
		}
		outgoing, err := b.Requests.ListOutgoing(ctx, userID)
		if err != nil {
			return replyError(e, err)
		}
		trades, err := b.Trades.ListActive(ctx, userID)
		if err != nil {
			return replyError(e, err)
		}

		return paginate(e, b, "📬 Inbox", inboxLines(userID, incoming, outgoing, trades))
	}
}

func inboxLines(userID string, incoming, outgoing []*trading.TradeRequest, trades []*trading.Trade) []string {
	var lines []string
	for _, r := range incoming {
		lines = append(lines, fmt.Sprintf("📥 request `%s` from <@%s>%s", r.ID, r.FromUserID, noteSuffix(r.Note)))
	}
	for _, r := range outgoing {
		lines = append(lines, fmt.Sprintf("📤 request `%s` to <@%s>%s", r.ID, r.ToUserID, noteSuffix(r.Note)))
	}
	for _, t := range trades {
		line := fmt.Sprintf("🔄 %s trade `%s` with <@%s> is **%s**", t.TradeType, t.ID, t.Counterparty(userID), t.Status)
		if t.PrivateRoomCode != "" {
			line += " in room `" + t.PrivateRoomCode + "`"
		}
		lines = append(lines, line)
	}
	return lines
}

func noteSuffix(note string) string {
	if note == "" {
		return ""
	}
	if r := []rune(note); len(r) > 40 {
		note = string(r[:40]) + "…"
	}
	return ": " + note
}

func CollectionHandler(b *tradebot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := commandContext()
		defer cancel()

		records, err := b.Ownership.ListByOwner(ctx, e.User().ID.String())
		if err != nil {
			return replyError(e, err)
		}
		return paginate(e, b, "🗂️ Collection", collectionLines(ctx, b.Cards, records))
	}
}

func collectionLines(ctx context.Context, svc cards.Service, records []ownership.Record) []string {
	lines := make([]string, 0, len(records))
	for _, r := range records {
		name := fmt.Sprintf("#%d", r.CardID)
		if card, err := svc.Card(ctx, r.CardID); err == nil {
			name = fmt.Sprintf("%s [%s]", card.Name, card.Rarity)
		}
		line := fmt.Sprintf("%s ×%d", name, r.Quantity)
		if !r.Tradeable {
			line += " (locked)"
		}
		lines = append(lines, line)
	}
	return lines
}

func paginate(e *handler.CommandEvent, b *tradebot.Bot, title string, lines []string) error {
	if len(lines) == 0 {
		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{Title: title, Description: "Nothing here yet.", Color: config.InfoColor}},
			Flags:  discord.MessageFlagEphemeral,
		})
	}

	totalPages := (len(lines) + config.ItemsPerPage - 1) / config.ItemsPerPage
	return b.Paginator.Create(e.Respond, paginator.Pages{
		ID:      e.ID().String(),
		Creator: e.User().ID,
		PageFunc: func(page int, embed *discord.EmbedBuilder) {
			start := page * config.ItemsPerPage
			end := min(start+config.ItemsPerPage, len(lines))
			embed.
				SetTitle(title).
				SetDescription(strings.Join(lines[start:end], "\n")).
				SetColor(config.BackgroundColor).
				SetFooter(fmt.Sprintf("Page %d/%d • %d total", page+1, totalPages, len(lines)), "")
		},
		Pages:      totalPages,
		ExpireMode: paginator.ExpireModeAfterLastUsage,
	}, false)
}
