package services

import (
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/gohye/cardtrade/internal/domain/trading"
	"github.com/gohye/cardtrade/tradebot/config"
)

type eventText struct {
	title  string
	format string
	color  int
}

var eventTexts = map[trading.EventType]eventText{
	trading.EventRequestReceived: {"📨 New Trade Request", "<@%s> sent you a trade request.", config.InfoColor},
	trading.EventRequestAccepted: {"✅ Request Accepted", "<@%s> accepted your trade request.", config.SuccessColor},
	trading.EventRequestRejected: {"❌ Request Declined", "<@%s> declined your trade request.", config.WarningColor},
	trading.EventInviteReceived:  {"🚪 Room Invite", "<@%s> invited you to a private trade room.", config.InfoColor},
	trading.EventInviteAccepted:  {"✅ Invite Accepted", "<@%s> accepted your room invite.", config.SuccessColor},
	trading.EventInviteRejected:  {"❌ Invite Declined", "<@%s> declined your room invite.", config.WarningColor},
	trading.EventTradeOpened:     {"🔄 New Trade Offer", "<@%s> wants to trade with you!", config.InfoColor},
	trading.EventTradeAccepted:   {"🤝 Trade Accepted", "<@%s> accepted the trade.", config.SuccessColor},
	trading.EventTradeRejected:   {"❌ Trade Rejected", "<@%s> rejected the trade.", config.WarningColor},
	trading.EventTradeCancelled:  {"🚫 Trade Cancelled", "<@%s> cancelled the trade.", config.WarningColor},
	trading.EventTradeCompleted:  {"🎉 Trade Completed", "<@%s> completed the trade. Your cards have been exchanged.", config.SuccessColor},
	trading.EventTradeUpdated:    {"✏️ Trade Updated", "<@%s> changed their side of the trade.", config.InfoColor},
}

// RenderEvent builds the direct message for an event.
func RenderEvent(event trading.Event) discord.MessageCreate {
	text, ok := eventTexts[event.Type]
	if !ok {
		text = eventText{"Trade Update", "<@%s> did something with your trade.", config.BackgroundColor}
	}

	eb := discord.NewEmbedBuilder().
		SetTitle(text.title).
		SetDescription(fmt.Sprintf(text.format, event.ActorID)).
		SetColor(text.color)

	if event.TradeID != 0 {
		eb.AddField("Trade ID", event.TradeID.String(), true)
	}
	if event.RequestID != 0 {
		eb.AddField("Request ID", event.RequestID.String(), true)
	}
	if event.InviteID != 0 {
		eb.AddField("Invite ID", event.InviteID.String(), true)
	}
	if event.RoomCode != "" {
		eb.AddField("Room Code", event.RoomCode, true)
	}
	if !event.At.IsZero() {
		eb.SetTimestamp(event.At)
	}
	eb.SetFooter("Use /inbox to review your trades", "")

	return discord.MessageCreate{Embeds: []discord.Embed{eb.Build()}}
}
