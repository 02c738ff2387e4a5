package trading

import (
	"context"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

type EventType string

const (
	EventRequestReceived EventType = "request_received"
	EventRequestAccepted EventType = "request_accepted"
	EventRequestRejected EventType = "request_rejected"
	EventInviteReceived  EventType = "invite_received"
	EventInviteAccepted  EventType = "invite_accepted"
	EventInviteRejected  EventType = "invite_rejected"
	EventTradeOpened     EventType = "trade_opened"
	EventTradeAccepted   EventType = "trade_accepted"
	EventTradeRejected   EventType = "trade_rejected"
	EventTradeCancelled  EventType = "trade_cancelled"
	EventTradeCompleted  EventType = "trade_completed"
	EventTradeUpdated    EventType = "trade_updated"
)

// Event tells RecipientID that ActorID did something. Only the ids relevant
// to the event type are set.
type Event struct {
	Type        EventType
	RecipientID string
	ActorID     string
	TradeID     snowflake.ID
	RequestID   snowflake.ID
	InviteID    snowflake.ID
	RoomCode    string
	At          time.Time
}

// Notifier delivers events to users. Delivery is best effort and happens
// after the state change has committed, so it cannot fail an operation.
type Notifier interface {
	Notify(ctx context.Context, event Event)
}

type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, Event) {}

func tradeEvent(status TradeStatus) EventType {
	switch status {
	case TradeAccepted:
		return EventTradeAccepted
	case TradeRejected:
		return EventTradeRejected
	case TradeCancelled:
		return EventTradeCancelled
	case TradeCompleted:
		return EventTradeCompleted
	default:
		return EventTradeUpdated
	}
}
