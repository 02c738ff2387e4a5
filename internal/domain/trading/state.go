package trading

import appErrors "github.com/gohye/cardtrade/pkg/errors"

type TradeStatus string

const (
	TradePending   TradeStatus = "pending"
	TradeAccepted  TradeStatus = "accepted"
	TradeRejected  TradeStatus = "rejected"
	TradeCancelled TradeStatus = "cancelled"
	TradeCompleted TradeStatus = "completed"
)

var transitions = map[TradeStatus][]TradeStatus{
	TradePending:  {TradeAccepted, TradeRejected, TradeCancelled},
	TradeAccepted: {TradeCompleted, TradeCancelled},
}

// ActiveStatuses are the non-terminal states. A private room code is unique
// among trades in these states only.
var ActiveStatuses = []TradeStatus{TradePending, TradeAccepted}

func (s TradeStatus) IsTerminal() bool {
	_, ok := transitions[s]
	return !ok
}

func (s TradeStatus) CanTransition(to TradeStatus) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

func (s TradeStatus) checkTransition(to TradeStatus) error {
	if !s.CanTransition(to) {
		return appErrors.InvalidTransition(string(s), string(to))
	}
	return nil
}

// authorize enforces who may drive a transition. Any caller outside the trade
// is refused regardless of the target state.
func authorize(t *Trade, actor string, to TradeStatus) error {
	if !t.IsParticipant(actor) {
		return appErrors.ErrForbidden
	}
	if err := t.Status.checkTransition(to); err != nil {
		return err
	}
	switch to {
	case TradeAccepted, TradeRejected:
		if actor != t.ReceiverUserID {
			return appErrors.Forbidden("only the receiver may answer a pending trade")
		}
	}
	return nil
}
