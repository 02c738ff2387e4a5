package trading

import (
	"context"
	"log/slog"
	"time"

	"github.com/disgoorg/snowflake/v2"
	appErrors "github.com/gohye/cardtrade/pkg/errors"
)

// TradeService drives trades through their lifecycle and settles completed
// ones. Every transition runs in its own transaction with the trade row
// locked, so concurrent transitions on one trade are serialized and only the
// first legal one wins.
type TradeService struct {
	store    Store
	users    Users
	settler  *Settler
	notifier Notifier
	ids      *IDGenerator
	now      func() time.Time
}

func NewTradeService(store Store, users Users, settler *Settler, notifier Notifier, ids *IDGenerator) *TradeService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &TradeService{
		store:    store,
		users:    users,
		settler:  settler,
		notifier: notifier,
		ids:      ids,
		now:      time.Now,
	}
}

// OpenPublic creates a pending public trade offered directly by initiator.
// The initiator must hold the offered cards now; the receiver's side is only
// checked when the trade completes.
func (s *TradeService) OpenPublic(ctx context.Context, initiator, receiver string, give, take []CardRef) (*Trade, error) {
	if initiator == receiver {
		return nil, appErrors.ErrSelfTradeNotAllowed
	}
	if err := ValidateRefs(give); err != nil {
		return nil, err
	}
	if err := ValidateRefs(take); err != nil {
		return nil, err
	}
	if len(give) == 0 && len(take) == 0 {
		return nil, appErrors.InvalidArg("trade names no cards")
	}
	exists, err := s.users.Exists(ctx, receiver)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, appErrors.ErrRecipientNotFound
	}

	now := s.now()
	trade := &Trade{
		ID:              s.ids.Next(),
		InitiatorUserID: initiator,
		ReceiverUserID:  receiver,
		InitiatorCards:  AggregateRefs(give),
		ReceiverCards:   AggregateRefs(take),
		TradeType:       TradePublic,
		Status:          TradePending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	err = s.store.RunInTx(ctx, func(ctx context.Context, tx Tx) error {
		if err := VerifyOwned(ctx, tx.Ownership(), initiator, trade.InitiatorCards); err != nil {
			return err
		}
		return tx.Trades().Create(ctx, trade)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Trade opened",
		slog.String("type", "trade"),
		slog.String("trade_id", trade.ID.String()),
		slog.String("initiator", initiator),
		slog.String("receiver", receiver))
	s.notifier.Notify(ctx, Event{
		Type:        EventTradeOpened,
		RecipientID: receiver,
		ActorID:     initiator,
		TradeID:     trade.ID,
		At:          now,
	})
	return trade, nil
}

func (s *TradeService) Accept(ctx context.Context, tradeID snowflake.ID, actor string) (*Trade, error) {
	return s.transition(ctx, tradeID, actor, TradeAccepted)
}

func (s *TradeService) Reject(ctx context.Context, tradeID snowflake.ID, actor string) (*Trade, error) {
	return s.transition(ctx, tradeID, actor, TradeRejected)
}

func (s *TradeService) Cancel(ctx context.Context, tradeID snowflake.ID, actor string) (*Trade, error) {
	return s.transition(ctx, tradeID, actor, TradeCancelled)
}

// Complete settles an accepted trade. Either participant may complete it.
// If either side no longer owns what it promised, nothing moves and the
// trade stays accepted.
func (s *TradeService) Complete(ctx context.Context, tradeID snowflake.ID, actor string) (*Trade, error) {
	return s.transition(ctx, tradeID, actor, TradeCompleted)
}

func (s *TradeService) transition(ctx context.Context, tradeID snowflake.ID, actor string, to TradeStatus) (*Trade, error) {
	var trade *Trade
	err := s.store.RunInTx(ctx, func(ctx context.Context, tx Tx) error {
		t, err := tx.Trades().Lock(ctx, tradeID)
		if err != nil {
			return err
		}
		if err := authorize(t, actor, to); err != nil {
			return err
		}
		if to == TradeCompleted {
			if err := s.settler.Settle(ctx, tx.Ownership(), t); err != nil {
				return err
			}
		}
		t.Status = to
		t.UpdatedAt = s.now()
		if err := tx.Trades().Update(ctx, t); err != nil {
			return err
		}
		trade = t
		return nil
	})
	if err != nil {
		slog.Debug("Trade transition refused",
			slog.String("type", "trade"),
			slog.String("trade_id", tradeID.String()),
			slog.String("actor", actor),
			slog.String("to", string(to)),
			slog.Any("error", err))
		return nil, err
	}

	slog.Info("Trade transitioned",
		slog.String("type", "trade"),
		slog.String("trade_id", trade.ID.String()),
		slog.String("actor", actor),
		slog.String("status", string(to)))
	s.notifier.Notify(ctx, Event{
		Type:        tradeEvent(to),
		RecipientID: trade.Counterparty(actor),
		ActorID:     actor,
		TradeID:     trade.ID,
		RoomCode:    trade.PrivateRoomCode,
		At:          trade.UpdatedAt,
	})
	return trade, nil
}

// SetCards replaces the actor's side of a pending trade. The actor must own
// the new cards.
func (s *TradeService) SetCards(ctx context.Context, tradeID snowflake.ID, actor string, refs []CardRef) (*Trade, error) {
	if err := ValidateRefs(refs); err != nil {
		return nil, err
	}
	refs = AggregateRefs(refs)

	var trade *Trade
	err := s.store.RunInTx(ctx, func(ctx context.Context, tx Tx) error {
		t, err := tx.Trades().Lock(ctx, tradeID)
		if err != nil {
			return err
		}
		if !t.IsParticipant(actor) {
			return appErrors.ErrForbidden
		}
		if t.Status != TradePending {
			return appErrors.Newf(appErrors.CodeInvalidTransition, "cards can only change while pending, trade is %s", t.Status)
		}
		if err := VerifyOwned(ctx, tx.Ownership(), actor, refs); err != nil {
			return err
		}
		if actor == t.InitiatorUserID {
			t.InitiatorCards = refs
		} else {
			t.ReceiverCards = refs
		}
		t.UpdatedAt = s.now()
		if err := tx.Trades().Update(ctx, t); err != nil {
			return err
		}
		trade = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, Event{
		Type:        EventTradeUpdated,
		RecipientID: trade.Counterparty(actor),
		ActorID:     actor,
		TradeID:     trade.ID,
		RoomCode:    trade.PrivateRoomCode,
		At:          trade.UpdatedAt,
	})
	return trade, nil
}

// Get returns a trade visible to viewer.
func (s *TradeService) Get(ctx context.Context, tradeID snowflake.ID, viewer string) (*Trade, error) {
	var trade *Trade
	err := s.store.RunInTx(ctx, func(ctx context.Context, tx Tx) error {
		t, err := tx.Trades().Get(ctx, tradeID)
		if err != nil {
			return err
		}
		trade = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !trade.IsParticipant(viewer) {
		return nil, appErrors.ErrForbidden
	}
	return trade, nil
}

// FindRoom resolves an active private room code for one of its participants.
func (s *TradeService) FindRoom(ctx context.Context, code, viewer string) (*Trade, error) {
	var trade *Trade
	err := s.store.RunInTx(ctx, func(ctx context.Context, tx Tx) error {
		t, err := tx.Trades().ActiveByRoomCode(ctx, code)
		if err != nil {
			return err
		}
		trade = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !trade.IsParticipant(viewer) {
		return nil, appErrors.ErrForbidden
	}
	return trade, nil
}

func (s *TradeService) ListActive(ctx context.Context, userID string) ([]*Trade, error) {
	var trades []*Trade
	err := s.store.RunInTx(ctx, func(ctx context.Context, tx Tx) error {
		var err error
		trades, err = tx.Trades().ListActiveByUser(ctx, userID)
		return err
	})
	return trades, err
}
