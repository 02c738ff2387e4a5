package trading

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/disgoorg/snowflake/v2"
	appErrors "github.com/gohye/cardtrade/pkg/errors"
)

// AcceptPolicy decides the state of the trade born from an accepted request.
type AcceptPolicy string

const (
	// AcceptIntoPending makes the receiver confirm the trade a second time.
	AcceptIntoPending AcceptPolicy = "pending"
	// AcceptIntoAccepted treats accepting the request as accepting the trade.
	AcceptIntoAccepted AcceptPolicy = "accepted"
)

func ParseAcceptPolicy(s string) (AcceptPolicy, error) {
	switch p := AcceptPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case AcceptIntoPending, AcceptIntoAccepted:
		return p, nil
	case "":
		return AcceptIntoPending, nil
	default:
		return "", fmt.Errorf("unknown request accept policy %q", s)
	}
}

func (p AcceptPolicy) tradeStatus() TradeStatus {
	if p == AcceptIntoAccepted {
		return TradeAccepted
	}
	return TradePending
}

type RequestService struct {
	store    Store
	users    Users
	notifier Notifier
	ids      *IDGenerator
	policy   AcceptPolicy
	now      func() time.Time
}

func NewRequestService(store Store, users Users, notifier Notifier, ids *IDGenerator, policy AcceptPolicy) *RequestService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if policy == "" {
		policy = AcceptIntoPending
	}
	return &RequestService{
		store:    store,
		users:    users,
		notifier: notifier,
		ids:      ids,
		policy:   policy,
		now:      time.Now,
	}
}

func (s *RequestService) Create(ctx context.Context, from, to string, p Proposal) (*TradeRequest, error) {
	if from == to {
		return nil, appErrors.ErrSelfTradeNotAllowed
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	exists, err := s.users.Exists(ctx, to)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, appErrors.ErrRecipientNotFound
	}

	now := s.now()
	req := &TradeRequest{
		ID:         s.ids.Next(),
		FromUserID: from,
		ToUserID:   to,
		Offer:      p.Offer,
		Want:       p.Want,
		IsManual:   p.IsManual,
		Note:       strings.TrimSpace(p.Note),
		Status:     RequestPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	err = s.store.RunInTx(ctx, func(ctx context.Context, tx Tx) error {
		dup, err := tx.Requests().FindPending(ctx, req.Key())
		if err != nil {
			return err
		}
		if dup != nil {
			return appErrors.ErrDuplicateRequest
		}
		if req.Offer != nil {
			if err := VerifyOwned(ctx, tx.Ownership(), from, []CardRef{*req.Offer}); err != nil {
				return err
			}
		}
		return tx.Requests().Create(ctx, req)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Trade request created",
		slog.String("type", "trade"),
		slog.String("request_id", req.ID.String()),
		slog.String("from", from),
		slog.String("to", to),
		slog.Bool("manual", req.IsManual))
	s.notifier.Notify(ctx, Event{
		Type:        EventRequestReceived,
		RecipientID: to,
		ActorID:     from,
		RequestID:   req.ID,
		At:          now,
	})
	return req, nil
}

// Accept turns a pending request into a trade in the same transaction that
// marks the request accepted.
func (s *RequestService) Accept(ctx context.Context, requestID snowflake.ID, actor string) (*TradeRequest, *Trade, error) {
	var (
		req   *TradeRequest
		trade *Trade
	)
	err := s.store.RunInTx(ctx, func(ctx context.Context, tx Tx) error {
		r, err := s.lockAnswerable(ctx, tx, requestID, actor, RequestAccepted)
		if err != nil {
			return err
		}
		now := s.now()
		t := &Trade{
			ID:              s.ids.Next(),
			InitiatorUserID: r.FromUserID,
			ReceiverUserID:  r.ToUserID,
			TradeType:       TradePublic,
			Status:          s.policy.tradeStatus(),
			RequestID:       &r.ID,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if r.Offer != nil {
			t.InitiatorCards = []CardRef{*r.Offer}
		}
		if r.Want != nil {
			t.ReceiverCards = []CardRef{*r.Want}
		}
		if err := tx.Trades().Create(ctx, t); err != nil {
			return err
		}
		r.Status = RequestAccepted
		r.TradeID = &t.ID
		r.UpdatedAt = now
		if err := tx.Requests().Update(ctx, r); err != nil {
			return err
		}
		req, trade = r, t
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	slog.Info("Trade request accepted",
		slog.String("type", "trade"),
		slog.String("request_id", req.ID.String()),
		slog.String("trade_id", trade.ID.String()),
		slog.String("trade_status", string(trade.Status)))
	s.notifier.Notify(ctx, Event{
		Type:        EventRequestAccepted,
		RecipientID: req.FromUserID,
		ActorID:     actor,
		RequestID:   req.ID,
		TradeID:     trade.ID,
		At:          req.UpdatedAt,
	})
	return req, trade, nil
}

func (s *RequestService) Reject(ctx context.Context, requestID snowflake.ID, actor string) (*TradeRequest, error) {
	var req *TradeRequest
	err := s.store.RunInTx(ctx, func(ctx context.Context, tx Tx) error {
		r, err := s.lockAnswerable(ctx, tx, requestID, actor, RequestRejected)
		if err != nil {
			return err
		}
		r.Status = RequestRejected
		r.UpdatedAt = s.now()
		if err := tx.Requests().Update(ctx, r); err != nil {
			return err
		}
		req = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, Event{
		Type:        EventRequestRejected,
		RecipientID: req.FromUserID,
		ActorID:     actor,
		RequestID:   req.ID,
		At:          req.UpdatedAt,
	})
	return req, nil
}

func (s *RequestService) lockAnswerable(ctx context.Context, tx Tx, id snowflake.ID, actor string, to RequestStatus) (*TradeRequest, error) {
	r, err := tx.Requests().Lock(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor != r.ToUserID {
		return nil, appErrors.Forbidden("only the recipient may answer a trade request")
	}
	if r.Status != RequestPending {
		return nil, appErrors.InvalidTransition(string(r.Status), string(to))
	}
	return r, nil
}

func (s *RequestService) ListIncoming(ctx context.Context, userID string) ([]*TradeRequest, error) {
	return s.list(ctx, userID, true)
}

func (s *RequestService) ListOutgoing(ctx context.Context, userID string) ([]*TradeRequest, error) {
	return s.list(ctx, userID, false)
}

func (s *RequestService) list(ctx context.Context, userID string, incoming bool) ([]*TradeRequest, error) {
	var out []*TradeRequest
	err := s.store.RunInTx(ctx, func(ctx context.Context, tx Tx) error {
		var err error
		out, err = tx.Requests().ListPending(ctx, userID, incoming)
		return err
	})
	return out, err
}
