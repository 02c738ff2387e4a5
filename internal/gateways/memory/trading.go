package memory

import (
	"context"
	"sort"

	"github.com/disgoorg/snowflake/v2"
	"github.com/gohye/cardtrade/internal/domain/trading"
	appErrors "github.com/gohye/cardtrade/pkg/errors"
)

type tradeRepo struct {
	s *state
}

func (r tradeRepo) Create(_ context.Context, t *trading.Trade) error {
	if _, ok := r.s.trades[t.ID]; ok {
		return appErrors.Newf(appErrors.CodeInternal, "trade %s already exists", t.ID)
	}
	if t.PrivateRoomCode != "" && r.codeInUse(t.PrivateRoomCode) {
		return trading.ErrRoomCodeTaken
	}
	r.s.trades[t.ID] = t.Clone()
	return nil
}

func (r tradeRepo) Get(_ context.Context, id snowflake.ID) (*trading.Trade, error) {
	t, ok := r.s.trades[id]
	if !ok {
		return nil, appErrors.ErrEntityNotFound("trade", id)
	}
	return t.Clone(), nil
}

// Lock is Get; the transaction already holds the store lock.
func (r tradeRepo) Lock(ctx context.Context, id snowflake.ID) (*trading.Trade, error) {
	return r.Get(ctx, id)
}

func (r tradeRepo) Update(_ context.Context, t *trading.Trade) error {
	if _, ok := r.s.trades[t.ID]; !ok {
		return appErrors.ErrEntityNotFound("trade", t.ID)
	}
	r.s.trades[t.ID] = t.Clone()
	return nil
}

func (r tradeRepo) ActiveByRoomCode(_ context.Context, code string) (*trading.Trade, error) {
	for _, t := range r.s.trades {
		if t.PrivateRoomCode == code && !t.Status.IsTerminal() {
			return t.Clone(), nil
		}
	}
	return nil, appErrors.ErrEntityNotFound("room", code)
}

func (r tradeRepo) RoomCodeInUse(_ context.Context, code string) (bool, error) {
	return r.codeInUse(code), nil
}

func (r tradeRepo) codeInUse(code string) bool {
	for _, t := range r.s.trades {
		if t.PrivateRoomCode == code && !t.Status.IsTerminal() {
			return true
		}
	}
	return false
}

func (r tradeRepo) ListActiveByUser(_ context.Context, userID string) ([]*trading.Trade, error) {
	var out []*trading.Trade
	for _, t := range r.s.trades {
		if t.IsParticipant(userID) && !t.Status.IsTerminal() {
			out = append(out, t.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type requestRepo struct {
	s *state
}

func (r requestRepo) Create(_ context.Context, req *trading.TradeRequest) error {
	if _, ok := r.s.requests[req.ID]; ok {
		return appErrors.Newf(appErrors.CodeInternal, "request %s already exists", req.ID)
	}
	r.s.requests[req.ID] = cloneRequest(req)
	return nil
}

func (r requestRepo) Lock(_ context.Context, id snowflake.ID) (*trading.TradeRequest, error) {
	req, ok := r.s.requests[id]
	if !ok {
		return nil, appErrors.ErrEntityNotFound("trade request", id)
	}
	return cloneRequest(req), nil
}

func (r requestRepo) Update(_ context.Context, req *trading.TradeRequest) error {
	if _, ok := r.s.requests[req.ID]; !ok {
		return appErrors.ErrEntityNotFound("trade request", req.ID)
	}
	r.s.requests[req.ID] = cloneRequest(req)
	return nil
}

func (r requestRepo) FindPending(_ context.Context, key trading.RequestKey) (*trading.TradeRequest, error) {
	for _, req := range r.s.requests {
		if req.Status == trading.RequestPending && req.Key() == key {
			return cloneRequest(req), nil
		}
	}
	return nil, nil
}

func (r requestRepo) ListPending(_ context.Context, userID string, incoming bool) ([]*trading.TradeRequest, error) {
	var out []*trading.TradeRequest
	for _, req := range r.s.requests {
		if req.Status != trading.RequestPending {
			continue
		}
		if (incoming && req.ToUserID == userID) || (!incoming && req.FromUserID == userID) {
			out = append(out, cloneRequest(req))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type inviteRepo struct {
	s *state
}

func (r inviteRepo) Create(_ context.Context, inv *trading.RoomInvite) error {
	if _, ok := r.s.invites[inv.ID]; ok {
		return appErrors.Newf(appErrors.CodeInternal, "invite %s already exists", inv.ID)
	}
	r.s.invites[inv.ID] = cloneInvite(inv)
	return nil
}

func (r inviteRepo) Lock(_ context.Context, id snowflake.ID) (*trading.RoomInvite, error) {
	inv, ok := r.s.invites[id]
	if !ok {
		return nil, appErrors.ErrEntityNotFound("room invite", id)
	}
	return cloneInvite(inv), nil
}

func (r inviteRepo) Update(_ context.Context, inv *trading.RoomInvite) error {
	if _, ok := r.s.invites[inv.ID]; !ok {
		return appErrors.ErrEntityNotFound("room invite", inv.ID)
	}
	r.s.invites[inv.ID] = cloneInvite(inv)
	return nil
}

func (r inviteRepo) PendingBetween(_ context.Context, a, b string) (bool, error) {
	for _, inv := range r.s.invites {
		if inv.Status != trading.InvitePending {
			continue
		}
		if (inv.FromUserID == a && inv.ToUserID == b) || (inv.FromUserID == b && inv.ToUserID == a) {
			return true, nil
		}
	}
	return false, nil
}

func cloneRequest(r *trading.TradeRequest) *trading.TradeRequest {
	c := *r
	if r.Offer != nil {
		o := *r.Offer
		c.Offer = &o
	}
	if r.Want != nil {
		w := *r.Want
		c.Want = &w
	}
	if r.TradeID != nil {
		id := *r.TradeID
		c.TradeID = &id
	}
	return &c
}

func cloneInvite(i *trading.RoomInvite) *trading.RoomInvite {
	c := *i
	if i.TradeID != nil {
		id := *i.TradeID
		c.TradeID = &id
	}
	return &c
}
