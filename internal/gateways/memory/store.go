// Package memory keeps every store in process memory. It backs development
// mode and the domain concurrency tests.
//
// Transactions take one store-wide lock and work on a copy of the state that
// replaces the live state only when the callback succeeds.
package memory

import (
	"context"
	"sync"

	"github.com/disgoorg/snowflake/v2"
	"github.com/gohye/cardtrade/internal/domain/cards"
	"github.com/gohye/cardtrade/internal/domain/ownership"
	"github.com/gohye/cardtrade/internal/domain/packs"
	"github.com/gohye/cardtrade/internal/domain/trading"
)

type state struct {
	trades    map[snowflake.ID]*trading.Trade
	requests  map[snowflake.ID]*trading.TradeRequest
	invites   map[snowflake.ID]*trading.RoomInvite
	ownership map[ownership.Key]ownership.Record
}

func newState() *state {
	return &state{
		trades:    make(map[snowflake.ID]*trading.Trade),
		requests:  make(map[snowflake.ID]*trading.TradeRequest),
		invites:   make(map[snowflake.ID]*trading.RoomInvite),
		ownership: make(map[ownership.Key]ownership.Record),
	}
}

func (s *state) clone() *state {
	c := &state{
		trades:    make(map[snowflake.ID]*trading.Trade, len(s.trades)),
		requests:  make(map[snowflake.ID]*trading.TradeRequest, len(s.requests)),
		invites:   make(map[snowflake.ID]*trading.RoomInvite, len(s.invites)),
		ownership: make(map[ownership.Key]ownership.Record, len(s.ownership)),
	}
	for id, t := range s.trades {
		c.trades[id] = t.Clone()
	}
	for id, r := range s.requests {
		c.requests[id] = cloneRequest(r)
	}
	for id, i := range s.invites {
		c.invites[id] = cloneInvite(i)
	}
	for k, r := range s.ownership {
		c.ownership[k] = r
	}
	return c
}

type Store struct {
	mu    sync.Mutex
	state *state

	tokensMu sync.Mutex
	tokens   map[string]packs.TokenState

	catalogMu sync.RWMutex
	cards     map[int64]*cards.Card
	users     map[string]struct{}
	friends   map[[2]string]struct{}
}

func NewStore() *Store {
	return &Store{
		state:   newState(),
		tokens:  make(map[string]packs.TokenState),
		cards:   make(map[int64]*cards.Card),
		users:   make(map[string]struct{}),
		friends: make(map[[2]string]struct{}),
	}
}

var _ trading.Store = (*Store)(nil)

func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, tx trading.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.state.clone()
	if err := fn(ctx, &tx{state: work}); err != nil {
		return err
	}
	s.state = work
	return nil
}

// Ownership returns a repository that applies each call directly.
func (s *Store) Ownership() ownership.Repository {
	return &autoCommitOwnership{store: s}
}

type autoCommitOwnership struct {
	store *Store
}

func (o *autoCommitOwnership) run(ctx context.Context, fn func(repo ownership.Repository) error) error {
	return o.store.RunInTx(ctx, func(ctx context.Context, tx trading.Tx) error {
		return fn(tx.Ownership())
	})
}

func (o *autoCommitOwnership) Quantity(ctx context.Context, key ownership.Key) (int64, error) {
	var q int64
	err := o.run(ctx, func(repo ownership.Repository) error {
		var err error
		q, err = repo.Quantity(ctx, key)
		return err
	})
	return q, err
}

func (o *autoCommitOwnership) Add(ctx context.Context, key ownership.Key, amount int64) error {
	return o.run(ctx, func(repo ownership.Repository) error { return repo.Add(ctx, key, amount) })
}

func (o *autoCommitOwnership) Remove(ctx context.Context, key ownership.Key, amount int64) error {
	return o.run(ctx, func(repo ownership.Repository) error { return repo.Remove(ctx, key, amount) })
}

func (o *autoCommitOwnership) ListByOwner(ctx context.Context, ownerID string) ([]ownership.Record, error) {
	var out []ownership.Record
	err := o.run(ctx, func(repo ownership.Repository) error {
		var err error
		out, err = repo.ListByOwner(ctx, ownerID)
		return err
	})
	return out, err
}

var _ ownership.Granter = (*Store)(nil)

// Grant adds one copy per id to the owner's collection in a single unit.
func (s *Store) Grant(ctx context.Context, ownerID string, cardIDs []int64) error {
	return s.GrantCounts(ctx, ownerID, ownership.CountIDs(cardIDs))
}

func (s *Store) GrantCounts(ctx context.Context, ownerID string, counts map[int64]int64) error {
	return s.RunInTx(ctx, func(ctx context.Context, tx trading.Tx) error {
		for _, id := range ownership.SortedCardIDs(counts) {
			key := ownership.Key{OwnerID: ownerID, CardID: id, Bucket: ownership.BucketCollection}
			if err := tx.Ownership().Add(ctx, key, counts[id]); err != nil {
				return err
			}
		}
		return nil
	})
}

type tx struct {
	state *state
}

func (t *tx) Trades() trading.TradeRepository     { return tradeRepo{t.state} }
func (t *tx) Requests() trading.RequestRepository { return requestRepo{t.state} }
func (t *tx) Invites() trading.InviteRepository   { return inviteRepo{t.state} }
func (t *tx) Ownership() ownership.Repository     { return ownershipRepo{t.state} }
