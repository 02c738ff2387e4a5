package repositories

import (
	"context"
	"database/sql"

	"github.com/gohye/cardtrade/internal/domain/ownership"
	"github.com/gohye/cardtrade/internal/domain/trading"
	"github.com/uptrace/bun"
)

// Store runs trading units of work in Postgres transactions. READ COMMITTED
// plus row locks is enough: every state change first locks the row it
// changes, so a waiting transaction re-reads the committed version.
type Store struct {
	db *bun.DB
}

var (
	_ trading.Store     = (*Store)(nil)
	_ ownership.Granter = (*Store)(nil)
)

func NewStore(db *bun.DB) *Store {
	return &Store{db: db}
}

func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, tx trading.Tx) error) error {
	return s.db.RunInTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted}, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, txScope{tx: tx})
	})
}

// Ownership returns a repository running each statement on its own.
func (s *Store) Ownership() ownership.Repository {
	return NewOwnershipRepository(s.db)
}

// Grant adds one copy per id to the owner's collection in one transaction.
func (s *Store) Grant(ctx context.Context, ownerID string, cardIDs []int64) error {
	return s.GrantCounts(ctx, ownerID, ownership.CountIDs(cardIDs))
}

// GrantCounts upserts each card once, in ascending card id order.
func (s *Store) GrantCounts(ctx context.Context, ownerID string, counts map[int64]int64) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		repo := NewOwnershipRepository(tx)
		for _, id := range ownership.SortedCardIDs(counts) {
			key := ownership.Key{OwnerID: ownerID, CardID: id, Bucket: ownership.BucketCollection}
			if err := repo.Add(ctx, key, counts[id]); err != nil {
				return err
			}
		}
		return nil
	})
}

type txScope struct {
	tx bun.Tx
}

func (t txScope) Trades() trading.TradeRepository     { return &tradeRepository{db: t.tx} }
func (t txScope) Requests() trading.RequestRepository { return &requestRepository{db: t.tx} }
func (t txScope) Invites() trading.InviteRepository   { return &inviteRepository{db: t.tx} }
func (t txScope) Ownership() ownership.Repository     { return NewOwnershipRepository(t.tx) }
