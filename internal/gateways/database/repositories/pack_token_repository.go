package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gohye/cardtrade/internal/domain/packs"
	"github.com/gohye/cardtrade/internal/gateways/database/models"
	"github.com/uptrace/bun"
)

type packTokenRepository struct {
	db *bun.DB
}

var _ packs.TokenStore = (*packTokenRepository)(nil)

func NewPackTokenRepository(db *bun.DB) packs.TokenStore {
	return &packTokenRepository{db: db}
}

func (r *packTokenRepository) Get(ctx context.Context, userID string) (packs.TokenState, bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	m := new(models.PackTokenState)
	err := r.db.NewSelect().Model(m).Where("user_id = ?", userID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return packs.TokenState{}, false, nil
	}
	if err != nil {
		return packs.TokenState{}, false, handleError("select", "pack tokens", userID, err)
	}
	return packs.TokenState{Tokens: m.Tokens, LastRefillAt: m.LastRefillAt}, true, nil
}

// Modify holds the user's row lock while fn runs. A first-time user has no
// row to lock, so two first calls can race on the insert; the loser retries
// once and then finds the row.
func (r *packTokenRepository) Modify(ctx context.Context, userID string, fn func(state *packs.TokenState, found bool) (bool, error)) error {
	err := r.modify(ctx, userID, fn)
	if uniqueViolation(err, "") {
		err = r.modify(ctx, userID, fn)
	}
	return err
}

func (r *packTokenRepository) modify(ctx context.Context, userID string, fn func(state *packs.TokenState, found bool) (bool, error)) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		m := new(models.PackTokenState)
		err := tx.NewSelect().Model(m).Where("user_id = ?", userID).For("UPDATE").Scan(ctx)
		found := true
		if errors.Is(err, sql.ErrNoRows) {
			found = false
		} else if err != nil {
			return handleError("lock", "pack tokens", userID, err)
		}

		st := packs.TokenState{Tokens: m.Tokens, LastRefillAt: m.LastRefillAt}
		save, err := fn(&st, found)
		if err != nil || !save {
			return err
		}

		row := &models.PackTokenState{UserID: userID, Tokens: st.Tokens, LastRefillAt: st.LastRefillAt}
		if found {
			_, err = tx.NewUpdate().Model(row).WherePK().Exec(ctx)
		} else {
			_, err = tx.NewInsert().Model(row).Exec(ctx)
		}
		if uniqueViolation(err, "") {
			return err
		}
		return handleError("save", "pack tokens", userID, err)
	})
}
