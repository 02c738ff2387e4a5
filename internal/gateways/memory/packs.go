package memory

import (
	"context"

	"github.com/gohye/cardtrade/internal/domain/packs"
)

var _ packs.TokenStore = (*Store)(nil)

func (s *Store) Get(_ context.Context, userID string) (packs.TokenState, bool, error) {
	s.tokensMu.Lock()
	defer s.tokensMu.Unlock()
	st, ok := s.tokens[userID]
	return st, ok, nil
}

func (s *Store) Modify(ctx context.Context, userID string, fn func(state *packs.TokenState, found bool) (bool, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.tokensMu.Lock()
	defer s.tokensMu.Unlock()

	st, found := s.tokens[userID]
	save, err := fn(&st, found)
	if err != nil {
		return err
	}
	if save {
		s.tokens[userID] = st
	}
	return nil
}
