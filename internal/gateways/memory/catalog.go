package memory

import (
	"context"
	"sort"

	"github.com/gohye/cardtrade/internal/domain/cards"
	"github.com/gohye/cardtrade/internal/domain/trading"
	appErrors "github.com/gohye/cardtrade/pkg/errors"
)

var (
	_ cards.Repository    = (*Store)(nil)
	_ trading.Users       = (*Store)(nil)
	_ trading.FriendGraph = (*Store)(nil)
)

func (s *Store) PutCards(list ...cards.Card) {
	s.catalogMu.Lock()
	defer s.catalogMu.Unlock()
	for i := range list {
		c := list[i]
		s.cards[c.ID] = &c
	}
}

func (s *Store) GetByID(_ context.Context, id int64) (*cards.Card, error) {
	s.catalogMu.RLock()
	defer s.catalogMu.RUnlock()
	c, ok := s.cards[id]
	if !ok {
		return nil, appErrors.ErrEntityNotFound("card", id)
	}
	cp := *c
	return &cp, nil
}

func (s *Store) GetByIDs(_ context.Context, ids []int64) ([]*cards.Card, error) {
	s.catalogMu.RLock()
	defer s.catalogMu.RUnlock()
	out := make([]*cards.Card, 0, len(ids))
	for _, id := range ids {
		if c, ok := s.cards[id]; ok {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *Store) GetBySet(_ context.Context, setID string) ([]*cards.Card, error) {
	s.catalogMu.RLock()
	defer s.catalogMu.RUnlock()
	var out []*cards.Card
	for _, c := range s.cards {
		if c.SetID == setID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetAll(_ context.Context) ([]*cards.Card, error) {
	s.catalogMu.RLock()
	defer s.catalogMu.RUnlock()
	out := make([]*cards.Card, 0, len(s.cards))
	for _, c := range s.cards {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) AddUser(ids ...string) {
	s.catalogMu.Lock()
	defer s.catalogMu.Unlock()
	for _, id := range ids {
		s.users[id] = struct{}{}
	}
}

func (s *Store) Exists(_ context.Context, userID string) (bool, error) {
	s.catalogMu.RLock()
	defer s.catalogMu.RUnlock()
	_, ok := s.users[userID]
	return ok, nil
}

// Befriend records a mutual friendship and registers both users.
func (s *Store) Befriend(a, b string) {
	s.catalogMu.Lock()
	defer s.catalogMu.Unlock()
	s.users[a] = struct{}{}
	s.users[b] = struct{}{}
	s.friends[friendKey(a, b)] = struct{}{}
}

func (s *Store) AreFriends(_ context.Context, a, b string) (bool, error) {
	s.catalogMu.RLock()
	defer s.catalogMu.RUnlock()
	_, ok := s.friends[friendKey(a, b)]
	return ok, nil
}

func friendKey(a, b string) [2]string {
	if b < a {
		a, b = b, a
	}
	return [2]string{a, b}
}

func (s *Store) Register(_ context.Context, userID, _ string) error {
	s.AddUser(userID)
	return nil
}

func (s *Store) AddFriend(_ context.Context, a, b string) error {
	s.Befriend(a, b)
	return nil
}

func (s *Store) BulkUpsert(_ context.Context, list []cards.Card) (int, error) {
	s.PutCards(list...)
	return len(list), nil
}
