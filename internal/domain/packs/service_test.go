package packs

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/gohye/cardtrade/internal/domain/cards"
	appErrors "github.com/gohye/cardtrade/pkg/errors"
)

type staticPools map[string][]cards.Card

func (p staticPools) Pool(_ context.Context, setID string) ([]cards.Card, error) {
	return p[setID], nil
}

type recordingGranter struct {
	granted map[string][]int64
	err     error
}

func (g *recordingGranter) Grant(_ context.Context, ownerID string, ids []int64) error {
	if g.err != nil {
		return g.err
	}
	if g.granted == nil {
		g.granted = make(map[string][]int64)
	}
	g.granted[ownerID] = append(g.granted[ownerID], ids...)
	return nil
}

func (g *recordingGranter) GrantCounts(ctx context.Context, ownerID string, counts map[int64]int64) error {
	var ids []int64
	for id, n := range counts {
		for ; n > 0; n-- {
			ids = append(ids, id)
		}
	}
	return g.Grant(ctx, ownerID, ids)
}

func newTestService(granter *recordingGranter) (*Service, *fakeTokenStore, *time.Time) {
	pools := staticPools{"base1": append(testPool(20, cards.RarityCommon), cards.Card{ID: 100, Rarity: cards.RarityRareHolo})}
	store := newFakeTokenStore()
	s := NewService(DefaultConfig(), store, pools, granter)
	now := epoch
	s.bucket.now = func() time.Time { return now }
	s.rng = rand.New(rand.NewPCG(42, 42))
	return s, store, &now
}

func TestService_Open(t *testing.T) {
	granter := &recordingGranter{}
	s, _, now := newTestService(granter)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		res, err := s.Open(ctx, "gary", "base1")
		if err != nil {
			t.Fatalf("open %d: error = %v", i, err)
		}
		if len(res.Cards) != DefaultPackSize {
			t.Fatalf("open %d: pack size = %d", i, len(res.Cards))
		}
		if res.Cards[len(res.Cards)-1].ID != 100 {
			t.Fatalf("open %d: hit slot = %d, want 100", i, res.Cards[len(res.Cards)-1].ID)
		}
	}
	if got := len(granter.granted["gary"]); got != 2*DefaultPackSize {
		t.Fatalf("granted %d cards, want %d", got, 2*DefaultPackSize)
	}

	_, err := s.Open(ctx, "gary", "base1")
	var rl *appErrors.RateLimitedError
	if !errors.As(err, &rl) {
		t.Fatalf("third open error = %v, want RateLimitedError", err)
	}
	if !rl.NextAllowedAt.Equal(epoch.Add(DefaultRefillInterval)) {
		t.Fatalf("NextAllowedAt = %v, want %v", rl.NextAllowedAt, epoch.Add(DefaultRefillInterval))
	}

	*now = epoch.Add(DefaultRefillInterval)
	if _, err := s.Open(ctx, "gary", "base1"); err != nil {
		t.Fatalf("open after refill error = %v", err)
	}
}

func TestService_OpenUnknownSet(t *testing.T) {
	s, store, _ := newTestService(&recordingGranter{})
	_, err := s.Open(context.Background(), "gary", "missing")
	if !errors.Is(err, appErrors.ErrNotFound) {
		t.Fatalf("error = %v, want not found", err)
	}
	if store.writes != 0 {
		t.Fatalf("unknown set must not consume a token")
	}
}

func TestService_OpenGrantFailureRefunds(t *testing.T) {
	granter := &recordingGranter{err: errors.New("db down")}
	s, _, _ := newTestService(granter)
	ctx := context.Background()

	if _, err := s.Open(ctx, "gary", "base1"); err == nil {
		t.Fatalf("expected grant failure")
	}
	snap, err := s.Tokens(ctx, "gary")
	if err != nil {
		t.Fatalf("Tokens() error = %v", err)
	}
	if snap.State.Tokens != DefaultCapacity {
		t.Fatalf("tokens after failed grant = %d, want %d", snap.State.Tokens, DefaultCapacity)
	}
}
