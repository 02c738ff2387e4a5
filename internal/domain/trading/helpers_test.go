package trading_test

import (
	"context"
	"sync"
	"testing"

	"github.com/gohye/cardtrade/internal/domain/ownership"
	"github.com/gohye/cardtrade/internal/domain/trading"
	"github.com/gohye/cardtrade/internal/gateways/memory"
)

const (
	pikachu   int64 = 1
	charizard int64 = 2
	oak       int64 = 3
)

type fixture struct {
	store    *memory.Store
	trades   *trading.TradeService
	requests *trading.RequestService
	rooms    *trading.RoomService
}

func newFixture(t *testing.T, policy trading.AcceptPolicy, notifier trading.Notifier, codes trading.RoomCodeGenerator) *fixture {
	t.Helper()
	store := memory.NewStore()
	store.AddUser("alice", "bob", "carol")
	store.Befriend("alice", "bob")
	ids := trading.NewIDGenerator(0)
	return &fixture{
		store:    store,
		trades:   trading.NewTradeService(store, store, trading.NewSettler(), notifier, ids),
		requests: trading.NewRequestService(store, store, notifier, ids, policy),
		rooms:    trading.NewRoomService(store, store, notifier, ids, codes),
	}
}

func (f *fixture) give(t *testing.T, owner string, cardID, qty int64) {
	t.Helper()
	if err := f.store.Ownership().Add(context.Background(), collection(owner, cardID), qty); err != nil {
		t.Fatalf("seed %s/%d: %v", owner, cardID, err)
	}
}

func (f *fixture) owned(t *testing.T, owner string, cardID int64) int64 {
	t.Helper()
	q, err := f.store.Ownership().Quantity(context.Background(), collection(owner, cardID))
	if err != nil {
		t.Fatalf("quantity %s/%d: %v", owner, cardID, err)
	}
	return q
}

func collection(owner string, cardID int64) ownership.Key {
	return ownership.Key{OwnerID: owner, CardID: cardID, Bucket: ownership.BucketCollection}
}

func ref(cardID, qty int64) trading.CardRef {
	return trading.CardRef{CardID: cardID, Quantity: qty}
}

// seqCodes hands out codes in order and repeats the last one.
type seqCodes struct {
	mu    sync.Mutex
	codes []string
}

func (s *seqCodes) Generate() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	code := s.codes[0]
	if len(s.codes) > 1 {
		s.codes = s.codes[1:]
	}
	return code, nil
}
