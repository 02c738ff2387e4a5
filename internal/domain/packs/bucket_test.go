package packs

import (
	"context"
	"sync"
	"testing"
	"time"
)

type fakeTokenStore struct {
	mu     sync.Mutex
	states map[string]TokenState
	writes int
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{states: make(map[string]TokenState)}
}

func (f *fakeTokenStore) Get(_ context.Context, userID string) (TokenState, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	st, ok := f.states[userID]
	return st, ok, nil
}

func (f *fakeTokenStore) Modify(_ context.Context, userID string, fn func(*TokenState, bool) (bool, error)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	st, ok := f.states[userID]
	save, err := fn(&st, ok)
	if err != nil || !save {
		return err
	}
	f.states[userID] = st
	f.writes++
	return nil
}

var epoch = time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)

func TestBucketConfig_ComputeState(t *testing.T) {
	cfg := BucketConfig{Capacity: 2, RefillInterval: 12 * time.Hour}

	tests := []struct {
		name       string
		state      TokenState
		now        time.Time
		wantTokens int
		wantLast   time.Time
		wantNext   *time.Time
	}{
		{
			name:       "EmptyAfter25hRefillsToCapacity",
			state:      TokenState{Tokens: 0, LastRefillAt: epoch.Add(-25 * time.Hour)},
			now:        epoch,
			wantTokens: 2,
			wantLast:   epoch.Add(-1 * time.Hour),
			wantNext:   nil,
		},
		{
			name:       "PartialProgressIsKept",
			state:      TokenState{Tokens: 0, LastRefillAt: epoch.Add(-13 * time.Hour)},
			now:        epoch,
			wantTokens: 1,
			wantLast:   epoch.Add(-1 * time.Hour),
			wantNext:   ptr(epoch.Add(11 * time.Hour)),
		},
		{
			name:       "NoWholeIntervalNoRefill",
			state:      TokenState{Tokens: 1, LastRefillAt: epoch.Add(-11 * time.Hour)},
			now:        epoch,
			wantTokens: 1,
			wantLast:   epoch.Add(-11 * time.Hour),
			wantNext:   ptr(epoch.Add(1 * time.Hour)),
		},
		{
			name:       "ClockSkewDoesNotRefill",
			state:      TokenState{Tokens: 0, LastRefillAt: epoch.Add(30 * time.Hour)},
			now:        epoch,
			wantTokens: 0,
			wantLast:   epoch.Add(30 * time.Hour),
			wantNext:   ptr(epoch.Add(42 * time.Hour)),
		},
		{
			name:       "OutOfRangeTokensAreClamped",
			state:      TokenState{Tokens: 9, LastRefillAt: epoch},
			now:        epoch,
			wantTokens: 2,
			wantLast:   epoch,
			wantNext:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cfg.ComputeState(tt.state, tt.now)
			if got.State.Tokens != tt.wantTokens {
				t.Errorf("tokens = %d, want %d", got.State.Tokens, tt.wantTokens)
			}
			if !got.State.LastRefillAt.Equal(tt.wantLast) {
				t.Errorf("lastRefillAt = %v, want %v", got.State.LastRefillAt, tt.wantLast)
			}
			switch {
			case tt.wantNext == nil && got.NextAllowedAt != nil:
				t.Errorf("nextAllowedAt = %v, want nil", *got.NextAllowedAt)
			case tt.wantNext != nil && (got.NextAllowedAt == nil || !got.NextAllowedAt.Equal(*tt.wantNext)):
				t.Errorf("nextAllowedAt = %v, want %v", got.NextAllowedAt, *tt.wantNext)
			}
		})
	}
}

func TestBucketConfig_ComputeStateIdempotent(t *testing.T) {
	cfg := BucketConfig{Capacity: 2, RefillInterval: 12 * time.Hour}
	for h := 0; h < 60; h++ {
		start := TokenState{Tokens: 0, LastRefillAt: epoch.Add(-time.Duration(h) * time.Hour)}
		once := cfg.ComputeState(start, epoch)
		twice := cfg.ComputeState(once.State, epoch)
		if once.State != twice.State {
			t.Fatalf("elapsed %dh: second compute changed state %+v -> %+v", h, once.State, twice.State)
		}
	}
}

func TestBucketConfig_NeverExceedsCapacity(t *testing.T) {
	cfg := BucketConfig{Capacity: 2, RefillInterval: 12 * time.Hour}
	for _, tokens := range []int{0, 1, 2} {
		for h := 0; h < 24*10; h += 5 {
			got := cfg.ComputeState(TokenState{Tokens: tokens, LastRefillAt: epoch}, epoch.Add(time.Duration(h)*time.Hour))
			if got.State.Tokens > cfg.Capacity || got.State.Tokens < 0 {
				t.Fatalf("tokens %d out of range after %dh", got.State.Tokens, h)
			}
			if (got.NextAllowedAt == nil) != (got.State.Tokens == cfg.Capacity) {
				t.Fatalf("nextAllowedAt nil=%v but tokens=%d after %dh", got.NextAllowedAt == nil, got.State.Tokens, h)
			}
		}
	}
}

func TestBucket_TryConsume(t *testing.T) {
	store := newFakeTokenStore()
	b := NewBucket(BucketConfig{Capacity: 2, RefillInterval: 12 * time.Hour}, store)
	now := epoch
	b.now = func() time.Time { return now }
	ctx := context.Background()

	ok, snap, err := b.TryConsume(ctx, "ash")
	if err != nil || !ok {
		t.Fatalf("first consume: ok=%v err=%v", ok, err)
	}
	if snap.State.Tokens != 1 || snap.NextAllowedAt == nil || !snap.NextAllowedAt.Equal(epoch.Add(12*time.Hour)) {
		t.Fatalf("first consume snapshot = %+v", snap)
	}

	now = epoch.Add(time.Hour)
	if ok, _, _ := b.TryConsume(ctx, "ash"); !ok {
		t.Fatalf("second consume should succeed")
	}

	writes := store.writes
	ok, snap, err = b.TryConsume(ctx, "ash")
	if err != nil {
		t.Fatalf("third consume error = %v", err)
	}
	if ok {
		t.Fatalf("third consume should be rate limited")
	}
	if snap.NextAllowedAt == nil || !snap.NextAllowedAt.Equal(epoch.Add(12*time.Hour)) {
		t.Fatalf("rate limited nextAllowedAt = %v", snap.NextAllowedAt)
	}
	if store.writes != writes {
		t.Fatalf("denied consume must not persist state")
	}

	now = epoch.Add(12 * time.Hour)
	if ok, _, _ := b.TryConsume(ctx, "ash"); !ok {
		t.Fatalf("consume after refill should succeed")
	}
}

func TestBucket_TryConsumeConcurrent(t *testing.T) {
	store := newFakeTokenStore()
	b := NewBucket(BucketConfig{Capacity: 2, RefillInterval: 12 * time.Hour}, store)
	b.now = func() time.Time { return epoch }

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		granted int
	)
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, _, err := b.TryConsume(context.Background(), "misty")
			if err != nil {
				t.Errorf("TryConsume() error = %v", err)
				return
			}
			if ok {
				mu.Lock()
				granted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if granted != 2 {
		t.Fatalf("granted %d packs, want 2", granted)
	}
}

func TestBucket_Refund(t *testing.T) {
	store := newFakeTokenStore()
	b := NewBucket(BucketConfig{Capacity: 2, RefillInterval: 12 * time.Hour}, store)
	b.now = func() time.Time { return epoch }
	ctx := context.Background()

	if err := b.Refund(ctx, "brock"); err != nil {
		t.Fatalf("Refund() on unknown user error = %v", err)
	}
	if _, ok, _ := store.Get(ctx, "brock"); ok {
		t.Fatalf("Refund() must not create state")
	}

	b.TryConsume(ctx, "brock")
	if err := b.Refund(ctx, "brock"); err != nil {
		t.Fatalf("Refund() error = %v", err)
	}
	snap, _ := b.State(ctx, "brock")
	if snap.State.Tokens != 2 {
		t.Fatalf("tokens after refund = %d, want 2", snap.State.Tokens)
	}

	if err := b.Refund(ctx, "brock"); err != nil {
		t.Fatalf("Refund() error = %v", err)
	}
	snap, _ = b.State(ctx, "brock")
	if snap.State.Tokens != 2 {
		t.Fatalf("refund exceeded capacity: %d", snap.State.Tokens)
	}
}

func TestBucket_FirstReadStartsRefillClock(t *testing.T) {
	store := newFakeTokenStore()
	b := NewBucket(BucketConfig{Capacity: 2, RefillInterval: 12 * time.Hour}, store)
	now := epoch
	b.now = func() time.Time { return now }
	ctx := context.Background()

	snap, err := b.State(ctx, "gary")
	if err != nil {
		t.Fatalf("State() error = %v", err)
	}
	if snap.State.Tokens != 2 || snap.NextAllowedAt != nil {
		t.Fatalf("first read snapshot = %+v, want a full bucket", snap)
	}
	stored, ok, _ := store.Get(ctx, "gary")
	if !ok || !stored.LastRefillAt.Equal(epoch) || stored.Tokens != 2 {
		t.Fatalf("first read stored %+v (found=%v), want {2 %v}", stored, ok, epoch)
	}

	now = epoch.Add(5 * time.Hour)
	ok, snap, err = b.TryConsume(ctx, "gary")
	if err != nil || !ok {
		t.Fatalf("consume: ok=%v err=%v", ok, err)
	}
	if snap.NextAllowedAt == nil || !snap.NextAllowedAt.Equal(epoch.Add(12*time.Hour)) {
		t.Fatalf("nextAllowedAt = %v, want %v", snap.NextAllowedAt, epoch.Add(12*time.Hour))
	}

	writes := store.writes
	if _, err := b.State(ctx, "gary"); err != nil {
		t.Fatalf("State() error = %v", err)
	}
	if store.writes != writes {
		t.Fatalf("reading a known user must not write")
	}
}

func ptr[T any](v T) *T { return &v }
