package packs

import (
	"context"
	"fmt"
	"time"
)

const (
	DefaultCapacity       = 2
	DefaultRefillInterval = 12 * time.Hour
)

// TokenState is the persisted per-user bucket.
type TokenState struct {
	Tokens       int
	LastRefillAt time.Time
}

// Snapshot is a recomputed bucket. NextAllowedAt is nil while the bucket is full.
type Snapshot struct {
	State         TokenState
	NextAllowedAt *time.Time
}

// TokenStore persists bucket state. Modify runs fn against the user's state
// while holding an exclusive per-user lock; found is false when nothing is
// stored yet. The state is written back only when fn returns save=true.
type TokenStore interface {
	Get(ctx context.Context, userID string) (TokenState, bool, error)
	Modify(ctx context.Context, userID string, fn func(state *TokenState, found bool) (save bool, err error)) error
}

type BucketConfig struct {
	Capacity       int
	RefillInterval time.Duration
}

func DefaultBucketConfig() BucketConfig {
	return BucketConfig{Capacity: DefaultCapacity, RefillInterval: DefaultRefillInterval}
}

func (c BucketConfig) Validate() error {
	if c.Capacity <= 0 {
		return fmt.Errorf("bucket capacity must be positive, got %d", c.Capacity)
	}
	if c.RefillInterval <= 0 {
		return fmt.Errorf("bucket refill interval must be positive, got %s", c.RefillInterval)
	}
	return nil
}

func (c BucketConfig) Initial(now time.Time) TokenState {
	return TokenState{Tokens: c.Capacity, LastRefillAt: now}
}

// ComputeState refills the bucket for every whole interval elapsed since the
// last refill. LastRefillAt advances by whole intervals only, so partial
// progress toward the next token is kept.
func (c BucketConfig) ComputeState(state TokenState, now time.Time) Snapshot {
	tokens := min(max(state.Tokens, 0), c.Capacity)
	last := state.LastRefillAt

	if refills := int64(now.Sub(last) / c.RefillInterval); refills > 0 {
		tokens = int(min(int64(c.Capacity), int64(tokens)+refills))
		last = last.Add(time.Duration(refills) * c.RefillInterval)
	}

	next := TokenState{Tokens: tokens, LastRefillAt: last}
	return Snapshot{State: next, NextAllowedAt: c.nextAllowedAt(next)}
}

func (c BucketConfig) nextAllowedAt(state TokenState) *time.Time {
	if state.Tokens >= c.Capacity {
		return nil
	}
	at := state.LastRefillAt.Add(c.RefillInterval)
	return &at
}

// Bucket applies BucketConfig to persisted per-user state.
type Bucket struct {
	cfg   BucketConfig
	store TokenStore
	now   func() time.Time
}

func NewBucket(cfg BucketConfig, store TokenStore) *Bucket {
	return &Bucket{cfg: cfg, store: store, now: time.Now}
}

// State reports the user's current tokens without consuming one. The first
// read of an unknown user stores a full bucket, which starts the refill clock.
func (b *Bucket) State(ctx context.Context, userID string) (Snapshot, error) {
	now := b.now()
	state, found, err := b.store.Get(ctx, userID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to read pack tokens: %w", err)
	}
	if found {
		return b.cfg.ComputeState(state, now), nil
	}

	err = b.store.Modify(ctx, userID, func(st *TokenState, found bool) (bool, error) {
		if found {
			state = *st
			return false, nil
		}
		state = b.cfg.Initial(now)
		*st = state
		return true, nil
	})
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to initialize pack tokens: %w", err)
	}
	return b.cfg.ComputeState(state, now), nil
}

// TryConsume takes one token. The emptiness check and the decrement are made
// against the same recomputed snapshot inside the store's per-user lock.
func (b *Bucket) TryConsume(ctx context.Context, userID string) (bool, Snapshot, error) {
	now := b.now()
	var (
		allowed bool
		snap    Snapshot
	)

	err := b.store.Modify(ctx, userID, func(state *TokenState, found bool) (bool, error) {
		current := *state
		if !found {
			current = b.cfg.Initial(now)
		}

		snap = b.cfg.ComputeState(current, now)
		if snap.State.Tokens == 0 {
			allowed = false
			return false, nil
		}

		snap.State.Tokens--
		snap.NextAllowedAt = b.cfg.nextAllowedAt(snap.State)
		*state = snap.State
		allowed = true
		return true, nil
	})
	if err != nil {
		return false, Snapshot{}, fmt.Errorf("failed to consume pack token: %w", err)
	}
	return allowed, snap, nil
}

// Refund gives back a token taken by TryConsume when the pack could not be
// granted. It never exceeds capacity.
func (b *Bucket) Refund(ctx context.Context, userID string) error {
	now := b.now()
	return b.store.Modify(ctx, userID, func(state *TokenState, found bool) (bool, error) {
		if !found {
			return false, nil
		}
		snap := b.cfg.ComputeState(*state, now)
		if snap.State.Tokens >= b.cfg.Capacity {
			return false, nil
		}
		snap.State.Tokens++
		*state = snap.State
		return true, nil
	})
}
