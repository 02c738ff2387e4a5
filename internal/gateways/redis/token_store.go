// Package redis stores pack token buckets in Redis so several bot processes
// can share one limit per user.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gohye/cardtrade/internal/domain/packs"
	goredis "github.com/redis/go-redis/v9"
)

const (
	fieldTokens     = "tokens"
	fieldLastRefill = "last_refill_at"
	maxWatchRetries = 16
)

var ErrContended = errors.New("token state kept changing under watch")

type TokenStore struct {
	rdb    goredis.UniversalClient
	prefix string
	ttl    time.Duration
}

type Option func(*TokenStore)

func WithPrefix(prefix string) Option {
	return func(s *TokenStore) {
		if p := strings.Trim(prefix, ":"); p != "" {
			s.prefix = p
		}
	}
}

// WithTTL expires idle buckets. Zero keeps them forever. An expired bucket is
// recreated full, so the ttl should be at least capacity*refill interval.
func WithTTL(d time.Duration) Option {
	return func(s *TokenStore) { s.ttl = d }
}

func NewTokenStore(rdb goredis.UniversalClient, opts ...Option) *TokenStore {
	s := &TokenStore{rdb: rdb, prefix: "cardtrade:packtokens"}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ packs.TokenStore = (*TokenStore)(nil)

func (s *TokenStore) key(userID string) string {
	return s.prefix + ":" + userID
}

func (s *TokenStore) Get(ctx context.Context, userID string) (packs.TokenState, bool, error) {
	return read(ctx, s.rdb, s.key(userID))
}

// Modify runs fn under WATCH and retries when another writer touched the key
// between the read and the MULTI/EXEC.
func (s *TokenStore) Modify(ctx context.Context, userID string, fn func(state *packs.TokenState, found bool) (bool, error)) error {
	key := s.key(userID)
	txf := func(tx *goredis.Tx) error {
		st, found, err := read(ctx, tx, key)
		if err != nil {
			return err
		}
		save, err := fn(&st, found)
		if err != nil || !save {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.HSet(ctx, key,
				fieldTokens, st.Tokens,
				fieldLastRefill, st.LastRefillAt.UnixNano())
			if s.ttl > 0 {
				pipe.Expire(ctx, key, s.ttl)
			}
			return nil
		})
		return err
	}

	for i := 0; i < maxWatchRetries; i++ {
		err := s.rdb.Watch(ctx, txf, key)
		if err == nil {
			return nil
		}
		if errors.Is(err, goredis.TxFailedErr) {
			continue
		}
		return err
	}
	return ErrContended
}

type hashReader interface {
	HGetAll(ctx context.Context, key string) *goredis.MapStringStringCmd
}

func read(ctx context.Context, c hashReader, key string) (packs.TokenState, bool, error) {
	vals, err := c.HGetAll(ctx, key).Result()
	if err != nil {
		return packs.TokenState{}, false, fmt.Errorf("failed to read token state: %w", err)
	}
	if len(vals) == 0 {
		return packs.TokenState{}, false, nil
	}
	tokens, err := strconv.Atoi(vals[fieldTokens])
	if err != nil {
		return packs.TokenState{}, false, fmt.Errorf("corrupt token count for %s: %w", key, err)
	}
	nanos, err := strconv.ParseInt(vals[fieldLastRefill], 10, 64)
	if err != nil {
		return packs.TokenState{}, false, fmt.Errorf("corrupt refill time for %s: %w", key, err)
	}
	return packs.TokenState{Tokens: tokens, LastRefillAt: time.Unix(0, nanos).UTC()}, true, nil
}
