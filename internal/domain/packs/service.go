package packs

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/gohye/cardtrade/internal/domain/cards"
	"github.com/gohye/cardtrade/internal/domain/ownership"
	appErrors "github.com/gohye/cardtrade/pkg/errors"
)

// PoolSource supplies the candidate cards of a set.
type PoolSource interface {
	Pool(ctx context.Context, setID string) ([]cards.Card, error)
}

type Config struct {
	Bucket       BucketConfig
	PackSize     int
	MinHitRarity cards.Rarity
}

func DefaultConfig() Config {
	return Config{
		Bucket:       DefaultBucketConfig(),
		PackSize:     DefaultPackSize,
		MinHitRarity: cards.RarityRare,
	}
}

type Result struct {
	Cards         []cards.Card
	TokensLeft    int
	NextAllowedAt *time.Time
}

type Service struct {
	cfg     Config
	bucket  *Bucket
	pools   PoolSource
	granter ownership.Granter

	rngMu sync.Mutex
	rng   *rand.Rand
}

func NewService(cfg Config, store TokenStore, pools PoolSource, granter ownership.Granter) *Service {
	return &Service{
		cfg:     cfg,
		bucket:  NewBucket(cfg.Bucket, store),
		pools:   pools,
		granter: granter,
		rng:     rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

// Tokens reports how many packs the user may open right now.
func (s *Service) Tokens(ctx context.Context, userID string) (Snapshot, error) {
	return s.bucket.State(ctx, userID)
}

// Open consumes a token, builds one pack from the set's pool and adds the
// cards to the user's collection. An empty bucket yields a RateLimitedError.
func (s *Service) Open(ctx context.Context, userID, setID string) (*Result, error) {
	pool, err := s.pools.Pool(ctx, setID)
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		return nil, appErrors.ErrEntityNotFound("card set", setID)
	}

	allowed, snap, err := s.bucket.TryConsume(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		slog.Debug("Pack opening rate limited",
			slog.String("type", "pack"),
			slog.String("user_id", userID),
			slog.Any("next_allowed_at", snap.NextAllowedAt))
		var next time.Time
		if snap.NextAllowedAt != nil {
			next = *snap.NextAllowedAt
		}
		return nil, appErrors.RateLimited(next)
	}

	s.rngMu.Lock()
	pack := SelectPack(pool, s.cfg.PackSize, s.cfg.MinHitRarity, s.rng)
	s.rngMu.Unlock()

	ids := make([]int64, len(pack))
	for i, c := range pack {
		ids[i] = c.ID
	}

	if err := s.granter.Grant(ctx, userID, ids); err != nil {
		if refundErr := s.bucket.Refund(ctx, userID); refundErr != nil {
			slog.Error("Failed to refund pack token",
				slog.String("type", "pack"),
				slog.String("user_id", userID),
				slog.Any("error", refundErr))
		}
		return nil, fmt.Errorf("failed to grant pack: %w", err)
	}

	slog.Info("Pack opened",
		slog.String("type", "pack"),
		slog.String("user_id", userID),
		slog.String("set_id", setID),
		slog.Int("cards", len(pack)),
		slog.Int("tokens_left", snap.State.Tokens))

	return &Result{
		Cards:         pack,
		TokensLeft:    snap.State.Tokens,
		NextAllowedAt: snap.NextAllowedAt,
	}, nil
}
