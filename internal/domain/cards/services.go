package cards

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/sahilm/fuzzy"
	"golang.org/x/sync/singleflight"
)

const (
	poolCacheSize   = 256
	poolCacheExpiry = 5 * time.Minute
)

// ErrNoMatch is returned by FindByName when no catalog card resembles the query.
var ErrNoMatch = errors.New("no matching card")

type Service interface {
	Pool(ctx context.Context, setID string) ([]Card, error)
	Rarity(ctx context.Context, cardID int64) (Rarity, error)
	Card(ctx context.Context, cardID int64) (*Card, error)
	FindByName(ctx context.Context, query string) (*Card, error)
}

type cachedPool struct {
	cards    []Card
	loadedAt time.Time
}

type service struct {
	repository Repository
	cache      *lru.Cache
	group      singleflight.Group
	now        func() time.Time
}

func NewService(repository Repository) *service {
	cache, _ := lru.New(poolCacheSize)
	return &service{
		repository: repository,
		cache:      cache,
		now:        time.Now,
	}
}

// Pool returns every card of a set. Results are cached per set and concurrent
// misses for the same set share one repository call.
func (s *service) Pool(ctx context.Context, setID string) ([]Card, error) {
	if v, ok := s.cache.Get(setID); ok {
		entry := v.(cachedPool)
		if s.now().Sub(entry.loadedAt) < poolCacheExpiry {
			return clonePool(entry.cards), nil
		}
		s.cache.Remove(setID)
	}

	v, err, _ := s.group.Do(setID, func() (any, error) {
		found, err := s.repository.GetBySet(ctx, setID)
		if err != nil {
			return nil, fmt.Errorf("failed to load pool for set %s: %w", setID, err)
		}
		pool := make([]Card, 0, len(found))
		for _, c := range found {
			if c != nil {
				pool = append(pool, *c)
			}
		}
		s.cache.Add(setID, cachedPool{cards: pool, loadedAt: s.now()})
		return pool, nil
	})
	if err != nil {
		return nil, err
	}
	return clonePool(v.([]Card)), nil
}

func (s *service) Rarity(ctx context.Context, cardID int64) (Rarity, error) {
	card, err := s.repository.GetByID(ctx, cardID)
	if err != nil {
		return RarityUnknown, fmt.Errorf("failed to resolve card %d: %w", cardID, err)
	}
	return card.Rarity, nil
}

func (s *service) Card(ctx context.Context, cardID int64) (*Card, error) {
	card, err := s.repository.GetByID(ctx, cardID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve card %d: %w", cardID, err)
	}
	return card, nil
}

// CardSearchItems implements fuzzy.Source over catalog cards
type CardSearchItems []*Card

func (items CardSearchItems) Len() int {
	return len(items)
}

func (items CardSearchItems) String(i int) string {
	return strings.ToLower(items[i].Name)
}

// FindByName resolves free text typed by a user to the closest catalog card.
func (s *service) FindByName(ctx context.Context, query string) (*Card, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil, fmt.Errorf("empty card query: %w", ErrNoMatch)
	}

	all, err := s.repository.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cards: %w", err)
	}

	for _, c := range all {
		if strings.ToLower(c.Name) == query {
			return c, nil
		}
	}

	matches := fuzzy.FindFrom(query, CardSearchItems(all))
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w for %q", ErrNoMatch, query)
	}
	return all[matches[0].Index], nil
}

func clonePool(pool []Card) []Card {
	out := make([]Card, len(pool))
	copy(out, pool)
	return out
}
