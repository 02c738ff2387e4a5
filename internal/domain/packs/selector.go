package packs

import (
	"math/rand/v2"

	"github.com/gohye/cardtrade/internal/domain/cards"
)

const DefaultPackSize = 10

// SelectPack draws packSize-1 distinct cards from pool and then a final hit
// slot. The hit is drawn from the full pool restricted to cards ranked at or
// above minRarity (or the full pool when none qualify), so it may repeat one
// of the earlier slots.
func SelectPack(pool []cards.Card, packSize int, minRarity cards.Rarity, rng *rand.Rand) []cards.Card {
	if packSize <= 0 || len(pool) == 0 {
		return []cards.Card{}
	}

	working := make([]cards.Card, len(pool))
	copy(working, pool)

	pack := make([]cards.Card, 0, packSize)
	for i := 0; i < packSize-1 && len(working) > 0; i++ {
		idx := rng.IntN(len(working))
		pack = append(pack, working[idx])
		last := len(working) - 1
		working[idx] = working[last]
		working = working[:last]
	}

	hits := make([]cards.Card, 0, len(pool))
	for _, c := range pool {
		if c.Rarity.AtLeast(minRarity) {
			hits = append(hits, c)
		}
	}
	if len(hits) == 0 {
		hits = pool
	}

	return append(pack, hits[rng.IntN(len(hits))])
}
