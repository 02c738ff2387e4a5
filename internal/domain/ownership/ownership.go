// Package ownership describes who owns how many copies of which card.
package ownership

import (
	"context"
	"fmt"
	"slices"
)

type Bucket string

const (
	BucketCollection Bucket = "collection"
	BucketWishlist   Bucket = "wishlist"
)

func (b Bucket) Valid() bool {
	return b == BucketCollection || b == BucketWishlist
}

// Record is one owner/card/bucket row. A record with Quantity 0 does not exist.
type Record struct {
	OwnerID   string
	CardID    int64
	Bucket    Bucket
	Quantity  int64
	Tradeable bool
}

// Key identifies a record.
type Key struct {
	OwnerID string
	CardID  int64
	Bucket  Bucket
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%d/%s", k.OwnerID, k.CardID, k.Bucket)
}

// Less orders keys so that multi-row locks are always taken in the same order.
func (k Key) Less(other Key) bool {
	if k.OwnerID != other.OwnerID {
		return k.OwnerID < other.OwnerID
	}
	if k.CardID != other.CardID {
		return k.CardID < other.CardID
	}
	return k.Bucket < other.Bucket
}

// Repository reads and writes ownership records. Implementations bound to a
// transaction lock the rows they read through Quantity until commit.
type Repository interface {
	Quantity(ctx context.Context, key Key) (int64, error)
	Add(ctx context.Context, key Key, amount int64) error
	// Remove decrements and deletes the record when it reaches zero. It fails
	// with an insufficient-ownership error when fewer than amount are owned.
	Remove(ctx context.Context, key Key, amount int64) error
	ListByOwner(ctx context.Context, ownerID string) ([]Record, error)
}

// Granter adds cards to a collection outside of trading (pack openings and
// imports). Grant adds one copy per id; GrantCounts adds counts[cardID]
// copies. Each call is applied in one unit of work.
type Granter interface {
	Grant(ctx context.Context, ownerID string, cardIDs []int64) error
	GrantCounts(ctx context.Context, ownerID string, counts map[int64]int64) error
}

// CountIDs folds repeated ids into per-card counts.
func CountIDs(cardIDs []int64) map[int64]int64 {
	counts := make(map[int64]int64, len(cardIDs))
	for _, id := range cardIDs {
		counts[id]++
	}
	return counts
}

// SortedCardIDs returns the keys of counts in ascending order, the order
// rows are touched in.
func SortedCardIDs(counts map[int64]int64) []int64 {
	ids := make([]int64, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
