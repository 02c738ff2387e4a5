package trading

import (
	"context"
	"fmt"
	"sort"

	"github.com/gohye/cardtrade/internal/domain/ownership"
	appErrors "github.com/gohye/cardtrade/pkg/errors"
)

// leg moves Quantity copies of one card from one collection to another.
type leg struct {
	from, to string
	ref      CardRef
}

// Settler moves the cards of a completed trade between collections. It must
// run inside the transaction that marks the trade completed.
type Settler struct{}

func NewSettler() *Settler {
	return &Settler{}
}

func (s *Settler) Settle(ctx context.Context, repo ownership.Repository, trade *Trade) error {
	if err := ValidateRefs(trade.InitiatorCards); err != nil {
		return err
	}
	if err := ValidateRefs(trade.ReceiverCards); err != nil {
		return err
	}

	legs := make([]leg, 0, len(trade.InitiatorCards)+len(trade.ReceiverCards))
	for _, ref := range AggregateRefs(trade.InitiatorCards) {
		legs = append(legs, leg{from: trade.InitiatorUserID, to: trade.ReceiverUserID, ref: ref})
	}
	for _, ref := range AggregateRefs(trade.ReceiverCards) {
		legs = append(legs, leg{from: trade.ReceiverUserID, to: trade.InitiatorUserID, ref: ref})
	}
	if len(legs) == 0 {
		return nil
	}

	needs := make(map[ownership.Key]int64, len(legs))
	touched := make(map[ownership.Key]struct{}, len(legs)*2)
	for _, l := range legs {
		src := collectionKey(l.from, l.ref.CardID)
		needs[src] += l.ref.Quantity
		touched[src] = struct{}{}
		touched[collectionKey(l.to, l.ref.CardID)] = struct{}{}
	}

	keys := make([]ownership.Key, 0, len(touched))
	for k := range touched {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })

	// Lock every row in a fixed order before changing any of them.
	for _, k := range keys {
		has, err := repo.Quantity(ctx, k)
		if err != nil {
			return fmt.Errorf("failed to lock %s: %w", k, err)
		}
		if need, ok := needs[k]; ok && has < need {
			return appErrors.ErrInsufficient(k.OwnerID, k.CardID, has, need)
		}
	}

	for _, l := range legs {
		if err := repo.Remove(ctx, collectionKey(l.from, l.ref.CardID), l.ref.Quantity); err != nil {
			return err
		}
		if err := repo.Add(ctx, collectionKey(l.to, l.ref.CardID), l.ref.Quantity); err != nil {
			return err
		}
	}
	return nil
}

// VerifyOwned checks that owner holds every ref without changing anything.
func VerifyOwned(ctx context.Context, repo ownership.Repository, owner string, refs []CardRef) error {
	for _, ref := range AggregateRefs(refs) {
		has, err := repo.Quantity(ctx, collectionKey(owner, ref.CardID))
		if err != nil {
			return err
		}
		if has < ref.Quantity {
			return appErrors.ErrInsufficient(owner, ref.CardID, has, ref.Quantity)
		}
	}
	return nil
}

func collectionKey(owner string, cardID int64) ownership.Key {
	return ownership.Key{OwnerID: owner, CardID: cardID, Bucket: ownership.BucketCollection}
}
