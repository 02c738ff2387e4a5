package memory

import (
	"context"
	"sort"

	"github.com/gohye/cardtrade/internal/domain/ownership"
	appErrors "github.com/gohye/cardtrade/pkg/errors"
)

type ownershipRepo struct {
	s *state
}

func (r ownershipRepo) Quantity(_ context.Context, key ownership.Key) (int64, error) {
	return r.s.ownership[key].Quantity, nil
}

func (r ownershipRepo) Add(_ context.Context, key ownership.Key, amount int64) error {
	if amount <= 0 {
		return appErrors.Newf(appErrors.CodeInvalidArgument, "invalid amount %d", amount)
	}
	if !key.Bucket.Valid() {
		return appErrors.Newf(appErrors.CodeInvalidArgument, "invalid bucket %q", key.Bucket)
	}
	rec, ok := r.s.ownership[key]
	if !ok {
		rec = ownership.Record{
			OwnerID:   key.OwnerID,
			CardID:    key.CardID,
			Bucket:    key.Bucket,
			Tradeable: true,
		}
	}
	rec.Quantity += amount
	r.s.ownership[key] = rec
	return nil
}

func (r ownershipRepo) Remove(_ context.Context, key ownership.Key, amount int64) error {
	if amount <= 0 {
		return appErrors.Newf(appErrors.CodeInvalidArgument, "invalid amount %d", amount)
	}
	rec := r.s.ownership[key]
	if rec.Quantity < amount {
		return appErrors.ErrInsufficient(key.OwnerID, key.CardID, rec.Quantity, amount)
	}
	rec.Quantity -= amount
	if rec.Quantity == 0 {
		delete(r.s.ownership, key)
		return nil
	}
	r.s.ownership[key] = rec
	return nil
}

func (r ownershipRepo) ListByOwner(_ context.Context, ownerID string) ([]ownership.Record, error) {
	var out []ownership.Record
	for _, rec := range r.s.ownership {
		if rec.OwnerID == ownerID {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return ownership.Key{OwnerID: out[i].OwnerID, CardID: out[i].CardID, Bucket: out[i].Bucket}.
			Less(ownership.Key{OwnerID: out[j].OwnerID, CardID: out[j].CardID, Bucket: out[j].Bucket})
	})
	return out, nil
}
