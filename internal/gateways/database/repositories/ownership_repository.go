package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/gohye/cardtrade/internal/domain/ownership"
	"github.com/gohye/cardtrade/internal/gateways/database/models"
	appErrors "github.com/gohye/cardtrade/pkg/errors"
	"github.com/uptrace/bun"
)

type ownershipRepository struct {
	db bun.IDB
}

var _ ownership.Repository = (*ownershipRepository)(nil)

func NewOwnershipRepository(db bun.IDB) ownership.Repository {
	return &ownershipRepository{db: db}
}

// Quantity locks the row for the rest of the transaction when one exists.
func (r *ownershipRepository) Quantity(ctx context.Context, key ownership.Key) (int64, error) {
	var quantity int64
	err := r.db.NewSelect().
		Model((*models.OwnershipRecord)(nil)).
		Column("quantity").
		Where("owner_id = ? AND card_id = ? AND bucket = ?", key.OwnerID, key.CardID, string(key.Bucket)).
		For("UPDATE").
		Scan(ctx, &quantity)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, handleError("select", "ownership", key, err)
	}
	return quantity, nil
}

func (r *ownershipRepository) Add(ctx context.Context, key ownership.Key, amount int64) error {
	if amount <= 0 {
		return appErrors.Newf(appErrors.CodeInvalidArgument, "invalid amount %d", amount)
	}
	if !key.Bucket.Valid() {
		return appErrors.Newf(appErrors.CodeInvalidArgument, "invalid bucket %q", key.Bucket)
	}
	now := time.Now()
	_, err := r.db.NewInsert().
		Model(&models.OwnershipRecord{
			OwnerID:   key.OwnerID,
			CardID:    key.CardID,
			Bucket:    string(key.Bucket),
			Quantity:  amount,
			Tradeable: true,
			CreatedAt: now,
			UpdatedAt: now,
		}).
		On("CONFLICT (owner_id, card_id, bucket) DO UPDATE").
		Set("quantity = ownership_records.quantity + EXCLUDED.quantity").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return handleError("upsert", "ownership", key, err)
}

func (r *ownershipRepository) Remove(ctx context.Context, key ownership.Key, amount int64) error {
	if amount <= 0 {
		return appErrors.Newf(appErrors.CodeInvalidArgument, "invalid amount %d", amount)
	}

	res, err := r.db.NewUpdate().
		Model((*models.OwnershipRecord)(nil)).
		Set("quantity = quantity - ?", amount).
		Set("updated_at = ?", time.Now()).
		Where("owner_id = ? AND card_id = ? AND bucket = ?", key.OwnerID, key.CardID, string(key.Bucket)).
		Where("quantity >= ?", amount).
		Exec(ctx)
	if err != nil {
		return handleError("update", "ownership", key, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		has, err := r.Quantity(ctx, key)
		if err != nil {
			return err
		}
		return appErrors.ErrInsufficient(key.OwnerID, key.CardID, has, amount)
	}

	_, err = r.db.NewDelete().
		Model((*models.OwnershipRecord)(nil)).
		Where("owner_id = ? AND card_id = ? AND bucket = ?", key.OwnerID, key.CardID, string(key.Bucket)).
		Where("quantity = 0").
		Exec(ctx)
	return handleError("delete", "ownership", key, err)
}

func (r *ownershipRepository) ListByOwner(ctx context.Context, ownerID string) ([]ownership.Record, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var rows []models.OwnershipRecord
	err := r.db.NewSelect().
		Model(&rows).
		Where("owner_id = ?", ownerID).
		Where("quantity > 0").
		Order("card_id ASC", "bucket ASC").
		Scan(ctx)
	if err != nil {
		return nil, handleError("select", "ownership", ownerID, err)
	}

	out := make([]ownership.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, ownership.Record{
			OwnerID:   row.OwnerID,
			CardID:    row.CardID,
			Bucket:    ownership.Bucket(row.Bucket),
			Quantity:  row.Quantity,
			Tradeable: row.Tradeable,
		})
	}
	return out, nil
}
