package repositories

import (
	"context"
	"time"

	"github.com/gohye/cardtrade/internal/domain/cards"
	"github.com/gohye/cardtrade/internal/gateways/database/models"
	"github.com/uptrace/bun"
)

const maxBatchSize = 1000

type cardRepository struct {
	db *bun.DB
}

var _ cards.Repository = &cardRepository{}

func NewCardRepository(db *bun.DB) *cardRepository {
	return &cardRepository{db: db}
}

func (r *cardRepository) GetByID(ctx context.Context, id int64) (*cards.Card, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	m := new(models.Card)
	err := r.db.NewSelect().
		Model(m).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, handleError("select", "card", id, err)
	}
	return cardFromModel(m), nil
}

func (r *cardRepository) GetByIDs(ctx context.Context, ids []int64) ([]*cards.Card, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var rows []*models.Card
	err := r.db.NewSelect().
		Model(&rows).
		Where("id IN (?)", bun.In(ids)).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, handleError("select", "cards", ids, err)
	}
	return cardsFromModel(rows), nil
}

func (r *cardRepository) GetBySet(ctx context.Context, setID string) ([]*cards.Card, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var rows []*models.Card
	err := r.db.NewSelect().
		Model(&rows).
		Where("set_id = ?", setID).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, handleError("select", "cards", setID, err)
	}
	return cardsFromModel(rows), nil
}

func (r *cardRepository) GetAll(ctx context.Context) ([]*cards.Card, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var rows []*models.Card
	err := r.db.NewSelect().
		Model(&rows).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, handleError("select", "cards", "all", err)
	}
	return cardsFromModel(rows), nil
}

// BulkUpsert loads catalog rows in batches, replacing existing ones.
func (r *cardRepository) BulkUpsert(ctx context.Context, list []cards.Card) (int, error) {
	if len(list) == 0 {
		return 0, nil
	}
	now := time.Now()
	total := 0
	for i := 0; i < len(list); i += maxBatchSize {
		end := min(i+maxBatchSize, len(list))
		batch := make([]*models.Card, 0, end-i)
		for _, c := range list[i:end] {
			batch = append(batch, &models.Card{
				ID:        c.ID,
				Name:      c.Name,
				SetID:     c.SetID,
				Rarity:    c.Rarity.String(),
				Supertype: string(c.Supertype),
				CreatedAt: now,
				UpdatedAt: now,
			})
		}
		_, err := r.db.NewInsert().
			Model(&batch).
			On("CONFLICT (id) DO UPDATE").
			Set("name = EXCLUDED.name").
			Set("set_id = EXCLUDED.set_id").
			Set("rarity = EXCLUDED.rarity").
			Set("supertype = EXCLUDED.supertype").
			Set("updated_at = EXCLUDED.updated_at").
			Exec(ctx)
		if err != nil {
			return total, handleError("upsert", "cards", len(batch), err)
		}
		total += len(batch)
	}
	return total, nil
}

func cardFromModel(m *models.Card) *cards.Card {
	rarity, _ := cards.ParseRarity(m.Rarity)
	supertype, _ := cards.ParseSupertype(m.Supertype)
	return &cards.Card{
		ID:        m.ID,
		Name:      m.Name,
		SetID:     m.SetID,
		Rarity:    rarity,
		Supertype: supertype,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func cardsFromModel(rows []*models.Card) []*cards.Card {
	out := make([]*cards.Card, 0, len(rows))
	for _, m := range rows {
		out = append(out, cardFromModel(m))
	}
	return out
}
