package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/disgoorg/snowflake/v2"
	"github.com/gohye/cardtrade/internal/domain/trading"
	"github.com/gohye/cardtrade/internal/gateways/database/models"
	appErrors "github.com/gohye/cardtrade/pkg/errors"
	"github.com/uptrace/bun"
)

type requestRepository struct {
	db bun.IDB
}

var _ trading.RequestRepository = (*requestRepository)(nil)

func (r *requestRepository) Create(ctx context.Context, req *trading.TradeRequest) error {
	_, err := r.db.NewInsert().Model(requestToModel(req)).Exec(ctx)
	if uniqueViolation(err, idxPendingRequest) {
		return appErrors.ErrDuplicateRequest
	}
	return handleError("insert", "trade request", req.ID, err)
}

func (r *requestRepository) Lock(ctx context.Context, id snowflake.ID) (*trading.TradeRequest, error) {
	m := new(models.TradeRequest)
	err := r.db.NewSelect().Model(m).Where("id = ?", int64(id)).For("UPDATE").Scan(ctx)
	if err != nil {
		return nil, handleError("lock", "trade request", id, err)
	}
	return requestFromModel(m), nil
}

func (r *requestRepository) Update(ctx context.Context, req *trading.TradeRequest) error {
	res, err := r.db.NewUpdate().
		Model(requestToModel(req)).
		Column("status", "trade_id", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return handleError("update", "trade request", req.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return appErrors.ErrEntityNotFound("trade request", req.ID)
	}
	return nil
}

func (r *requestRepository) FindPending(ctx context.Context, key trading.RequestKey) (*trading.TradeRequest, error) {
	m := new(models.TradeRequest)
	err := r.db.NewSelect().
		Model(m).
		Where("from_user_id = ? AND to_user_id = ?", key.FromUserID, key.ToUserID).
		Where("want_card_id = ? AND is_manual = ? AND note = ?", key.WantCardID, key.IsManual, key.Note).
		Where("status = ?", string(trading.RequestPending)).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, handleError("select", "trade request", key, err)
	}
	return requestFromModel(m), nil
}

func (r *requestRepository) ListPending(ctx context.Context, userID string, incoming bool) ([]*trading.TradeRequest, error) {
	column := "from_user_id"
	if incoming {
		column = "to_user_id"
	}
	var rows []*models.TradeRequest
	err := r.db.NewSelect().
		Model(&rows).
		Where("? = ?", bun.Ident(column), userID).
		Where("status = ?", string(trading.RequestPending)).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, handleError("select", "trade requests", userID, err)
	}
	out := make([]*trading.TradeRequest, 0, len(rows))
	for _, m := range rows {
		out = append(out, requestFromModel(m))
	}
	return out, nil
}
