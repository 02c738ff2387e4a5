package repositories

import (
	"context"

	"github.com/disgoorg/snowflake/v2"
	"github.com/gohye/cardtrade/internal/domain/trading"
	"github.com/gohye/cardtrade/internal/gateways/database/models"
	appErrors "github.com/gohye/cardtrade/pkg/errors"
	"github.com/uptrace/bun"
)

// Partial unique indexes created by the schema.
const (
	idxActiveRoomCode  = "idx_trades_active_room_code"
	idxPendingRequest  = "idx_trade_requests_pending_key"
	idxPendingInvite   = "idx_room_invites_pending_pair"
	activeStatusesExpr = "status IN ('pending', 'accepted')"
)

type tradeRepository struct {
	db bun.IDB
}

var _ trading.TradeRepository = (*tradeRepository)(nil)

func (r *tradeRepository) Create(ctx context.Context, t *trading.Trade) error {
	_, err := r.db.NewInsert().Model(tradeToModel(t)).Exec(ctx)
	if uniqueViolation(err, idxActiveRoomCode) {
		return trading.ErrRoomCodeTaken
	}
	return handleError("insert", "trade", t.ID, err)
}

func (r *tradeRepository) Get(ctx context.Context, id snowflake.ID) (*trading.Trade, error) {
	m := new(models.Trade)
	err := r.db.NewSelect().Model(m).Where("id = ?", int64(id)).Scan(ctx)
	if err != nil {
		return nil, handleError("select", "trade", id, err)
	}
	return tradeFromModel(m), nil
}

// Lock re-reads the row under FOR UPDATE so concurrent completions queue up
// behind each other and see the committed status.
func (r *tradeRepository) Lock(ctx context.Context, id snowflake.ID) (*trading.Trade, error) {
	m := new(models.Trade)
	err := r.db.NewSelect().Model(m).Where("id = ?", int64(id)).For("UPDATE").Scan(ctx)
	if err != nil {
		return nil, handleError("lock", "trade", id, err)
	}
	return tradeFromModel(m), nil
}

func (r *tradeRepository) Update(ctx context.Context, t *trading.Trade) error {
	res, err := r.db.NewUpdate().
		Model(tradeToModel(t)).
		Column("initiator_cards", "receiver_cards", "status", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return handleError("update", "trade", t.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return appErrors.ErrEntityNotFound("trade", t.ID)
	}
	return nil
}

func (r *tradeRepository) ActiveByRoomCode(ctx context.Context, code string) (*trading.Trade, error) {
	m := new(models.Trade)
	err := r.db.NewSelect().
		Model(m).
		Where("private_room_code = ?", code).
		Where(activeStatusesExpr).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, handleError("select", "room", code, err)
	}
	return tradeFromModel(m), nil
}

func (r *tradeRepository) RoomCodeInUse(ctx context.Context, code string) (bool, error) {
	exists, err := r.db.NewSelect().
		Model((*models.Trade)(nil)).
		Where("private_room_code = ?", code).
		Where(activeStatusesExpr).
		Exists(ctx)
	return exists, handleError("exists", "room", code, err)
}

func (r *tradeRepository) ListActiveByUser(ctx context.Context, userID string) ([]*trading.Trade, error) {
	var rows []*models.Trade
	err := r.db.NewSelect().
		Model(&rows).
		Where("initiator_user_id = ? OR receiver_user_id = ?", userID, userID).
		Where(activeStatusesExpr).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, handleError("select", "trades", userID, err)
	}
	out := make([]*trading.Trade, 0, len(rows))
	for _, m := range rows {
		out = append(out, tradeFromModel(m))
	}
	return out, nil
}
