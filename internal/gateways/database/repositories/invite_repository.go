package repositories

import (
	"context"

	"github.com/disgoorg/snowflake/v2"
	"github.com/gohye/cardtrade/internal/domain/trading"
	"github.com/gohye/cardtrade/internal/gateways/database/models"
	appErrors "github.com/gohye/cardtrade/pkg/errors"
	"github.com/uptrace/bun"
)

type inviteRepository struct {
	db bun.IDB
}

var _ trading.InviteRepository = (*inviteRepository)(nil)

func (r *inviteRepository) Create(ctx context.Context, inv *trading.RoomInvite) error {
	_, err := r.db.NewInsert().Model(inviteToModel(inv)).Exec(ctx)
	if uniqueViolation(err, idxPendingInvite) {
		return appErrors.ErrDuplicateInvite
	}
	return handleError("insert", "room invite", inv.ID, err)
}

func (r *inviteRepository) Lock(ctx context.Context, id snowflake.ID) (*trading.RoomInvite, error) {
	m := new(models.RoomInvite)
	err := r.db.NewSelect().Model(m).Where("id = ?", int64(id)).For("UPDATE").Scan(ctx)
	if err != nil {
		return nil, handleError("lock", "room invite", id, err)
	}
	return inviteFromModel(m), nil
}

func (r *inviteRepository) Update(ctx context.Context, inv *trading.RoomInvite) error {
	res, err := r.db.NewUpdate().
		Model(inviteToModel(inv)).
		Column("status", "trade_id", "private_room_code", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return handleError("update", "room invite", inv.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return appErrors.ErrEntityNotFound("room invite", inv.ID)
	}
	return nil
}

func (r *inviteRepository) PendingBetween(ctx context.Context, a, b string) (bool, error) {
	exists, err := r.db.NewSelect().
		Model((*models.RoomInvite)(nil)).
		Where("status = ?", string(trading.InvitePending)).
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				Where("from_user_id = ? AND to_user_id = ?", a, b).
				WhereOr("from_user_id = ? AND to_user_id = ?", b, a)
		}).
		Exists(ctx)
	return exists, handleError("exists", "room invite", a+"/"+b, err)
}
