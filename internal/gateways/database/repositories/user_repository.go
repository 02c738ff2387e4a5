package repositories

import (
	"context"
	"time"

	"github.com/gohye/cardtrade/internal/domain/trading"
	"github.com/gohye/cardtrade/internal/gateways/database/models"
	"github.com/uptrace/bun"
)

type userRepository struct {
	db *bun.DB
}

var (
	_ trading.Users       = (*userRepository)(nil)
	_ trading.FriendGraph = (*userRepository)(nil)
)

func NewUserRepository(db *bun.DB) *userRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Exists(ctx context.Context, discordID string) (bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	exists, err := r.db.NewSelect().
		Model((*models.User)(nil)).
		Where("discord_id = ?", discordID).
		Exists(ctx)
	return exists, handleError("exists", "user", discordID, err)
}

// Register records a user the first time they interact with the bot.
func (r *userRepository) Register(ctx context.Context, discordID, username string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	_, err := r.db.NewInsert().
		Model(&models.User{DiscordID: discordID, Username: username, Joined: time.Now()}).
		On("CONFLICT (discord_id) DO UPDATE").
		Set("username = EXCLUDED.username").
		Exec(ctx)
	return handleError("upsert", "user", discordID, err)
}

func (r *userRepository) AreFriends(ctx context.Context, a, b string) (bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	lo, hi := orderPair(a, b)
	exists, err := r.db.NewSelect().
		Model((*models.Friendship)(nil)).
		Where("user_a = ? AND user_b = ?", lo, hi).
		Exists(ctx)
	return exists, handleError("exists", "friendship", lo+"/"+hi, err)
}

func (r *userRepository) AddFriend(ctx context.Context, a, b string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	lo, hi := orderPair(a, b)
	_, err := r.db.NewInsert().
		Model(&models.Friendship{UserA: lo, UserB: hi, CreatedAt: time.Now()}).
		On("CONFLICT DO NOTHING").
		Exec(ctx)
	return handleError("insert", "friendship", lo+"/"+hi, err)
}

func orderPair(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}
