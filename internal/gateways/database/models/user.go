package models

import (
	"time"

	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID        int64     `bun:"id,pk,autoincrement"`
	DiscordID string    `bun:"discord_id,notnull,unique"`
	Username  string    `bun:"username,notnull"`
	Joined    time.Time `bun:"joined,notnull,default:current_timestamp"`
}

// Friendship stores each mutual pair once with user_a < user_b.
type Friendship struct {
	bun.BaseModel `bun:"table:friendships,alias:f"`

	UserA     string    `bun:"user_a,pk"`
	UserB     string    `bun:"user_b,pk"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

type PackTokenState struct {
	bun.BaseModel `bun:"table:pack_token_states,alias:pts"`

	UserID       string    `bun:"user_id,pk"`
	Tokens       int       `bun:"tokens,notnull"`
	LastRefillAt time.Time `bun:"last_refill_at,notnull"`
}
