package trading

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/gohye/cardtrade/internal/domain/ownership"
)

// Lock methods return the row and hold it exclusively until the surrounding
// transaction ends. Missing rows are reported with a not-found AppError.
type TradeRepository interface {
	Create(ctx context.Context, trade *Trade) error
	Get(ctx context.Context, id snowflake.ID) (*Trade, error)
	Lock(ctx context.Context, id snowflake.ID) (*Trade, error)
	Update(ctx context.Context, trade *Trade) error
	ActiveByRoomCode(ctx context.Context, code string) (*Trade, error)
	RoomCodeInUse(ctx context.Context, code string) (bool, error)
	ListActiveByUser(ctx context.Context, userID string) ([]*Trade, error)
}

type RequestRepository interface {
	Create(ctx context.Context, req *TradeRequest) error
	Lock(ctx context.Context, id snowflake.ID) (*TradeRequest, error)
	Update(ctx context.Context, req *TradeRequest) error
	// FindPending returns nil without error when no pending request matches.
	FindPending(ctx context.Context, key RequestKey) (*TradeRequest, error)
	ListPending(ctx context.Context, userID string, incoming bool) ([]*TradeRequest, error)
}

type InviteRepository interface {
	Create(ctx context.Context, inv *RoomInvite) error
	Lock(ctx context.Context, id snowflake.ID) (*RoomInvite, error)
	Update(ctx context.Context, inv *RoomInvite) error
	// PendingBetween looks in both directions.
	PendingBetween(ctx context.Context, a, b string) (bool, error)
}

// Tx is one unit of work. Everything done through it commits or rolls back
// together.
type Tx interface {
	Trades() TradeRepository
	Requests() RequestRepository
	Invites() InviteRepository
	Ownership() ownership.Repository
}

type Store interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// Users answers whether an account exists.
type Users interface {
	Exists(ctx context.Context, userID string) (bool, error)
}

// FriendGraph answers whether two users are mutual friends.
type FriendGraph interface {
	AreFriends(ctx context.Context, a, b string) (bool, error)
}

const (
	// NodeBits is the width of the node field of generated ids.
	NodeBits     = 10
	MaxNode      = 1<<NodeBits - 1
	sequenceBits = 12
	sequenceMask = 1<<sequenceBits - 1
)

// IDGenerator hands out snowflake ids laid out as timestamp, node and a
// 12-bit sequence, so ids created within the same millisecond stay distinct.
// Processes writing to one store must each use their own node.
type IDGenerator struct {
	node uint64
	seq  atomic.Uint64
	now  func() time.Time
}

// NewIDGenerator builds a generator for node; only the low NodeBits are used.
func NewIDGenerator(node uint16) *IDGenerator {
	return &IDGenerator{node: uint64(node) & MaxNode, now: time.Now}
}

func (g *IDGenerator) Next() snowflake.ID {
	low := g.node<<sequenceBits | g.seq.Add(1)&sequenceMask
	return snowflake.New(g.now()) | snowflake.ID(low)
}
