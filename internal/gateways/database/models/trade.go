package models

import (
	"time"

	"github.com/uptrace/bun"
)

type CardRef struct {
	CardID   int64 `json:"card_id"`
	Quantity int64 `json:"quantity"`
}

type Trade struct {
	bun.BaseModel `bun:"table:trades,alias:t"`

	ID              int64     `bun:"id,pk"`
	InitiatorUserID string    `bun:"initiator_user_id,notnull"`
	ReceiverUserID  string    `bun:"receiver_user_id,notnull"`
	InitiatorCards  []CardRef `bun:"initiator_cards,type:jsonb,notnull"`
	ReceiverCards   []CardRef `bun:"receiver_cards,type:jsonb,notnull"`
	TradeType       string    `bun:"trade_type,notnull"`
	Status          string    `bun:"status,notnull"`
	PrivateRoomCode string    `bun:"private_room_code,nullzero"`
	RequestID       *int64    `bun:"request_id"`
	CreatedAt       time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt       time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

type TradeRequest struct {
	bun.BaseModel `bun:"table:trade_requests,alias:tr"`

	ID         int64     `bun:"id,pk"`
	FromUserID string    `bun:"from_user_id,notnull"`
	ToUserID   string    `bun:"to_user_id,notnull"`
	Offer      *CardRef  `bun:"offer,type:jsonb"`
	Want       *CardRef  `bun:"want,type:jsonb"`
	WantCardID int64     `bun:"want_card_id,notnull,default:0"`
	IsManual   bool      `bun:"is_manual,notnull,default:false"`
	Note       string    `bun:"note,notnull,default:''"`
	Status     string    `bun:"status,notnull"`
	TradeID    *int64    `bun:"trade_id"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt  time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

type RoomInvite struct {
	bun.BaseModel `bun:"table:room_invites,alias:ri"`

	ID              int64     `bun:"id,pk"`
	FromUserID      string    `bun:"from_user_id,notnull"`
	ToUserID        string    `bun:"to_user_id,notnull"`
	Status          string    `bun:"status,notnull"`
	TradeID         *int64    `bun:"trade_id"`
	PrivateRoomCode string    `bun:"private_room_code,nullzero"`
	CreatedAt       time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt       time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}
