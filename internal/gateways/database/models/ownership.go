package models

import (
	"time"

	"github.com/uptrace/bun"
)

// OwnershipRecord has a unique (owner_id, card_id, bucket). Rows never hold
// a zero quantity; they are deleted instead.
type OwnershipRecord struct {
	bun.BaseModel `bun:"table:ownership_records"`

	ID        int64     `bun:"id,pk,autoincrement"`
	OwnerID   string    `bun:"owner_id,notnull,unique:ownership_owner_card_bucket"`
	CardID    int64     `bun:"card_id,notnull,unique:ownership_owner_card_bucket"`
	Bucket    string    `bun:"bucket,notnull,unique:ownership_owner_card_bucket"`
	Quantity  int64     `bun:"quantity,notnull"`
	Tradeable bool      `bun:"tradeable,notnull,default:true"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}
