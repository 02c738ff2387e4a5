package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Card struct {
	bun.BaseModel `bun:"table:cards,alias:c"`

	ID        int64     `bun:"id,pk"` // catalog id, not generated here
	Name      string    `bun:"name,notnull"`
	SetID     string    `bun:"set_id,notnull,type:text"`
	Rarity    string    `bun:"rarity,notnull"`
	Supertype string    `bun:"supertype,notnull,default:'pokemon'"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}
