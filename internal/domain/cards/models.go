package cards

import "time"

type Card struct {
	ID        int64
	Name      string
	SetID     string
	Rarity    Rarity
	Supertype Supertype
	CreatedAt time.Time
	UpdatedAt time.Time
}
