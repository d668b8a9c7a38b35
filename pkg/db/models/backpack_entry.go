package models

import "time"

// BackpackEntry records backpack membership by ID only; full pokemon data is
// joined in at read time. Row presence means membership.
type BackpackEntry struct {
	PokemonID int       `gorm:"column:pokemon_id;primaryKey"`
	AddedAt   time.Time `gorm:"column:added_at;not null;index:backpack_added_at_idx"`
}

func (BackpackEntry) TableName() string { return "backpack_entries" }
