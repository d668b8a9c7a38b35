package models

// PokemonRemoteKey is per-item pagination bookkeeping: the offsets of the
// page windows adjacent to the page that produced the row. Written only
// inside merge transactions and wiped by a full refresh.
type PokemonRemoteKey struct {
	PokemonID  int  `gorm:"column:pokemon_id;primaryKey"`
	PrevOffset *int `gorm:"column:prev_offset"`
	NextOffset *int `gorm:"column:next_offset"`
}

func (PokemonRemoteKey) TableName() string { return "pokemon_remote_keys" }
