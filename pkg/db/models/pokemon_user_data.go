package models

import "time"

// PokemonUserData holds per-pokemon user annotations. It lives in its own
// table so user mutations never invalidate live catalog projections, and it
// may reference IDs the pokemon table does not know yet.
type PokemonUserData struct {
	PokemonID int       `gorm:"column:pokemon_id;primaryKey"`
	Favorite  bool      `gorm:"column:favorite;not null;default:false"`
	Rating    int       `gorm:"column:rating;not null;default:0"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (PokemonUserData) TableName() string { return "pokemon_user_data" }
