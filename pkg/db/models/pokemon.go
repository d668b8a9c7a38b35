package models

import (
	"time"

	dbtypes "github.com/baharudin-yusup/pokedex-backend/pkg/db/types"
)

// Pokemon is the cached catalog entity. Rows inserted from a list page carry
// summary data only; a detail fetch fills in the six base stats as a group.
// Favorite and Rating are write-through mirrors of PokemonUserData kept for
// join-free reads; pokemon_user_data stays the source of truth.
type Pokemon struct {
	ID             int                `gorm:"column:id;primaryKey"`
	Name           string             `gorm:"column:name;not null;index:pokemon_name_idx"`
	ImageURL       *string            `gorm:"column:image_url"`
	Height         int                `gorm:"column:height;not null;default:0"`
	Weight         int                `gorm:"column:weight;not null;default:0"`
	Types          dbtypes.StringList `gorm:"column:types;type:text;not null"`
	HP             *int               `gorm:"column:hp"`
	Attack         *int               `gorm:"column:attack"`
	Defense        *int               `gorm:"column:defense"`
	SpecialAttack  *int               `gorm:"column:special_attack"`
	SpecialDefense *int               `gorm:"column:special_defense"`
	Speed          *int               `gorm:"column:speed"`
	Abilities      dbtypes.StringList `gorm:"column:abilities;type:text;not null"`
	Favorite       bool               `gorm:"column:favorite;not null;default:false"`
	Rating         int                `gorm:"column:rating;not null;default:0"`
	CreatedAt      time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

func (Pokemon) TableName() string { return "pokemon" }

// DetailComplete reports whether all six base stats are populated.
func (p Pokemon) DetailComplete() bool {
	return p.HP != nil &&
		p.Attack != nil &&
		p.Defense != nil &&
		p.SpecialAttack != nil &&
		p.SpecialDefense != nil &&
		p.Speed != nil
}
