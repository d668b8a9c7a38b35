package userdata

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/baharudin-yusup/pokedex-backend/pkg/db"
	"github.com/baharudin-yusup/pokedex-backend/pkg/db/models"
)

// Repository encapsulates the user-state table. It is the source of truth
// for favorite and rating; the pokemon table only carries mirrors.
type Repository struct {
	client *db.Client
}

// NewRepository constructs a user-data repository bound to the db client.
func NewRepository(client *db.Client) *Repository {
	return &Repository{client: client}
}

// SetFavorite upserts the favorite flag. The row may reference an ID the
// catalog has not cached yet.
func (r *Repository) SetFavorite(ctx context.Context, pokemonID int, favorite bool) error {
	row := models.PokemonUserData{
		PokemonID: pokemonID,
		Favorite:  favorite,
		UpdatedAt: time.Now().UTC(),
	}
	return r.client.DB().WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "pokemon_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"favorite", "updated_at"}),
		}).
		Create(&row).
		Error
}

// SetRating upserts the rating and refreshes the catalog mirror in one
// transaction, so join-free list reads see the new value without the
// user-state write ever signalling a catalog change.
func (r *Repository) SetRating(ctx context.Context, pokemonID, rating int) error {
	return r.client.WithTx(ctx, func(tx *gorm.DB) error {
		row := models.PokemonUserData{
			PokemonID: pokemonID,
			Rating:    rating,
			UpdatedAt: time.Now().UTC(),
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "pokemon_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"rating", "updated_at"}),
		}).Create(&row).Error; err != nil {
			return err
		}

		// mirror update; a miss is fine, the catalog may not know the ID yet
		return tx.Model(&models.Pokemon{}).
			Where("id = ?", pokemonID).
			Update("rating", rating).
			Error
	})
}

// IsFavorite reports the favorite flag; a missing row reads as false.
func (r *Repository) IsFavorite(ctx context.Context, pokemonID int) (bool, error) {
	row, err := r.find(ctx, pokemonID)
	if err != nil {
		return false, err
	}
	if row == nil {
		return false, nil
	}
	return row.Favorite, nil
}

// GetRating reports the rating; a missing row reads as 0.
func (r *Repository) GetRating(ctx context.Context, pokemonID int) (int, error) {
	row, err := r.find(ctx, pokemonID)
	if err != nil {
		return 0, err
	}
	if row == nil {
		return 0, nil
	}
	return row.Rating, nil
}

// ListFavoriteIDs returns every favorited pokemon ID in ascending order.
func (r *Repository) ListFavoriteIDs(ctx context.Context) ([]int, error) {
	ids := make([]int, 0)
	err := r.client.DB().WithContext(ctx).
		Model(&models.PokemonUserData{}).
		Where("favorite = ?", true).
		Order("pokemon_id ASC").
		Pluck("pokemon_id", &ids).
		Error
	return ids, err
}

func (r *Repository) find(ctx context.Context, pokemonID int) (*models.PokemonUserData, error) {
	var row models.PokemonUserData
	err := r.client.DB().WithContext(ctx).
		First(&row, "pokemon_id = ?", pokemonID).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}
