package syncer

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/baharudin-yusup/pokedex-backend/pkg/db"
	"github.com/baharudin-yusup/pokedex-backend/pkg/db/models"
)

// Repository is the merge-side write surface over the cached catalog and its
// pagination cursors. Read-side projections live in internal/catalog.
type Repository struct {
	client *db.Client
}

// NewRepository constructs a syncer repository bound to the db client.
func NewRepository(client *db.Client) *Repository {
	return &Repository{client: client}
}

// Count returns the number of cached catalog rows.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.client.DB().WithContext(ctx).Model(&models.Pokemon{}).Count(&count).Error
	return count, err
}

// RemoteKey loads the pagination cursor recorded for a pokemon, or nil when
// none was recorded.
func (r *Repository) RemoteKey(ctx context.Context, pokemonID int) (*models.PokemonRemoteKey, error) {
	var key models.PokemonRemoteKey
	err := r.client.DB().WithContext(ctx).
		First(&key, "pokemon_id = ?", pokemonID).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &key, nil
}

// MergePage applies one fetched page in a single transaction: optionally
// clearing the catalog and cursors first, then upserting rows and their
// cursors. The favorite and rating mirrors are never part of the update set.
func (r *Repository) MergePage(ctx context.Context, refresh bool, rows []models.Pokemon, keys []models.PokemonRemoteKey) error {
	return r.client.WithTx(ctx, func(tx *gorm.DB) error {
		if refresh {
			if err := tx.Where("1 = 1").Delete(&models.PokemonRemoteKey{}).Error; err != nil {
				return err
			}
			if err := tx.Where("1 = 1").Delete(&models.Pokemon{}).Error; err != nil {
				return err
			}
		}

		if len(rows) > 0 {
			if err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"name", "image_url", "height", "weight", "types",
					"hp", "attack", "defense", "special_attack", "special_defense", "speed",
					"abilities", "updated_at",
				}),
			}).Create(&rows).Error; err != nil {
				return err
			}
		}

		if len(keys) > 0 {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "pokemon_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"prev_offset", "next_offset"}),
			}).Create(&keys).Error; err != nil {
				return err
			}
		}

		return nil
	})
}
