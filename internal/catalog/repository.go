package catalog

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/baharudin-yusup/pokedex-backend/pkg/db/models"
	"github.com/baharudin-yusup/pokedex-backend/pkg/pagination"
)

// Repository encapsulates read access to the cached catalog.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a catalog repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns the filtered, sorted projection. A nil window returns every
// matching row. Favorite and rating are resolved from pokemon_user_data at
// read time; the denormalized mirrors only serve as fallback.
func (r *Repository) List(ctx context.Context, q Query, window *pagination.Window) ([]models.Pokemon, error) {
	query := q.apply(r.db.WithContext(ctx).Model(&models.Pokemon{})).
		Order(q.orderClause())

	if window != nil {
		w := window.Normalize()
		query = query.Offset(w.Offset).Limit(w.Limit)
	}

	var rows []models.Pokemon
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	if err := r.applyUserData(ctx, rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns how many rows match the query.
func (r *Repository) Count(ctx context.Context, q Query) (int64, error) {
	var count int64
	err := q.apply(r.db.WithContext(ctx).Model(&models.Pokemon{})).
		Count(&count).
		Error
	return count, err
}

// CountAll returns the total number of cached rows regardless of filters.
func (r *Repository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Pokemon{}).Count(&count).Error
	return count, err
}

// TailID returns the highest cached pokemon ID, or 0 when the cache is empty.
// The remote feed pages in ascending ID order, so the max ID is the tail of
// the synced sequence.
func (r *Repository) TailID(ctx context.Context) (int, error) {
	var row models.Pokemon
	err := r.db.WithContext(ctx).
		Model(&models.Pokemon{}).
		Select("id").
		Order("id DESC").
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return row.ID, nil
}

// FindByID loads a single row with user data resolved.
func (r *Repository) FindByID(ctx context.Context, id int) (*models.Pokemon, error) {
	var row models.Pokemon
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	rows := []models.Pokemon{row}
	if err := r.applyUserData(ctx, rows); err != nil {
		return nil, err
	}
	return &rows[0], nil
}

// FirstByName loads the first row whose name contains the given term, in ID
// order, with user data resolved.
func (r *Repository) FirstByName(ctx context.Context, name string) (*models.Pokemon, error) {
	var row models.Pokemon
	err := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE ?", "%"+strings.ToLower(strings.TrimSpace(name))+"%").
		Order("id ASC").
		First(&row).
		Error
	if err != nil {
		return nil, err
	}
	rows := []models.Pokemon{row}
	if err := r.applyUserData(ctx, rows); err != nil {
		return nil, err
	}
	return &rows[0], nil
}

// Upsert writes a fully-fetched row, refreshing detail columns on conflict.
// The favorite and rating mirrors are deliberately left out of the update
// set so a detail fetch never clobbers user state.
func (r *Repository) Upsert(ctx context.Context, row *models.Pokemon) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "image_url", "height", "weight", "types",
				"hp", "attack", "defense", "special_attack", "special_defense", "speed",
				"abilities", "updated_at",
			}),
		}).
		Create(row).
		Error
}

func (r *Repository) applyUserData(ctx context.Context, rows []models.Pokemon) error {
	if len(rows) == 0 {
		return nil
	}

	ids := make([]int, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}

	var userRows []models.PokemonUserData
	if err := r.db.WithContext(ctx).
		Where("pokemon_id IN ?", ids).
		Find(&userRows).
		Error; err != nil {
		return err
	}

	byID := make(map[int]models.PokemonUserData, len(userRows))
	for _, ur := range userRows {
		byID[ur.PokemonID] = ur
	}

	for i := range rows {
		if ur, ok := byID[rows[i].ID]; ok {
			rows[i].Favorite = ur.Favorite
			rows[i].Rating = ur.Rating
		}
	}
	return nil
}
