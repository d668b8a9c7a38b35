package backpack

import (
	"context"
	"time"

	"gorm.io/gorm/clause"

	"github.com/baharudin-yusup/pokedex-backend/pkg/db"
	"github.com/baharudin-yusup/pokedex-backend/pkg/db/models"
	"github.com/baharudin-yusup/pokedex-backend/pkg/pagination"
)

// Repository encapsulates backpack membership. Rows carry IDs only; the
// collection view joins the catalog at read time.
type Repository struct {
	client *db.Client
}

// NewRepository constructs a backpack repository bound to the db client.
func NewRepository(client *db.Client) *Repository {
	return &Repository{client: client}
}

// Add inserts a membership row; adding twice is a no-op.
func (r *Repository) Add(ctx context.Context, pokemonID int) error {
	entry := models.BackpackEntry{
		PokemonID: pokemonID,
		AddedAt:   time.Now().UTC(),
	}
	err := r.client.DB().WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "pokemon_id"}},
			DoNothing: true,
		}).
		Create(&entry).
		Error
	if db.IsUniqueViolation(err, "") {
		return nil
	}
	return err
}

// Remove deletes the membership row if it exists.
func (r *Repository) Remove(ctx context.Context, pokemonID int) error {
	return r.client.DB().WithContext(ctx).
		Where("pokemon_id = ?", pokemonID).
		Delete(&models.BackpackEntry{}).
		Error
}

// Contains reports membership.
func (r *Repository) Contains(ctx context.Context, pokemonID int) (bool, error) {
	var count int64
	err := r.client.DB().WithContext(ctx).
		Model(&models.BackpackEntry{}).
		Where("pokemon_id = ?", pokemonID).
		Count(&count).
		Error
	return count > 0, err
}

// Count returns the number of backpack entries.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.client.DB().WithContext(ctx).
		Model(&models.BackpackEntry{}).
		Count(&count).
		Error
	return count, err
}

// ListIDs returns every member ID in ascending order.
func (r *Repository) ListIDs(ctx context.Context) ([]int, error) {
	ids := make([]int, 0)
	err := r.client.DB().WithContext(ctx).
		Model(&models.BackpackEntry{}).
		Order("pokemon_id ASC").
		Pluck("pokemon_id", &ids).
		Error
	return ids, err
}

// ListPokemon returns one window of the collection, newest additions first,
// joining full catalog rows in. Members the catalog has not cached yet are
// skipped by the join.
func (r *Repository) ListPokemon(ctx context.Context, window pagination.Window) ([]models.Pokemon, error) {
	w := window.Normalize()

	var rows []models.Pokemon
	err := r.client.DB().WithContext(ctx).
		Model(&models.Pokemon{}).
		Joins("JOIN backpack_entries b ON b.pokemon_id = pokemon.id").
		Order("b.added_at DESC").
		Order("pokemon.id DESC").
		Offset(w.Offset).
		Limit(w.Limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	if err := r.applyUserData(ctx, rows); err != nil {
		return nil, err
	}
	return rows, nil
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
	if err := r.client.DB().WithContext(ctx).
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
