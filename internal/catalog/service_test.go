package catalog

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baharudin-yusup/pokedex-backend/pkg/db/models"
	pkgerrors "github.com/baharudin-yusup/pokedex-backend/pkg/errors"
	"github.com/baharudin-yusup/pokedex-backend/pkg/logger"
	"github.com/baharudin-yusup/pokedex-backend/pkg/pokeapi"
)

func newTestLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: zerolog.ErrorLevel})
}

type fakeFetcher struct {
	detailsByID   map[int]*pokeapi.Detail
	detailsByName map[string]*pokeapi.Detail
	types         []string
	calls         int
}

func (f *fakeFetcher) GetByID(_ context.Context, id int) (*pokeapi.Detail, error) {
	f.calls++
	if detail, ok := f.detailsByID[id]; ok {
		return detail, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no such pokemon")
}

func (f *fakeFetcher) GetByName(_ context.Context, name string) (*pokeapi.Detail, error) {
	f.calls++
	if detail, ok := f.detailsByName[name]; ok {
		return detail, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no such pokemon")
}

func (f *fakeFetcher) ListTypes(_ context.Context) ([]string, error) {
	return f.types, nil
}

func pikachuDetail() *pokeapi.Detail {
	return &pokeapi.Detail{
		ID:        25,
		Name:      "pikachu",
		ImageURL:  "https://img.example/25.png",
		Height:    4,
		Weight:    60,
		Types:     []string{"electric"},
		Abilities: []string{"static"},
		Stats: &pokeapi.Stats{
			HP:             35,
			Attack:         55,
			Defense:        40,
			SpecialAttack:  50,
			SpecialDefense: 50,
			Speed:          90,
		},
	}
}

func newCatalogService(t *testing.T, repo *Repository, fetcher Fetcher) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Repo:    repo,
		Fetcher: fetcher,
		Logger:  newTestLogger(),
	})
	require.NoError(t, err)
	return svc
}

func TestGetDetailByIDServesCompleteCachedRowWithoutFetch(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	fetcher := &fakeFetcher{detailsByID: map[int]*pokeapi.Detail{25: pikachuDetail()}}
	svc := newCatalogService(t, repo, fetcher)

	require.NoError(t, repo.Upsert(context.Background(), FromRemoteDetail(pikachuDetail())))
	fetcher.calls = 0

	detail, err := svc.GetDetailByID(context.Background(), 25)
	require.NoError(t, err)
	assert.Equal(t, 0, fetcher.calls)
	assert.Equal(t, "pikachu", detail.Name)
	require.NotNil(t, detail.Stats)
	assert.Equal(t, 35, detail.Stats.HP)
}

func TestGetDetailByIDFetchesAndStoresOnCacheMiss(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	fetcher := &fakeFetcher{detailsByID: map[int]*pokeapi.Detail{25: pikachuDetail()}}
	svc := newCatalogService(t, repo, fetcher)

	detail, err := svc.GetDetailByID(context.Background(), 25)
	require.NoError(t, err)
	assert.Equal(t, 1, fetcher.calls)
	assert.Equal(t, 4, detail.Height)

	var stored models.Pokemon
	require.NoError(t, db.First(&stored, "id = ?", 25).Error)
	assert.True(t, stored.DetailComplete())
}

func TestGetDetailByIDRefetchesIncompleteRow(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	fetcher := &fakeFetcher{detailsByID: map[int]*pokeapi.Detail{25: pikachuDetail()}}
	svc := newCatalogService(t, repo, fetcher)

	// summary-only row from a list merge
	require.NoError(t, db.Create(&models.Pokemon{
		ID: 25, Name: "pikachu", Types: []string{}, Abilities: []string{},
	}).Error)

	detail, err := svc.GetDetailByID(context.Background(), 25)
	require.NoError(t, err)
	assert.Equal(t, 1, fetcher.calls)
	require.NotNil(t, detail.Stats)
}

func TestGetDetailByIDKeepsUserState(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	fetcher := &fakeFetcher{detailsByID: map[int]*pokeapi.Detail{25: pikachuDetail()}}
	svc := newCatalogService(t, repo, fetcher)

	require.NoError(t, db.Create(&models.PokemonUserData{PokemonID: 25, Favorite: true, Rating: 3}).Error)

	detail, err := svc.GetDetailByID(context.Background(), 25)
	require.NoError(t, err)
	assert.True(t, detail.Favorite)
	assert.Equal(t, 3, detail.Rating)
}

func TestGetDetailByIDNotFoundPassesThrough(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	svc := newCatalogService(t, repo, &fakeFetcher{})

	_, err := svc.GetDetailByID(context.Background(), 9999)
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestGetDetailByNameFetchesWithTrimmedName(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	fetcher := &fakeFetcher{detailsByName: map[string]*pokeapi.Detail{"pikachu": pikachuDetail()}}
	svc := newCatalogService(t, repo, fetcher)

	detail, err := svc.GetDetailByName(context.Background(), " pikachu ")
	require.NoError(t, err)
	assert.Equal(t, 25, detail.ID)
}

func TestGetDetailValidation(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	svc := newCatalogService(t, repo, &fakeFetcher{})

	_, err := svc.GetDetailByID(context.Background(), 0)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = svc.GetDetailByName(context.Background(), "  ")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestListTypesDelegatesToFetcher(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	svc := newCatalogService(t, repo, &fakeFetcher{types: []string{"Grass", "Fire"}})

	types, err := svc.ListTypes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Grass", "Fire"}, types)
}
