package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/baharudin-yusup/pokedex-backend/internal/catalog"
	"github.com/baharudin-yusup/pokedex-backend/internal/events"
	"github.com/baharudin-yusup/pokedex-backend/pkg/db/models"
	pkgerrors "github.com/baharudin-yusup/pokedex-backend/pkg/errors"
	"github.com/baharudin-yusup/pokedex-backend/pkg/logger"
)

func newTestLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled})
}

type stubCatalogService struct {
	detail  catalog.DetailDTO
	types   []string
	err     error
	lastID  int
	lastRef string
}

func (s *stubCatalogService) GetDetailByID(ctx context.Context, id int) (catalog.DetailDTO, error) {
	s.lastID = id
	return s.detail, s.err
}

func (s *stubCatalogService) GetDetailByName(ctx context.Context, name string) (catalog.DetailDTO, error) {
	s.lastRef = name
	return s.detail, s.err
}

func (s *stubCatalogService) ListTypes(ctx context.Context) ([]string, error) {
	return s.types, s.err
}

func detailRequest(idOrName string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/v1/pokemon/"+idOrName, nil)
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("idOrName", idOrName)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestPokemonDetailNumericRefResolvesByID(t *testing.T) {
	svc := &stubCatalogService{detail: catalog.DetailDTO{
		SummaryDTO: catalog.SummaryDTO{ID: 25, Name: "pikachu"},
	}}
	rec := httptest.NewRecorder()
	PokemonDetail(svc, newTestLogger()).ServeHTTP(rec, detailRequest("25"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.lastID != 25 {
		t.Fatalf("expected lookup by id 25, got %d", svc.lastID)
	}

	var envelope struct {
		Data catalog.DetailDTO `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Name != "pikachu" {
		t.Fatalf("unexpected name: %s", envelope.Data.Name)
	}
}

func TestPokemonDetailTextRefResolvesByName(t *testing.T) {
	svc := &stubCatalogService{detail: catalog.DetailDTO{
		SummaryDTO: catalog.SummaryDTO{ID: 25, Name: "pikachu"},
	}}
	rec := httptest.NewRecorder()
	PokemonDetail(svc, newTestLogger()).ServeHTTP(rec, detailRequest("pikachu"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.lastRef != "pikachu" {
		t.Fatalf("expected lookup by name, got %q", svc.lastRef)
	}
}

func TestPokemonDetailNotFound(t *testing.T) {
	svc := &stubCatalogService{err: pkgerrors.New(pkgerrors.CodeNotFound, "no such pokemon")}
	rec := httptest.NewRecorder()
	PokemonDetail(svc, newTestLogger()).ServeHTTP(rec, detailRequest("missingno"))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}

func TestPokemonTypesListsFilters(t *testing.T) {
	svc := &stubCatalogService{types: []string{"Electric", "Fire"}}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/pokemon/types", nil)
	PokemonTypes(svc, newTestLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var envelope struct {
		Data struct {
			Types []string `json:"types"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Types) != 2 || envelope.Data.Types[0] != "Electric" {
		t.Fatalf("unexpected types: %v", envelope.Data.Types)
	}
}

type stubUserDataService struct {
	message      string
	err          error
	lastID       int
	lastFavorite bool
	lastRating   int
	favoriteIDs  []int
}

func (s *stubUserDataService) SetFavorite(ctx context.Context, pokemonID int, favorite bool) (string, error) {
	s.lastID = pokemonID
	s.lastFavorite = favorite
	return s.message, s.err
}

func (s *stubUserDataService) SetRating(ctx context.Context, pokemonID, rating int) (string, error) {
	s.lastID = pokemonID
	s.lastRating = rating
	return s.message, s.err
}

func (s *stubUserDataService) IsFavorite(ctx context.Context, pokemonID int) (bool, error) {
	return s.lastFavorite, s.err
}

func (s *stubUserDataService) GetRating(ctx context.Context, pokemonID int) (int, error) {
	return s.lastRating, s.err
}

func (s *stubUserDataService) ListFavoriteIDs(ctx context.Context) ([]int, error) {
	return s.favoriteIDs, s.err
}

func (s *stubUserDataService) ObserveFavoriteIDs() (<-chan []int, func()) {
	ch := make(chan []int)
	return ch, func() {}
}

func idRequest(method, path, id, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestPokemonFavoriteReturnsMessage(t *testing.T) {
	svc := &stubUserDataService{message: "Added to favorites"}
	rec := httptest.NewRecorder()
	req := idRequest(http.MethodPut, "/v1/pokemon/25/favorite", "25", `{"favorite":true}`)
	PokemonFavorite(svc, newTestLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.lastID != 25 || !svc.lastFavorite {
		t.Fatalf("unexpected call: id=%d favorite=%v", svc.lastID, svc.lastFavorite)
	}
	var envelope struct {
		Data map[string]string `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data["message"] != "Added to favorites" {
		t.Fatalf("unexpected message: %q", envelope.Data["message"])
	}
}

func TestPokemonFavoriteRequiresFlag(t *testing.T) {
	svc := &stubUserDataService{}
	rec := httptest.NewRecorder()
	req := idRequest(http.MethodPut, "/v1/pokemon/25/favorite", "25", `{}`)
	PokemonFavorite(svc, newTestLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestPokemonFavoriteRejectsBadID(t *testing.T) {
	svc := &stubUserDataService{}
	rec := httptest.NewRecorder()
	req := idRequest(http.MethodPut, "/v1/pokemon/zero/favorite", "zero", `{"favorite":true}`)
	PokemonFavorite(svc, newTestLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestPokemonRatingReturnsMessage(t *testing.T) {
	svc := &stubUserDataService{message: "Rated 3 stars"}
	rec := httptest.NewRecorder()
	req := idRequest(http.MethodPut, "/v1/pokemon/25/rating", "25", `{"rating":3}`)
	PokemonRating(svc, newTestLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.lastRating != 3 {
		t.Fatalf("unexpected rating: %d", svc.lastRating)
	}
}

func TestFavoriteIDsListsSet(t *testing.T) {
	svc := &stubUserDataService{favoriteIDs: []int{1, 25}}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/favorites/ids", nil)
	FavoriteIDs(svc, newTestLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var envelope struct {
		Data struct {
			IDs []int `json:"ids"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.IDs) != 2 || envelope.Data.IDs[1] != 25 {
		t.Fatalf("unexpected ids: %v", envelope.Data.IDs)
	}
}

type noopBackfiller struct{}

func (noopBackfiller) Append(ctx context.Context, lastPokemonID int) (bool, error) {
	return true, nil
}

func newTestEngine(t *testing.T, rows ...models.Pokemon) *catalog.Engine {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(
		&models.Pokemon{},
		&models.PokemonUserData{},
		&models.BackpackEntry{},
		&models.PokemonRemoteKey{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	for i := range rows {
		if err := conn.Create(&rows[i]).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	engine, err := catalog.NewEngine(catalog.EngineParams{
		Repo:       catalog.NewRepository(conn),
		Backfiller: noopBackfiller{},
		Changes:    events.NewHub(),
		PageSize:   20,
		Logger:     newTestLogger(),
	})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestPokemonListServesWindow(t *testing.T) {
	engine := newTestEngine(t,
		models.Pokemon{ID: 1, Name: "bulbasaur", Types: []string{"Grass"}, Abilities: []string{}},
		models.Pokemon{ID: 4, Name: "charmander", Types: []string{"Fire"}, Abilities: []string{}},
		models.Pokemon{ID: 7, Name: "squirtle", Types: []string{"Water"}, Abilities: []string{}},
	)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/pokemon?offset=1&limit=2", nil)
	PokemonList(engine, newTestLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var envelope struct {
		Data catalog.PageDTO `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Total != 3 {
		t.Fatalf("expected total 3, got %d", envelope.Data.Total)
	}
	if len(envelope.Data.Items) != 2 || envelope.Data.Items[0].Name != "charmander" {
		t.Fatalf("unexpected window: %+v", envelope.Data.Items)
	}
}

func TestPokemonListEmptySearchMessage(t *testing.T) {
	engine := newTestEngine(t,
		models.Pokemon{ID: 1, Name: "bulbasaur", Types: []string{"Grass"}, Abilities: []string{}},
	)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/pokemon?search=mew", nil)
	PokemonList(engine, newTestLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var envelope struct {
		Data catalog.PageDTO `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.EmptyMessage != `No Pokemon named "mew" found` {
		t.Fatalf("unexpected empty message: %q", envelope.Data.EmptyMessage)
	}
}

func TestPokemonListRejectsBadLimit(t *testing.T) {
	engine := newTestEngine(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/pokemon?limit=9999", nil)
	PokemonList(engine, newTestLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}
