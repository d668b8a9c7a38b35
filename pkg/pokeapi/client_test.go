package pokeapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/baharudin-yusup/pokedex-backend/pkg/errors"
)

const bulbasaurDetail = `{
	"id": 1,
	"name": "bulbasaur",
	"height": 7,
	"weight": 69,
	"sprites": {"other": {"official-artwork": {"front_default": "https://img.example/1.png"}}},
	"types": [{"type": {"name": "grass"}}, {"type": {"name": "poison"}}],
	"abilities": [{"ability": {"name": "overgrow"}}],
	"stats": [
		{"base_stat": 45, "stat": {"name": "hp"}},
		{"base_stat": 49, "stat": {"name": "attack"}},
		{"base_stat": 49, "stat": {"name": "defense"}},
		{"base_stat": 65, "stat": {"name": "special-attack"}},
		{"base_stat": 65, "stat": {"name": "special-defense"}},
		{"base_stat": 45, "stat": {"name": "speed"}}
	]
}`

func TestListPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pokemon", r.URL.Path)
		assert.Equal(t, "20", r.URL.Query().Get("offset"))
		assert.Equal(t, "20", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`{
			"count": 1302,
			"next": "https://pokeapi.co/api/v2/pokemon?offset=40&limit=20",
			"previous": "https://pokeapi.co/api/v2/pokemon?offset=0&limit=20",
			"results": [
				{"name": "spearow", "url": "https://pokeapi.co/api/v2/pokemon/21/"},
				{"name": "fearow", "url": "https://pokeapi.co/api/v2/pokemon/22/"}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))

	page, err := client.ListPage(context.Background(), 20, 20)
	require.NoError(t, err)
	assert.Equal(t, 1302, page.Count)
	assert.True(t, page.HasNext)
	require.Len(t, page.Items, 2)
	assert.Equal(t, 21, page.Items[0].ID)
	assert.Equal(t, "spearow", page.Items[0].Name)
}

func TestListPageLastPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"count": 2, "next": null, "previous": null, "results": []}`))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))

	page, err := client.ListPage(context.Background(), 0, 20)
	require.NoError(t, err)
	assert.False(t, page.HasNext)
	assert.Empty(t, page.Items)
}

func TestGetByIDMapsDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pokemon/1", r.URL.Path)
		_, _ = w.Write([]byte(bulbasaurDetail))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))

	detail, err := client.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, detail.ID)
	assert.Equal(t, "bulbasaur", detail.Name)
	assert.Equal(t, "https://img.example/1.png", detail.ImageURL)
	assert.Equal(t, []string{"grass", "poison"}, detail.Types)
	assert.Equal(t, []string{"overgrow"}, detail.Abilities)
	require.NotNil(t, detail.Stats)
	assert.Equal(t, 45, detail.Stats.HP)
	assert.Equal(t, 65, detail.Stats.SpecialDefense)
}

func TestGetByNameLowercasesRef(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pokemon/pikachu", r.URL.Path)
		_, _ = w.Write([]byte(`{"id": 25, "name": "pikachu", "height": 4, "weight": 60,
			"sprites": {"other": {"official-artwork": {"front_default": null}}},
			"types": [], "abilities": [], "stats": []}`))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))

	detail, err := client.GetByName(context.Background(), "  Pikachu ")
	require.NoError(t, err)
	assert.Equal(t, 25, detail.ID)
	assert.Equal(t, ArtworkURL(25), detail.ImageURL)
	assert.Nil(t, detail.Stats)
}

func TestGetByIDPartialStatsDropped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id": 7, "name": "squirtle", "height": 5, "weight": 90,
			"sprites": {"other": {"official-artwork": {"front_default": null}}},
			"types": [{"type": {"name": "water"}}], "abilities": [],
			"stats": [{"base_stat": 44, "stat": {"name": "hp"}}]}`))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))

	detail, err := client.GetByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Nil(t, detail.Stats)
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantCode pkgerrors.Code
	}{
		{name: "not found", status: http.StatusNotFound, body: "Not Found", wantCode: pkgerrors.CodeNotFound},
		{name: "server error", status: http.StatusInternalServerError, body: "boom", wantCode: pkgerrors.CodeRemote},
		{name: "malformed body", status: http.StatusOK, body: "<html>", wantCode: pkgerrors.CodeRemote},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer server.Close()

			client := NewClient(WithBaseURL(server.URL))

			_, err := client.GetByID(context.Background(), 1)
			require.Error(t, err)

			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, tc.wantCode, typed.Code())
		})
	}
}

func TestConnectionErrorIsTransport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient(WithBaseURL(server.URL))

	_, err := client.ListPage(context.Background(), 0, 20)
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeTransport, typed.Code())
	assert.True(t, pkgerrors.Retryable(err))
}

func TestListTypesCapitalizes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/type", r.URL.Path)
		_, _ = w.Write([]byte(`{"results": [{"name": "grass"}, {"name": "fire"}, {"name": "water"}]}`))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))

	types, err := client.ListTypes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Grass", "Fire", "Water"}, types)
}

type memoryDetailCache struct {
	mu      sync.Mutex
	entries map[string]string
	hits    int
	sets    int
}

func newMemoryDetailCache() *memoryDetailCache {
	return &memoryDetailCache{entries: map[string]string{}}
}

func (m *memoryDetailCache) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.entries[key]
	if !ok {
		return "", context.Canceled
	}
	m.hits++
	return value, nil
}

func (m *memoryDetailCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value.(string)
	m.sets++
	return nil
}

func (m *memoryDetailCache) DetailCacheKey(ref string) string {
	return "test:detail:" + ref
}

func TestDetailCacheShortCircuitsSecondFetch(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(bulbasaurDetail))
	}))
	defer server.Close()

	cache := newMemoryDetailCache()
	client := NewClient(WithBaseURL(server.URL), WithDetailCache(cache, time.Minute))

	first, err := client.GetByID(context.Background(), 1)
	require.NoError(t, err)

	second, err := client.GetByID(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, first, second)
}

func TestParseIDFromURL(t *testing.T) {
	assert.Equal(t, 25, ParseIDFromURL("https://pokeapi.co/api/v2/pokemon/25/"))
	assert.Equal(t, 132, ParseIDFromURL("https://pokeapi.co/api/v2/pokemon/132"))
	assert.Equal(t, 0, ParseIDFromURL("https://pokeapi.co/api/v2/pokemon/ditto/"))
	assert.Equal(t, 0, ParseIDFromURL(""))
}
