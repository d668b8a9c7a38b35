package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/baharudin-yusup/pokedex-backend/api/controllers"
	"github.com/baharudin-yusup/pokedex-backend/api/middleware"
	"github.com/baharudin-yusup/pokedex-backend/internal/backpack"
	"github.com/baharudin-yusup/pokedex-backend/internal/catalog"
	"github.com/baharudin-yusup/pokedex-backend/internal/userdata"
	"github.com/baharudin-yusup/pokedex-backend/pkg/config"
	"github.com/baharudin-yusup/pokedex-backend/pkg/db"
	"github.com/baharudin-yusup/pokedex-backend/pkg/logger"
	"github.com/baharudin-yusup/pokedex-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	registry *prometheus.Registry,
	catalogEngine *catalog.Engine,
	catalogService catalog.Service,
	userDataService userdata.Service,
	backpackService backpack.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	var cacheP db.Pinger
	if redisClient != nil {
		cacheP = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, cacheP))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/v1", func(r chi.Router) {
		r.Route("/pokemon", func(r chi.Router) {
			r.Get("/", controllers.PokemonList(catalogEngine, logg))
			r.Get("/types", controllers.PokemonTypes(catalogService, logg))
			r.Get("/{idOrName}", controllers.PokemonDetail(catalogService, logg))
			r.Put("/{id}/favorite", controllers.PokemonFavorite(userDataService, logg))
			r.Put("/{id}/rating", controllers.PokemonRating(userDataService, logg))
		})

		r.Get("/favorites/ids", controllers.FavoriteIDs(userDataService, logg))

		r.Route("/backpack", func(r chi.Router) {
			r.Get("/", controllers.BackpackList(backpackService, logg))
			r.Get("/ids", controllers.BackpackIDs(backpackService, logg))
			r.Put("/{id}", controllers.BackpackAdd(backpackService, logg))
			r.Delete("/{id}", controllers.BackpackRemove(backpackService, logg))
		})
	})

	return r
}
