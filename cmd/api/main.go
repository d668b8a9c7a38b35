package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/baharudin-yusup/pokedex-backend/api/routes"
	"github.com/baharudin-yusup/pokedex-backend/internal/backpack"
	"github.com/baharudin-yusup/pokedex-backend/internal/catalog"
	"github.com/baharudin-yusup/pokedex-backend/internal/events"
	"github.com/baharudin-yusup/pokedex-backend/internal/syncer"
	"github.com/baharudin-yusup/pokedex-backend/internal/userdata"
	"github.com/baharudin-yusup/pokedex-backend/pkg/config"
	"github.com/baharudin-yusup/pokedex-backend/pkg/db"
	"github.com/baharudin-yusup/pokedex-backend/pkg/instance"
	"github.com/baharudin-yusup/pokedex-backend/pkg/logger"
	"github.com/baharudin-yusup/pokedex-backend/pkg/metrics"
	"github.com/baharudin-yusup/pokedex-backend/pkg/migrate"
	"github.com/baharudin-yusup/pokedex-backend/pkg/pokeapi"
	"github.com/baharudin-yusup/pokedex-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	} else {
		logg.Warn(context.Background(), "redis not configured, detail cache disabled")
	}

	feedOpts := []pokeapi.Option{
		pokeapi.WithBaseURL(cfg.PokeAPI.BaseURL),
		pokeapi.WithHTTPClient(&http.Client{Timeout: cfg.PokeAPI.Timeout}),
	}
	if redisClient != nil {
		feedOpts = append(feedOpts, pokeapi.WithDetailCache(redisClient, cfg.PokeAPI.DetailCacheTTL))
	}
	feed := pokeapi.NewClient(feedOpts...)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	syncMetrics := metrics.NewSyncMetrics(registry)

	catalogChanges := events.NewHub()
	favoriteIDs := events.NewIDSetHub()
	backpackIDs := events.NewIDSetHub()

	mediator, err := syncer.NewMediator(syncer.MediatorParams{
		Repo:     syncer.NewRepository(dbClient),
		Fetcher:  feed,
		Changes:  catalogChanges,
		Metrics:  syncMetrics,
		PageSize: cfg.Sync.PageSize,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create sync mediator", err)
		os.Exit(1)
	}
	if err := mediator.Initialize(context.Background()); err != nil {
		// A cold start without connectivity still serves whatever is cached.
		warnCtx := logg.WithField(context.Background(), "error", err.Error())
		logg.Warn(warnCtx, "initial catalog sync failed, continuing with local data")
	}

	catalogRepo := catalog.NewRepository(dbClient.DB())

	catalogService, err := catalog.NewService(catalog.ServiceParams{
		Repo:    catalogRepo,
		Fetcher: feed,
		Logger:  logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	catalogEngine, err := catalog.NewEngine(catalog.EngineParams{
		Repo:       catalogRepo,
		Backfiller: mediator,
		Changes:    catalogChanges,
		PageSize:   cfg.Sync.PageSize,
		Logger:     logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog engine", err)
		os.Exit(1)
	}

	userDataService, err := userdata.NewService(userdata.ServiceParams{
		Repo:        userdata.NewRepository(dbClient),
		FavoriteIDs: favoriteIDs,
		Logger:      logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create user data service", err)
		os.Exit(1)
	}

	backpackService, err := backpack.NewService(backpack.ServiceParams{
		Repo:        backpack.NewRepository(dbClient),
		BackpackIDs: backpackIDs,
		Logger:      logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create backpack service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID(),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			registry,
			catalogEngine,
			catalogService,
			userDataService,
			backpackService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
