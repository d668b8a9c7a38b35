package controllers

import (
	"net/http"

	"github.com/baharudin-yusup/pokedex-backend/api/responses"
	"github.com/baharudin-yusup/pokedex-backend/pkg/config"
	"github.com/baharudin-yusup/pokedex-backend/pkg/db"
	pkgerrors "github.com/baharudin-yusup/pokedex-backend/pkg/errors"
	"github.com/baharudin-yusup/pokedex-backend/pkg/logger"
)

const envHeader = "X-Pokedex-Env"

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the hard dependencies. A nil pinger is skipped, which
// covers the optional redis cache.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, cacheP db.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		w.Header().Set(envHeader, cfg.App.Env)

		if dbP == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "database not wired"))
			return
		}
		if err := dbP.Ping(ctx); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "database ping failed"))
			return
		}

		if cacheP != nil {
			if err := cacheP.Ping(ctx); err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "cache ping failed"))
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
