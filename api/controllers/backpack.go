package controllers

import (
	"net/http"

	"github.com/baharudin-yusup/pokedex-backend/api/responses"
	"github.com/baharudin-yusup/pokedex-backend/api/validators"
	"github.com/baharudin-yusup/pokedex-backend/internal/backpack"
	pkgerrors "github.com/baharudin-yusup/pokedex-backend/pkg/errors"
	"github.com/baharudin-yusup/pokedex-backend/pkg/logger"
)

// BackpackList returns carried pokemon, newest pickup first.
func BackpackList(svc backpack.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "backpack service unavailable"))
			return
		}

		offset, err := validators.ParseQueryInt(r, "offset", 0, 0, 1<<30)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", defaultPageSize, 1, maxPageSize)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.List(r.Context(), offset, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, page)
	}
}

// BackpackAdd puts a pokemon into the backpack.
func BackpackAdd(svc backpack.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "backpack service unavailable"))
			return
		}

		id, err := pokemonIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		message, err := svc.Add(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"message": message})
	}
}

// BackpackRemove takes a pokemon out of the backpack.
func BackpackRemove(svc backpack.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "backpack service unavailable"))
			return
		}

		id, err := pokemonIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		message, err := svc.Remove(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"message": message})
	}
}

// BackpackIDs lists the IDs of every carried pokemon.
func BackpackIDs(svc backpack.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "backpack service unavailable"))
			return
		}

		ids, err := svc.ListIDs(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"ids": ids})
	}
}
