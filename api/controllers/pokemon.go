package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/baharudin-yusup/pokedex-backend/api/responses"
	"github.com/baharudin-yusup/pokedex-backend/api/validators"
	"github.com/baharudin-yusup/pokedex-backend/internal/catalog"
	"github.com/baharudin-yusup/pokedex-backend/internal/userdata"
	pkgerrors "github.com/baharudin-yusup/pokedex-backend/pkg/errors"
	"github.com/baharudin-yusup/pokedex-backend/pkg/logger"
)

const (
	maxSearchLen    = 120
	defaultPageSize = 20
	maxPageSize     = 100
)

// PokemonList serves a window of the catalog, extending it from the remote
// feed when the requested range runs past what is stored locally.
func PokemonList(engine *catalog.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if engine == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog engine unavailable"))
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

		q := catalog.Query{
			Search: validators.SanitizeString(r.URL.Query().Get("search"), maxSearchLen),
			Types:  validators.ParseQueryList(r, "types"),
			SortBy: strings.TrimSpace(r.URL.Query().Get("sort")),
		}

		view := engine.OpenView(q)
		defer view.Close()

		page, err := view.Get(r.Context(), offset, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, page)
	}
}

// PokemonDetail resolves a pokemon by numeric ID or by name.
func PokemonDetail(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		ref := strings.TrimSpace(chi.URLParam(r, "idOrName"))
		if ref == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "pokemon reference is required"))
			return
		}

		var (
			detail catalog.DetailDTO
			err    error
		)
		if id, convErr := strconv.Atoi(ref); convErr == nil {
			detail, err = svc.GetDetailByID(r.Context(), id)
		} else {
			detail, err = svc.GetDetailByName(r.Context(), ref)
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, detail)
	}
}

// PokemonTypes lists the selectable type filters.
func PokemonTypes(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		types, err := svc.ListTypes(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"types": types})
	}
}

type setFavoriteRequest struct {
	Favorite *bool `json:"favorite" validate:"required"`
}

type setRatingRequest struct {
	Rating *int `json:"rating" validate:"required"`
}

// PokemonFavorite toggles the favorite flag for a pokemon.
func PokemonFavorite(svc userdata.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user data service unavailable"))
			return
		}

		id, err := pokemonIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload setFavoriteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		message, err := svc.SetFavorite(r.Context(), id, *payload.Favorite)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"message": message})
	}
}

// PokemonRating records a star rating for a pokemon.
func PokemonRating(svc userdata.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user data service unavailable"))
			return
		}

		id, err := pokemonIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload setRatingRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		message, err := svc.SetRating(r.Context(), id, *payload.Rating)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"message": message})
	}
}

// FavoriteIDs lists the IDs of every favorited pokemon.
func FavoriteIDs(svc userdata.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user data service unavailable"))
			return
		}

		ids, err := svc.ListFavoriteIDs(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"ids": ids})
	}
}

func pokemonIDParam(r *http.Request) (int, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "id"))
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "pokemon id must be a positive integer")
	}
	return id, nil
}
