package userdata

import (
	"context"
	"fmt"

	"github.com/baharudin-yusup/pokedex-backend/internal/events"
	pkgerrors "github.com/baharudin-yusup/pokedex-backend/pkg/errors"
	"github.com/baharudin-yusup/pokedex-backend/pkg/logger"
)

const (
	msgAddedToFavorites     = "Added to favorites"
	msgRemovedFromFavorites = "Removed from favorites"
)

// ServiceParams groups dependencies for the user-data service.
type ServiceParams struct {
	Repo        *Repository
	FavoriteIDs *events.IDSetHub
	Logger      *logger.Logger
}

// Service exposes favorite and rating mutations plus their point reads.
// Mutations never publish catalog-change events; live paged views stay
// untouched and pick the values up at read time.
type Service interface {
	SetFavorite(ctx context.Context, pokemonID int, favorite bool) (string, error)
	SetRating(ctx context.Context, pokemonID, rating int) (string, error)
	IsFavorite(ctx context.Context, pokemonID int) (bool, error)
	GetRating(ctx context.Context, pokemonID int) (int, error)
	ListFavoriteIDs(ctx context.Context) ([]int, error)
	ObserveFavoriteIDs() (<-chan []int, func())
}

type service struct {
	repo        *Repository
	favoriteIDs *events.IDSetHub
	logg        *logger.Logger
}

// NewService builds a user-data service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user-data repo is required")
	}
	if params.FavoriteIDs == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "favorite id hub is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &service{
		repo:        params.Repo,
		favoriteIDs: params.FavoriteIDs,
		logg:        params.Logger,
	}, nil
}

// SetFavorite flips the favorite flag and returns the confirmation text.
func (s *service) SetFavorite(ctx context.Context, pokemonID int, favorite bool) (string, error) {
	if pokemonID <= 0 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "pokemon id must be positive")
	}

	if err := s.repo.SetFavorite(ctx, pokemonID, favorite); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeStorage, err, "store favorite")
	}

	s.publishFavoriteIDs(ctx)

	if favorite {
		return msgAddedToFavorites, nil
	}
	return msgRemovedFromFavorites, nil
}

// SetRating clamps the rating to [0,5], stores it, and returns the
// confirmation text.
func (s *service) SetRating(ctx context.Context, pokemonID, rating int) (string, error) {
	if pokemonID <= 0 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "pokemon id must be positive")
	}

	clamped := rating
	if clamped < 0 {
		clamped = 0
	}
	if clamped > 5 {
		clamped = 5
	}

	if err := s.repo.SetRating(ctx, pokemonID, clamped); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeStorage, err, "store rating")
	}

	plural := "s"
	if clamped == 1 {
		plural = ""
	}
	return fmt.Sprintf("Rated %d star%s", clamped, plural), nil
}

// IsFavorite reads the flag from the user-state table only.
func (s *service) IsFavorite(ctx context.Context, pokemonID int) (bool, error) {
	favorite, err := s.repo.IsFavorite(ctx, pokemonID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "load favorite")
	}
	return favorite, nil
}

// GetRating reads the rating from the user-state table only.
func (s *service) GetRating(ctx context.Context, pokemonID int) (int, error) {
	rating, err := s.repo.GetRating(ctx, pokemonID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "load rating")
	}
	return rating, nil
}

// ListFavoriteIDs returns every favorited pokemon ID in ascending order.
func (s *service) ListFavoriteIDs(ctx context.Context) ([]int, error) {
	ids, err := s.repo.ListFavoriteIDs(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "list favorite ids")
	}
	return ids, nil
}

// ObserveFavoriteIDs subscribes to the live favorite ID set.
func (s *service) ObserveFavoriteIDs() (<-chan []int, func()) {
	return s.favoriteIDs.Subscribe()
}

func (s *service) publishFavoriteIDs(ctx context.Context) {
	ids, err := s.repo.ListFavoriteIDs(ctx)
	if err != nil {
		s.logg.Error(ctx, "failed to refresh favorite id set", err)
		return
	}
	s.favoriteIDs.Publish(ids)
}
