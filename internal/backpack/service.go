package backpack

import (
	"context"

	"github.com/baharudin-yusup/pokedex-backend/internal/catalog"
	"github.com/baharudin-yusup/pokedex-backend/internal/events"
	pkgerrors "github.com/baharudin-yusup/pokedex-backend/pkg/errors"
	"github.com/baharudin-yusup/pokedex-backend/pkg/logger"
	"github.com/baharudin-yusup/pokedex-backend/pkg/pagination"
)

const (
	msgAddedToBackpack     = "Added to backpack"
	msgRemovedFromBackpack = "Removed from backpack"
)

// PageDTO wraps one window of the backpack collection.
type PageDTO struct {
	Items  []catalog.SummaryDTO `json:"items"`
	Total  int64                `json:"total"`
	Offset int                  `json:"offset"`
	Limit  int                  `json:"limit"`
}

// ServiceParams groups dependencies for the backpack service.
type ServiceParams struct {
	Repo        *Repository
	BackpackIDs *events.IDSetHub
	Logger      *logger.Logger
}

// Service exposes backpack membership mutations and its paged collection
// view. The view has the same window mechanics as the catalog but never
// backfills from the network.
type Service interface {
	Add(ctx context.Context, pokemonID int) (string, error)
	Remove(ctx context.Context, pokemonID int) (string, error)
	Contains(ctx context.Context, pokemonID int) (bool, error)
	List(ctx context.Context, offset, limit int) (PageDTO, error)
	ListIDs(ctx context.Context) ([]int, error)
	ObserveBackpackIDs() (<-chan []int, func())
}

type service struct {
	repo        *Repository
	backpackIDs *events.IDSetHub
	logg        *logger.Logger
}

// NewService builds a backpack service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "backpack repo is required")
	}
	if params.BackpackIDs == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "backpack id hub is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &service{
		repo:        params.Repo,
		backpackIDs: params.BackpackIDs,
		logg:        params.Logger,
	}, nil
}

// Add puts a pokemon into the backpack and returns the confirmation text.
func (s *service) Add(ctx context.Context, pokemonID int) (string, error) {
	if pokemonID <= 0 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "pokemon id must be positive")
	}
	if err := s.repo.Add(ctx, pokemonID); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeStorage, err, "add to backpack")
	}
	s.publishIDs(ctx)
	return msgAddedToBackpack, nil
}

// Remove drops a pokemon from the backpack and returns the confirmation
// text, regardless of prior membership.
func (s *service) Remove(ctx context.Context, pokemonID int) (string, error) {
	if pokemonID <= 0 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "pokemon id must be positive")
	}
	if err := s.repo.Remove(ctx, pokemonID); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeStorage, err, "remove from backpack")
	}
	s.publishIDs(ctx)
	return msgRemovedFromBackpack, nil
}

// Contains reports membership from the membership table only.
func (s *service) Contains(ctx context.Context, pokemonID int) (bool, error) {
	contained, err := s.repo.Contains(ctx, pokemonID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "check backpack")
	}
	return contained, nil
}

// List returns one window of the collection, newest additions first.
func (s *service) List(ctx context.Context, offset, limit int) (PageDTO, error) {
	window := pagination.Window{Offset: offset, Limit: limit}.Normalize()

	rows, err := s.repo.ListPokemon(ctx, window)
	if err != nil {
		return PageDTO{}, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "load backpack window")
	}
	total, err := s.repo.Count(ctx)
	if err != nil {
		return PageDTO{}, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "count backpack")
	}

	return PageDTO{
		Items:  catalog.ToSummaryDTOs(rows),
		Total:  total,
		Offset: window.Offset,
		Limit:  window.Limit,
	}, nil
}

// ListIDs returns every member ID.
func (s *service) ListIDs(ctx context.Context) ([]int, error) {
	ids, err := s.repo.ListIDs(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "list backpack ids")
	}
	return ids, nil
}

// ObserveBackpackIDs subscribes to the live membership ID set.
func (s *service) ObserveBackpackIDs() (<-chan []int, func()) {
	return s.backpackIDs.Subscribe()
}

func (s *service) publishIDs(ctx context.Context) {
	ids, err := s.repo.ListIDs(ctx)
	if err != nil {
		s.logg.Error(ctx, "failed to refresh backpack id set", err)
		return
	}
	s.backpackIDs.Publish(ids)
}
