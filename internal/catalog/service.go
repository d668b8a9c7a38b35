package catalog

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	pkgerrors "github.com/baharudin-yusup/pokedex-backend/pkg/errors"
	"github.com/baharudin-yusup/pokedex-backend/pkg/logger"
	"github.com/baharudin-yusup/pokedex-backend/pkg/pokeapi"
)

// Fetcher is the remote feed surface the catalog service depends on.
type Fetcher interface {
	GetByID(ctx context.Context, id int) (*pokeapi.Detail, error)
	GetByName(ctx context.Context, name string) (*pokeapi.Detail, error)
	ListTypes(ctx context.Context) ([]string, error)
}

// ServiceParams groups dependencies for the catalog service.
type ServiceParams struct {
	Repo    *Repository
	Fetcher Fetcher
	Logger  *logger.Logger
}

// Service exposes detail reads and type listings over the cached catalog.
type Service interface {
	GetDetailByID(ctx context.Context, id int) (DetailDTO, error)
	GetDetailByName(ctx context.Context, name string) (DetailDTO, error)
	ListTypes(ctx context.Context) ([]string, error)
}

type service struct {
	repo    *Repository
	fetcher Fetcher
	logg    *logger.Logger
}

// NewService builds a catalog service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog repo is required")
	}
	if params.Fetcher == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "fetcher is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &service{
		repo:    params.Repo,
		fetcher: params.Fetcher,
		logg:    params.Logger,
	}, nil
}

// GetDetailByID serves a detail-complete cached row directly; otherwise it
// fetches the detail, upserts it, and serves the merged row.
func (s *service) GetDetailByID(ctx context.Context, id int) (DetailDTO, error) {
	if id <= 0 {
		return DetailDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "pokemon id must be positive")
	}

	row, err := s.repo.FindByID(ctx, id)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return DetailDTO{}, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "load pokemon")
	}
	if row != nil && row.DetailComplete() {
		return toDetailDTO(*row), nil
	}

	detail, err := s.fetcher.GetByID(ctx, id)
	if err != nil {
		return DetailDTO{}, err
	}
	return s.storeAndServe(ctx, detail)
}

// GetDetailByName resolves the first cached name match; a cache miss or an
// incomplete row falls through to the remote feed.
func (s *service) GetDetailByName(ctx context.Context, name string) (DetailDTO, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return DetailDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "pokemon name is required")
	}

	row, err := s.repo.FirstByName(ctx, trimmed)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return DetailDTO{}, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "load pokemon")
	}
	if row != nil && row.DetailComplete() {
		return toDetailDTO(*row), nil
	}

	detail, err := s.fetcher.GetByName(ctx, trimmed)
	if err != nil {
		return DetailDTO{}, err
	}
	return s.storeAndServe(ctx, detail)
}

// ListTypes returns every known type name from the remote feed.
func (s *service) ListTypes(ctx context.Context) ([]string, error) {
	return s.fetcher.ListTypes(ctx)
}

func (s *service) storeAndServe(ctx context.Context, detail *pokeapi.Detail) (DetailDTO, error) {
	if err := s.repo.Upsert(ctx, FromRemoteDetail(detail)); err != nil {
		return DetailDTO{}, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "store pokemon detail")
	}

	stored, err := s.repo.FindByID(ctx, detail.ID)
	if err != nil {
		return DetailDTO{}, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "reload pokemon detail")
	}
	return toDetailDTO(*stored), nil
}
