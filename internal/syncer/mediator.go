package syncer

import (
	"context"
	"time"

	"go.uber.org/multierr"

	"github.com/baharudin-yusup/pokedex-backend/internal/catalog"
	"github.com/baharudin-yusup/pokedex-backend/internal/events"
	"github.com/baharudin-yusup/pokedex-backend/pkg/db/models"
	pkgerrors "github.com/baharudin-yusup/pokedex-backend/pkg/errors"
	"github.com/baharudin-yusup/pokedex-backend/pkg/logger"
	"github.com/baharudin-yusup/pokedex-backend/pkg/metrics"
	"github.com/baharudin-yusup/pokedex-backend/pkg/pagination"
	"github.com/baharudin-yusup/pokedex-backend/pkg/pokeapi"
)

// Direction selects which edge of the cached sequence a load extends.
type Direction string

const (
	DirectionRefresh Direction = "refresh"
	DirectionPrepend Direction = "prepend"
	DirectionAppend  Direction = "append"
)

// Fetcher is the remote feed surface the mediator depends on.
type Fetcher interface {
	ListPage(ctx context.Context, offset, limit int) (*pokeapi.Page, error)
	GetByID(ctx context.Context, id int) (*pokeapi.Detail, error)
}

// MediatorParams groups dependencies for the sync mediator.
type MediatorParams struct {
	Repo     *Repository
	Fetcher  Fetcher
	Changes  *events.Hub
	Metrics  *metrics.SyncMetrics
	PageSize int
	Logger   *logger.Logger
}

// Mediator moves pages from the remote feed into the cached catalog. It
// never retries on its own; failures surface typed so callers can decide.
type Mediator struct {
	repo     *Repository
	fetcher  Fetcher
	changes  *events.Hub
	metrics  *metrics.SyncMetrics
	pageSize int
	logg     *logger.Logger
}

// NewMediator builds a mediator with the required dependencies.
func NewMediator(params MediatorParams) (*Mediator, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "syncer repo is required")
	}
	if params.Fetcher == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "fetcher is required")
	}
	if params.Changes == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "change hub is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	if params.PageSize <= 0 {
		params.PageSize = pagination.DefaultPageSize
	}
	return &Mediator{
		repo:     params.Repo,
		fetcher:  params.Fetcher,
		changes:  params.Changes,
		metrics:  params.Metrics,
		pageSize: params.PageSize,
		logg:     params.Logger,
	}, nil
}

// Initialize performs a full refresh only when the cache is empty. A
// populated cache is served as-is until a caller refreshes.
func (m *Mediator) Initialize(ctx context.Context) error {
	count, err := m.repo.Count(ctx)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "count cached rows").WithRetryable(true)
	}
	if count > 0 {
		return nil
	}
	_, err = m.Load(ctx, DirectionRefresh, 0)
	return err
}

// Append extends the catalog past the given tail item. It satisfies the
// view engine's backfill contract.
func (m *Mediator) Append(ctx context.Context, lastPokemonID int) (bool, error) {
	return m.Load(ctx, DirectionAppend, lastPokemonID)
}

// Load performs one merge in the given direction. lastPokemonID anchors
// append loads and is ignored otherwise. The returned flag reports whether
// the feed end has been reached in that direction.
func (m *Mediator) Load(ctx context.Context, direction Direction, lastPokemonID int) (bool, error) {
	start := time.Now()

	endReached, err := m.load(ctx, direction, lastPokemonID)

	m.metrics.ObserveLoadDuration(string(direction), time.Since(start))
	if err != nil {
		m.metrics.IncFailure(string(direction))
		return false, err
	}
	m.metrics.IncSuccess(string(direction))
	return endReached, nil
}

func (m *Mediator) load(ctx context.Context, direction Direction, lastPokemonID int) (bool, error) {
	var offset int
	switch direction {
	case DirectionRefresh:
		offset = 0

	case DirectionPrepend:
		// the sequence is anchored at offset 0; nothing exists before it
		return true, nil

	case DirectionAppend:
		key, err := m.repo.RemoteKey(ctx, lastPokemonID)
		if err != nil {
			return false, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "load remote key").WithRetryable(true)
		}
		if key == nil || key.NextOffset == nil {
			return true, nil
		}
		offset = *key.NextOffset

	default:
		return false, pkgerrors.New(pkgerrors.CodeValidation, "unknown load direction")
	}

	page, err := m.fetcher.ListPage(ctx, offset, m.pageSize)
	if err != nil {
		return false, err
	}

	endReached := !page.HasNext || len(page.Items) == 0

	rows, detailErrs := m.buildRows(ctx, page.Items)
	if detailErrs != nil {
		warnCtx := m.logg.WithFields(ctx, map[string]any{
			"offset": offset,
			"errors": detailErrs.Error(),
		})
		m.logg.Warn(warnCtx, "stored summary-only rows after failed detail fetches")
	}

	keys := make([]models.PokemonRemoteKey, 0, len(rows))
	prev := pagination.PrevOffset(offset, m.pageSize)
	next := pagination.NextOffset(offset, m.pageSize, endReached)
	for _, row := range rows {
		keys = append(keys, models.PokemonRemoteKey{
			PokemonID:  row.ID,
			PrevOffset: prev,
			NextOffset: next,
		})
	}

	if err := m.repo.MergePage(ctx, direction == DirectionRefresh, rows, keys); err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "merge page").WithRetryable(true)
	}

	m.changes.Publish()
	return endReached, nil
}

// buildRows resolves each page item to a full detail row, falling back to a
// summary-only row when the detail fetch fails. The page still merges; the
// per-item failures are aggregated for logging only.
func (m *Mediator) buildRows(ctx context.Context, items []pokeapi.PageItem) ([]models.Pokemon, error) {
	rows := make([]models.Pokemon, 0, len(items))
	var detailErrs error

	for _, item := range items {
		if item.ID <= 0 {
			warnCtx := m.logg.WithFields(ctx, map[string]any{"name": item.Name, "url": item.URL})
			m.logg.Warn(warnCtx, "skipping list item with unparseable id")
			continue
		}

		detail, err := m.fetcher.GetByID(ctx, item.ID)
		if err != nil {
			detailErrs = multierr.Append(detailErrs, err)
			m.metrics.IncSummaryFallback()
			rows = append(rows, summaryFallbackRow(item))
			continue
		}
		rows = append(rows, *catalog.FromRemoteDetail(detail))
	}

	return rows, detailErrs
}

// summaryFallbackRow builds the degraded row stored when only list data is
// available: zero height/weight, empty lists, no stats, template artwork.
func summaryFallbackRow(item pokeapi.PageItem) models.Pokemon {
	image := pokeapi.ArtworkURL(item.ID)
	return models.Pokemon{
		ID:        item.ID,
		Name:      item.Name,
		ImageURL:  &image,
		Types:     []string{},
		Abilities: []string{},
	}
}
