package catalog

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/baharudin-yusup/pokedex-backend/internal/events"
	pkgerrors "github.com/baharudin-yusup/pokedex-backend/pkg/errors"
	"github.com/baharudin-yusup/pokedex-backend/pkg/logger"
	"github.com/baharudin-yusup/pokedex-backend/pkg/pagination"
)

// Backfiller extends the cached catalog past its current tail.
type Backfiller interface {
	Append(ctx context.Context, lastPokemonID int) (endReached bool, err error)
}

// EngineParams groups dependencies for the paged view engine.
type EngineParams struct {
	Repo       *Repository
	Backfiller Backfiller
	Changes    *events.Hub
	PageSize   int
	Logger     *logger.Logger
}

// Engine produces live paged projections over the cached catalog.
type Engine struct {
	repo       *Repository
	backfiller Backfiller
	changes    *events.Hub
	pageSize   int
	logg       *logger.Logger
}

// NewEngine builds a view engine with the required dependencies.
func NewEngine(params EngineParams) (*Engine, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog repo is required")
	}
	if params.Backfiller == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "backfiller is required")
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
	return &Engine{
		repo:       params.Repo,
		backfiller: params.Backfiller,
		changes:    params.Changes,
		pageSize:   params.PageSize,
		logg:       params.Logger,
	}, nil
}

// OpenView starts a live projection for the given query. The caller owns the
// view and must Close it, directly or by cancelling its last Updates
// subscription.
func (e *Engine) OpenView(q Query) *View {
	ctx, cancel := context.WithCancel(context.Background())

	v := &View{
		engine: e,
		query:  q.Normalize(),
		ctx:    ctx,
		cancel: cancel,
		subs:   make(map[int]chan struct{}),
	}

	changeCh, unsubscribe := e.changes.Subscribe()
	v.unsubscribe = unsubscribe

	go v.forwardChanges(changeCh)

	return v
}

// View is one live filtered/sorted projection of the catalog. Reads never
// see user-state mutations as change events; only entity-store merges
// signal Updates.
type View struct {
	engine *Engine
	query  Query

	ctx         context.Context
	cancel      context.CancelFunc
	unsubscribe func()

	sf singleflight.Group

	mu         sync.Mutex
	subs       map[int]chan struct{}
	nextSubID  int
	endReached bool
	closed     bool
}

// Query returns the projection's normalized query.
func (v *View) Query() Query { return v.query }

// EmptyMessage returns the no-results text for this projection.
func (v *View) EmptyMessage() string { return v.query.EmptyMessage() }

// Snapshot returns every row currently matching the projection.
func (v *View) Snapshot(ctx context.Context) ([]SummaryDTO, error) {
	rows, err := v.engine.repo.List(ctx, v.query, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "load snapshot")
	}
	return ToSummaryDTOs(rows), nil
}

// Get returns one window of the projection. When the window extends past
// the locally-known matching rows and the feed end has not been reached,
// the view backfills through the mediator first. A filtered projection
// keeps loading until enough matches accumulate or the feed ends, even
// when the unfiltered cache already covers the window. Concurrent windows
// coalesce on a single append.
func (v *View) Get(ctx context.Context, offset, limit int) (PageDTO, error) {
	window := pagination.Window{Offset: offset, Limit: limit}.Normalize()

	for !v.isEndReached() {
		known, err := v.knownMatches(ctx)
		if err != nil {
			return PageDTO{}, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "count cached rows")
		}
		if int64(window.End()) <= known {
			break
		}
		if err := v.backfill(); err != nil {
			return PageDTO{}, err
		}
		if err := ctx.Err(); err != nil {
			return PageDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "window read cancelled")
		}
	}

	rows, err := v.engine.repo.List(ctx, v.query, &window)
	if err != nil {
		return PageDTO{}, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "load window")
	}
	total, err := v.engine.repo.Count(ctx, v.query)
	if err != nil {
		return PageDTO{}, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "count window")
	}

	page := PageDTO{
		Items:  ToSummaryDTOs(rows),
		Total:  total,
		Offset: window.Offset,
		Limit:  window.Limit,
	}
	if total == 0 {
		page.EmptyMessage = v.query.EmptyMessage()
	}
	return page, nil
}

// Updates registers a change listener. The channel fires once per catalog
// merge; pending signals coalesce. Cancelling the last subscription closes
// the view and cancels any in-flight backfill.
func (v *View) Updates() (<-chan struct{}, func()) {
	v.mu.Lock()
	defer v.mu.Unlock()

	id := v.nextSubID
	v.nextSubID++
	ch := make(chan struct{}, 1)
	v.subs[id] = ch

	var once sync.Once
	cancelSub := func() {
		once.Do(func() {
			v.mu.Lock()
			delete(v.subs, id)
			remaining := len(v.subs)
			v.mu.Unlock()
			if remaining == 0 {
				v.Close()
			}
		})
	}
	return ch, cancelSub
}

// Close tears the view down and cancels any in-flight backfill.
func (v *View) Close() {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.closed = true
	v.mu.Unlock()

	v.cancel()
	v.unsubscribe()
}

// knownMatches counts the cached rows a window read would draw from: the
// filtered count when the projection narrows the catalog, the full cache
// size otherwise.
func (v *View) knownMatches(ctx context.Context) (int64, error) {
	if v.query.HasFilters() {
		return v.engine.repo.Count(ctx, v.query)
	}
	return v.engine.repo.CountAll(ctx)
}

// backfill runs one append through the mediator. Concurrent callers share a
// single in-flight load. The load runs on the view context so Close cancels
// it.
func (v *View) backfill() error {
	_, err, _ := v.sf.Do("append", func() (any, error) {
		tail, err := v.engine.repo.TailID(v.ctx)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "resolve tail")
		}

		endReached, err := v.engine.backfiller.Append(v.ctx, tail)
		if err != nil {
			return nil, err
		}
		if endReached {
			v.setEndReached()
		}
		return nil, nil
	})
	return err
}

func (v *View) forwardChanges(changeCh <-chan struct{}) {
	for {
		select {
		case <-v.ctx.Done():
			return
		case _, ok := <-changeCh:
			if !ok {
				return
			}
			v.notifySubscribers()
		}
	}
}

func (v *View) notifySubscribers() {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, ch := range v.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (v *View) isEndReached() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.endReached
}

func (v *View) setEndReached() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.endReached = true
}
