package grid

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fulldump/gridadmin/catalog"
	"github.com/fulldump/gridadmin/columns"
	"github.com/fulldump/gridadmin/filter"
	"github.com/fulldump/gridadmin/pagination"
	"github.com/fulldump/gridadmin/record"
	"github.com/fulldump/gridadmin/relation"
	"github.com/fulldump/gridadmin/source"
	"github.com/fulldump/gridadmin/visibility"
)

var ErrUnknownCollection = catalog.ErrUnknownCollection
var ErrUnknownReport = catalog.ErrUnknownReport
var ErrNoActiveCollection = errors.New("no active collection")
var ErrNothingLoaded = errors.New("nothing loaded")
var ErrEmptyID = errors.New("empty id")

type Deps struct {
	Catalog    *catalog.Catalog
	Source     source.Source
	Visibility *visibility.Store
	Resolver   *relation.Resolver
	Logger     *zap.Logger
}

// Engine is the grid state of one session: the loaded batch and everything
// derived from it (columns, visibility, search, filters and page).
type Engine struct {
	catalog    *catalog.Catalog
	source     source.Source
	visibility *visibility.Store
	resolver   *relation.Resolver
	logger     *zap.Logger

	mutex      sync.Mutex
	active     string
	current    *catalog.Descriptor
	token      string
	loaded     bool
	batch      []record.Record
	columns    []string
	visible    []string
	kinds      filter.Kinds
	search     string
	conditions filter.Conditions
	page       pagination.State
	notices    []Notice
}

func NewEngine(deps Deps) *Engine {

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	store := deps.Visibility
	if store == nil {
		store = visibility.NewStore(nil, logger)
	}
	resolver := deps.Resolver
	if resolver == nil {
		resolver = relation.NewResolver(CatalogFetcher(deps.Catalog, deps.Source), nil, logger).
			WithLabelFields(deps.Catalog.LabelFields)
	}

	return &Engine{
		catalog:    deps.Catalog,
		source:     deps.Source,
		visibility: store,
		resolver:   resolver,
		logger:     logger,
		batch:      []record.Record{},
		columns:    []string{},
		visible:    []string{},
		kinds:      filter.Kinds{},
		conditions: filter.Conditions{},
		page:       pagination.NewState(deps.Catalog.DefaultPageSize),
	}
}

// CatalogFetcher lists related collections through their catalog endpoint.
// Names outside the catalog fail without touching the backend.
func CatalogFetcher(c *catalog.Catalog, s source.Lister) relation.Fetcher {
	return relation.FetcherFunc(func(ctx context.Context, related string) ([]record.Record, error) {
		d, err := c.Collection(related)
		if err != nil {
			return nil, err
		}
		return s.List(ctx, d.Endpoint)
	})
}

func (e *Engine) Resolver() *relation.Resolver {
	return e.resolver
}

// Active returns the name of the active collection, empty when none.
func (e *Engine) Active() string {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.active
}

// LoadCollection makes name the active collection and loads its records.
func (e *Engine) LoadCollection(ctx context.Context, name string) error {
	d, err := e.catalog.Collection(name)
	if err != nil {
		return err
	}

	e.mutex.Lock()
	e.active = d.Name
	e.mutex.Unlock()

	return e.load(ctx, d)
}

// LoadReport shows a report. The active collection does not change.
func (e *Engine) LoadReport(ctx context.Context, name string) error {
	d, err := e.catalog.Report(name)
	if err != nil {
		return err
	}
	return e.load(ctx, d)
}

// Reload fetches again whatever is displayed.
func (e *Engine) Reload(ctx context.Context) error {
	e.mutex.Lock()
	d := e.current
	e.mutex.Unlock()
	if d == nil {
		return ErrNothingLoaded
	}
	return e.load(ctx, d)
}

func (e *Engine) load(ctx context.Context, d *catalog.Descriptor) error {

	token := uuid.New().String()

	e.mutex.Lock()
	e.token = token
	e.current = d
	e.mutex.Unlock()

	batch, err := e.source.List(ctx, d.Endpoint)

	var cols, visible []string
	var kinds filter.Kinds
	if err == nil {
		cols = columns.Derive(batch, d.Preferred)
		visible = e.visibility.Load(d.VisibilityKey(), cols)
		kinds = filter.DetectKinds(batch, cols).Override(d.FilterKinds())
	}

	e.mutex.Lock()
	defer e.mutex.Unlock()

	if e.token != token {
		e.logger.Debug("stale result dropped",
			zap.String("name", d.Name),
			zap.String("token", token))
		return nil
	}

	e.loaded = true
	e.conditions = filter.Conditions{}
	e.page = e.page.Reset()

	if err != nil {
		e.batch = []record.Record{}
		e.columns = []string{}
		e.visible = []string{}
		e.kinds = filter.Kinds{}
		e.addNotice(NoticeLoadFailure, LevelDanger, fmt.Sprintf("Error loading %s: %s", d.Title, err.Error()))
		e.logger.Warn("load failure", zap.String("name", d.Name), zap.Error(err))
		return fmt.Errorf("load '%s': %w", d.Name, err)
	}

	e.batch = batch
	e.columns = cols
	e.visible = visible
	e.kinds = kinds
	e.logger.Debug("loaded",
		zap.String("name", d.Name),
		zap.Int("records", len(batch)),
		zap.Int("columns", len(cols)))

	return nil
}

func (e *Engine) SetSearch(text string) {
	e.mutex.Lock()
	e.search = text
	e.page = e.page.Reset()
	e.mutex.Unlock()
}

func (e *Engine) SetConditions(conditions filter.Conditions) {
	e.mutex.Lock()
	e.conditions = conditions.Active()
	e.page = e.page.Reset()
	e.mutex.Unlock()
}

func (e *Engine) ClearConditions() {
	e.SetConditions(nil)
}

func (e *Engine) SetPage(page int) {
	e.mutex.Lock()
	e.page = e.page.WithPage(page)
	e.mutex.Unlock()
}

// SetPageSize falls back to the default size for sizes the catalog does not
// offer.
func (e *Engine) SetPageSize(size int) {
	e.mutex.Lock()
	e.page = e.page.WithPageSize(size, e.catalog.PageSizes, e.catalog.DefaultPageSize)
	e.mutex.Unlock()
}

// SetVisibleColumns shows the given columns of the current ColumnSet and
// persists the choice. Nothing left visible means every column.
func (e *Engine) SetVisibleColumns(cols []string) error {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	if e.current == nil {
		return ErrNothingLoaded
	}

	visible := columns.Intersect(e.columns, cols)
	e.visibility.Save(e.current.VisibilityKey(), visible)
	if len(visible) == 0 {
		visible = append([]string{}, e.columns...)
	}
	e.visible = visible
	return nil
}

func (e *Engine) ShowAllColumns() error {
	e.mutex.Lock()
	cols := append([]string{}, e.columns...)
	e.mutex.Unlock()
	return e.SetVisibleColumns(cols)
}

// HideAllColumns can not leave an empty grid, so it behaves as ShowAll.
func (e *Engine) HideAllColumns() error {
	return e.SetVisibleColumns(nil)
}
