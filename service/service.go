package service

import (
	"sync"

	"go.uber.org/zap"

	"github.com/fulldump/gridadmin/catalog"
	"github.com/fulldump/gridadmin/grid"
	"github.com/fulldump/gridadmin/relation"
	"github.com/fulldump/gridadmin/source"
	"github.com/fulldump/gridadmin/visibility"
)

const DefaultSession = "default"

// Service keeps one grid engine per session. Lookups and column visibility
// are shared by all of them.
type Service struct {
	catalog    *catalog.Catalog
	source     source.Source
	visibility *visibility.Store
	resolver   *relation.Resolver
	logger     *zap.Logger

	mutex    sync.Mutex
	sessions map[string]*grid.Engine
}

func NewService(c *catalog.Catalog, s source.Source, v *visibility.Store, logger *zap.Logger) *Service {

	if logger == nil {
		logger = zap.NewNop()
	}
	if v == nil {
		v = visibility.NewStore(nil, logger.Named("visibility"))
	}

	resolver := relation.NewResolver(grid.CatalogFetcher(c, s), relation.NewMemoryCache(), logger.Named("relation")).
		WithLabelFields(c.LabelFields)

	svc := &Service{
		catalog:    c,
		source:     s,
		visibility: v,
		resolver:   resolver,
		logger:     logger,
		sessions:   map[string]*grid.Engine{},
	}
	resolver.OnFailure(svc.broadcastLookupFailure)

	return svc
}

func (s *Service) Catalog() *catalog.Catalog {
	return s.catalog
}

func (s *Service) Resolver() *relation.Resolver {
	return s.resolver
}

// Session returns the engine of a session, creating it on first use. An
// empty id is the default session.
func (s *Service) Session(id string) *grid.Engine {
	if id == "" {
		id = DefaultSession
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	e, exists := s.sessions[id]
	if exists {
		return e
	}

	e = grid.NewEngine(grid.Deps{
		Catalog:    s.catalog,
		Source:     s.source,
		Visibility: s.visibility,
		Resolver:   s.resolver,
		Logger:     s.logger.With(zap.String("session", id)),
	})
	s.sessions[id] = e
	s.logger.Debug("session created", zap.String("session", id))

	return e
}

// broadcastLookupFailure tells every session, the cache is shared so any of
// them may be displaying the related collection.
func (s *Service) broadcastLookupFailure(related string, err error) {
	s.mutex.Lock()
	engines := make([]*grid.Engine, 0, len(s.sessions))
	for _, e := range s.sessions {
		engines = append(engines, e)
	}
	s.mutex.Unlock()

	for _, e := range engines {
		e.NotifyLookupFailure(related, err)
	}
}
