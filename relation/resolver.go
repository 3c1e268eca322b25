package relation

import (
	"context"
	"sync"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/fulldump/gridadmin/record"
)

var DefaultLabelFields = []string{"name", "title", "username", "email"}

// Fetcher lists every record of a related collection.
type Fetcher interface {
	Fetch(ctx context.Context, related string) ([]record.Record, error)
}

type FetcherFunc func(ctx context.Context, related string) ([]record.Record, error)

func (f FetcherFunc) Fetch(ctx context.Context, related string) ([]record.Record, error) {
	return f(ctx, related)
}

type FailureHook func(related string, err error)

// Resolver turns foreign key ids into labels. Tables are fetched once per
// related collection and kept until invalidated; a failed fetch is memoized
// as an empty table and reported to the failure hooks.
type Resolver struct {
	fetcher     Fetcher
	cache       Cache
	group       singleflight.Group
	labelFields []string
	logger      *zap.Logger

	hooksMutex sync.RWMutex
	hooks      []FailureHook

	generationsMutex sync.Mutex
	generations      map[string]uint64
}

func NewResolver(fetcher Fetcher, cache Cache, logger *zap.Logger) *Resolver {
	if cache == nil {
		cache = NewMemoryCache()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		fetcher:     fetcher,
		cache:       cache,
		labelFields: DefaultLabelFields,
		logger:      logger,
		generations: map[string]uint64{},
	}
}

// WithLabelFields replaces the label priority list. Empty keeps the default.
func (r *Resolver) WithLabelFields(fields []string) *Resolver {
	if len(fields) > 0 {
		r.labelFields = append([]string{}, fields...)
	}
	return r
}

func (r *Resolver) OnFailure(hook FailureHook) {
	r.hooksMutex.Lock()
	r.hooks = append(r.hooks, hook)
	r.hooksMutex.Unlock()
}

func (r *Resolver) Resolve(ctx context.Context, related string) []Option {
	return r.lookup(ctx, related).Options()
}

// Label returns the label of id in the related table, or id itself when the
// table has no such option.
func (r *Resolver) Label(ctx context.Context, related, id string) string {
	label, found := r.lookup(ctx, related).Label(id)
	if !found {
		return id
	}
	return label
}

// Invalidate drops the cached table. A fetch in flight when this is called
// still answers its waiters but does not fill the cache.
func (r *Resolver) Invalidate(related string) {
	r.generationsMutex.Lock()
	r.generations[related]++
	r.cache.Invalidate(related)
	r.generationsMutex.Unlock()
	r.group.Forget(related)
}

func (r *Resolver) generation(related string) uint64 {
	r.generationsMutex.Lock()
	defer r.generationsMutex.Unlock()
	return r.generations[related]
}

// store caches l unless related was invalidated since generation.
func (r *Resolver) store(related string, generation uint64, l *Lookup) bool {
	r.generationsMutex.Lock()
	defer r.generationsMutex.Unlock()
	if r.generations[related] != generation {
		return false
	}
	r.cache.Set(related, l)
	return true
}

func (r *Resolver) lookup(ctx context.Context, related string) *Lookup {

	if l, ok := r.cache.Get(related); ok {
		return l
	}

	v, _, _ := r.group.Do(related, func() (interface{}, error) {
		if l, ok := r.cache.Get(related); ok {
			return l, nil
		}

		generation := r.generation(related)

		// The fetch outlives any single caller.
		records, err := r.fetcher.Fetch(context.WithoutCancel(ctx), related)
		if err != nil {
			r.logger.Warn("lookup failure", zap.String("related", related), zap.Error(err))
			empty := NewLookup(nil)
			r.store(related, generation, empty)
			r.notify(related, err)
			return empty, nil
		}

		l := NewLookup(r.options(records))
		if !r.store(related, generation, l) {
			r.logger.Debug("lookup invalidated while loading", zap.String("related", related))
			return l, nil
		}
		r.logger.Debug("lookup loaded", zap.String("related", related), zap.Int("options", l.Len()))
		return l, nil
	})

	return v.(*Lookup)
}

func (r *Resolver) notify(related string, err error) {
	r.hooksMutex.RLock()
	hooks := append([]FailureHook{}, r.hooks...)
	r.hooksMutex.RUnlock()
	for _, hook := range hooks {
		hook(related, err)
	}
}

func (r *Resolver) options(records []record.Record) []Option {
	options := make([]Option, 0, len(records))
	for _, rec := range records {
		id := rec.ID()
		if id.IsNull() {
			continue
		}
		value := id.Text()
		options = append(options, Option{
			Value: value,
			Label: r.label(rec, value),
		})
	}
	return options
}

func (r *Resolver) label(rec record.Record, id string) string {
	for _, field := range r.labelFields {
		text := rec.Get(field).Text()
		if text != "" {
			return text
		}
	}
	return truncate(id, 8)
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
