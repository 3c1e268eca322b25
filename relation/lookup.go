package relation

import (
	"sync"

	"github.com/google/btree"
)

// Option is one selectable related record: its identity and display label.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Lookup is an immutable label table. Options keep fetch order, labels are
// found through an ordered index. The first option wins on duplicate values.
type Lookup struct {
	options []Option
	index   *btree.BTreeG[Option]
}

func lessOption(a, b Option) bool {
	return a.Value < b.Value
}

func NewLookup(options []Option) *Lookup {
	l := &Lookup{
		options: append([]Option{}, options...),
		index:   btree.NewG(8, lessOption),
	}
	for _, o := range l.options {
		if l.index.Has(o) {
			continue
		}
		l.index.ReplaceOrInsert(o)
	}
	return l
}

func (l *Lookup) Options() []Option {
	return append([]Option{}, l.options...)
}

func (l *Lookup) Len() int {
	return len(l.options)
}

func (l *Lookup) Label(value string) (string, bool) {
	o, found := l.index.Get(Option{Value: value})
	if !found {
		return "", false
	}
	return o.Label, true
}

// Cache maps related collection names to label tables.
type Cache interface {
	Get(related string) (*Lookup, bool)
	Set(related string, lookup *Lookup)
	Invalidate(related string)
}

type MemoryCache struct {
	mutex   sync.RWMutex
	lookups map[string]*Lookup
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		lookups: map[string]*Lookup{},
	}
}

func (c *MemoryCache) Get(related string) (*Lookup, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	l, ok := c.lookups[related]
	return l, ok
}

func (c *MemoryCache) Set(related string, lookup *Lookup) {
	c.mutex.Lock()
	c.lookups[related] = lookup
	c.mutex.Unlock()
}

func (c *MemoryCache) Invalidate(related string) {
	c.mutex.Lock()
	delete(c.lookups, related)
	c.mutex.Unlock()
}
