package collection

import (
	"fmt"
	"sync"
)

// Index is the unique `_id` index of a collection.
type Index struct {
	Entries map[string]*Row
	RWmutex *sync.RWMutex
}

func NewIndex() *Index {
	return &Index{
		Entries: map[string]*Row{},
		RWmutex: &sync.RWMutex{},
	}
}

func (i *Index) Get(id string) (*Row, bool) {
	i.RWmutex.RLock()
	defer i.RWmutex.RUnlock()
	row, ok := i.Entries[id]
	return row, ok
}

func (i *Index) Add(row *Row) error {
	i.RWmutex.Lock()
	defer i.RWmutex.Unlock()
	if _, exists := i.Entries[row.ID]; exists {
		return fmt.Errorf("index conflict: _id '%s'", row.ID)
	}
	i.Entries[row.ID] = row
	return nil
}

func (i *Index) Remove(row *Row) {
	i.RWmutex.Lock()
	delete(i.Entries, row.ID)
	i.RWmutex.Unlock()
}
