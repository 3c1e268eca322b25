package grid

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/fulldump/gridadmin/catalog"
	"github.com/fulldump/gridadmin/record"
	"github.com/fulldump/gridadmin/source"
)

// fakeSource keeps collections in memory. Endpoints listed in failing
// return an error, endpoints in gates wait until their channel is closed.
type fakeSource struct {
	mutex   sync.Mutex
	data    map[string][]record.Record
	failing map[string]error
	gates   map[string]chan struct{}
	lists   map[string]int
	created []map[string]any
	updated []map[string]any
	nextID  int
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		data: map[string][]record.Record{
			"brands": {
				{"_id": record.String("b1"), "name": record.String("Nike"), "country": record.String("US"), "founded": record.Number(1964)},
				{"_id": record.String("b2"), "name": record.String("Adidas"), "country": record.String("DE"), "founded": record.Number(1949)},
			},
			"products": {
				{"_id": record.String("p1"), "name": record.String("Air Max"), "brand_id": record.String("b1"), "price": record.Number(10), "stock": record.Number(5)},
				{"_id": record.String("p2"), "name": record.String("Ultraboost"), "brand_id": record.String("b2"), "price": record.Number(99.99), "stock": record.Number(3)},
				{"_id": record.String("p3"), "name": record.String("Mystery"), "brand_id": record.String("b9"), "price": record.Number(50)},
			},
			"users": {},
			"sales": {},
			"reviews": {},
			"reports/top-brands": {
				{"brand_id": record.String("b1"), "name": record.String("Nike"), "total_sales": record.Number(7)},
			},
		},
		failing: map[string]error{},
		gates:   map[string]chan struct{}{},
		lists:   map[string]int{},
	}
}

func (f *fakeSource) List(ctx context.Context, endpoint string) ([]record.Record, error) {
	f.mutex.Lock()
	gate := f.gates[endpoint]
	f.lists[endpoint]++
	f.mutex.Unlock()

	if gate != nil {
		<-gate
	}

	f.mutex.Lock()
	defer f.mutex.Unlock()
	if err := f.failing[endpoint]; err != nil {
		return nil, err
	}
	batch, ok := f.data[endpoint]
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", source.ErrNotFound, endpoint)
	}
	return append([]record.Record{}, batch...), nil
}

func (f *fakeSource) Get(ctx context.Context, endpoint, id string) (record.Record, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	for _, r := range f.data[endpoint] {
		if r.ID().Text() == id {
			return r, nil
		}
	}
	return nil, source.ErrNotFound
}

func (f *fakeSource) Create(ctx context.Context, endpoint string, payload map[string]any) (string, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	if err := f.failing["create"]; err != nil {
		return "", err
	}
	f.nextID++
	id := fmt.Sprintf("new%d", f.nextID)
	r := record.Normalize(payload)
	r["_id"] = record.String(id)
	f.data[endpoint] = append(f.data[endpoint], r)
	f.created = append(f.created, payload)
	return id, nil
}

func (f *fakeSource) Update(ctx context.Context, endpoint, id string, payload map[string]any) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	for _, r := range f.data[endpoint] {
		if r.ID().Text() == id {
			for k, v := range record.Normalize(payload) {
				r[k] = v
			}
			f.updated = append(f.updated, payload)
			return nil
		}
	}
	return source.ErrNotFound
}

func (f *fakeSource) Delete(ctx context.Context, endpoint, id string) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	batch := f.data[endpoint]
	for i, r := range batch {
		if r.ID().Text() == id {
			f.data[endpoint] = append(batch[:i:i], batch[i+1:]...)
			return nil
		}
	}
	return source.ErrNotFound
}

func (f *fakeSource) fail(endpoint string, err error) {
	f.mutex.Lock()
	f.failing[endpoint] = err
	f.mutex.Unlock()
}

func (f *fakeSource) gate(endpoint string) chan struct{} {
	gate := make(chan struct{})
	f.mutex.Lock()
	f.gates[endpoint] = gate
	f.mutex.Unlock()
	return gate
}

func (f *fakeSource) listCount(endpoint string) int {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.lists[endpoint]
}

var errBoom = errors.New("boom")

func newTestEngine(s *fakeSource) *Engine {
	return NewEngine(Deps{
		Catalog: catalog.Default(),
		Source:  s,
	})
}
