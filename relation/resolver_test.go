package relation

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fulldump/biff"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/fulldump/gridadmin/record"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var brands = []record.Record{
	{"_id": record.String("64b7f0c2a1b2c3d4e5f60718"), "name": record.String("Nike")},
	{"_id": record.String("64b7f0c2a1b2c3d4e5f60719"), "username": record.String("adidas")},
	{"id": record.Number(7), "email": record.String("puma@example.com")},
	{"_id": record.String("abcdef0123456789")},
	{"name": record.String("no identity")},
}

func countingFetcher(calls *int32, records []record.Record) Fetcher {
	return FetcherFunc(func(ctx context.Context, related string) ([]record.Record, error) {
		atomic.AddInt32(calls, 1)
		return records, nil
	})
}

func TestResolver_Resolve(t *testing.T) {

	calls := int32(0)
	r := NewResolver(countingFetcher(&calls, brands), nil, zap.NewNop())

	options := r.Resolve(context.Background(), "brands")
	want := []Option{
		{Value: "64b7f0c2a1b2c3d4e5f60718", Label: "Nike"},
		{Value: "64b7f0c2a1b2c3d4e5f60719", Label: "adidas"},
		{Value: "7", Label: "puma@example.com"},
		{Value: "abcdef0123456789", Label: "abcdef01"},
	}
	if diff := cmp.Diff(want, options); diff != "" {
		t.Errorf("options mismatch (-want +got):\n%s", diff)
	}

	r.Resolve(context.Background(), "brands")
	biff.AssertEqual(atomic.LoadInt32(&calls), int32(1))
}

func TestResolver_Label(t *testing.T) {

	calls := int32(0)
	r := NewResolver(countingFetcher(&calls, brands), nil, zap.NewNop())

	biff.AssertEqual(r.Label(context.Background(), "brands", "64b7f0c2a1b2c3d4e5f60718"), "Nike")
	biff.AssertEqual(r.Label(context.Background(), "brands", "missing"), "missing")
}

func TestResolver_LabelFields(t *testing.T) {

	calls := int32(0)
	r := NewResolver(countingFetcher(&calls, []record.Record{
		{"_id": record.String("1"), "name": record.String("Nike"), "country": record.String("US")},
	}), nil, zap.NewNop()).WithLabelFields([]string{"country"})

	biff.AssertEqual(r.Label(context.Background(), "brands", "1"), "US")
}

func TestResolver_Concurrent(t *testing.T) {

	calls := int32(0)
	release := make(chan struct{})
	fetcher := FetcherFunc(func(ctx context.Context, related string) ([]record.Record, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return brands, nil
	})
	r := NewResolver(fetcher, nil, zap.NewNop())

	results := make([][]Option, 2)
	wg := sync.WaitGroup{}
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = r.Resolve(context.Background(), "brands")
		}(i)
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	biff.AssertEqual(atomic.LoadInt32(&calls), int32(1))
	biff.AssertEqual(results[0], results[1])
	biff.AssertEqual(len(results[0]), 4)
}

func TestResolver_Failure(t *testing.T) {

	calls := int32(0)
	fetcher := FetcherFunc(func(ctx context.Context, related string) ([]record.Record, error) {
		atomic.AddInt32(&calls, 1)
		return nil, errors.New("connection refused")
	})
	r := NewResolver(fetcher, nil, zap.NewNop())

	failures := []string{}
	r.OnFailure(func(related string, err error) {
		failures = append(failures, related+": "+err.Error())
	})

	biff.AssertEqual(len(r.Resolve(context.Background(), "users")), 0)
	biff.AssertEqual(len(r.Resolve(context.Background(), "users")), 0)
	biff.AssertEqual(r.Label(context.Background(), "users", "42"), "42")

	biff.AssertEqual(atomic.LoadInt32(&calls), int32(1))
	biff.AssertEqual(failures, []string{"users: connection refused"})
}

func TestResolver_Invalidate(t *testing.T) {

	calls := int32(0)
	current := []record.Record{{"_id": record.String("1"), "name": record.String("Nike")}}
	fetcher := FetcherFunc(func(ctx context.Context, related string) ([]record.Record, error) {
		atomic.AddInt32(&calls, 1)
		return current, nil
	})
	r := NewResolver(fetcher, nil, zap.NewNop())

	biff.AssertEqual(len(r.Resolve(context.Background(), "brands")), 1)

	current = append(current, record.Record{"_id": record.String("2"), "name": record.String("Puma")})
	biff.AssertEqual(len(r.Resolve(context.Background(), "brands")), 1)

	r.Invalidate("brands")
	biff.AssertEqual(len(r.Resolve(context.Background(), "brands")), 2)
	biff.AssertEqual(atomic.LoadInt32(&calls), int32(2))
}

func TestResolver_InvalidateDuringFetch(t *testing.T) {

	mutex := sync.Mutex{}
	current := []record.Record{{"_id": record.String("1"), "name": record.String("Nike")}}
	started := make(chan struct{})
	release := make(chan struct{})
	first := int32(1)
	fetcher := FetcherFunc(func(ctx context.Context, related string) ([]record.Record, error) {
		mutex.Lock()
		snapshot := append([]record.Record{}, current...)
		mutex.Unlock()
		if atomic.CompareAndSwapInt32(&first, 1, 0) {
			close(started)
			<-release
		}
		return snapshot, nil
	})
	r := NewResolver(fetcher, nil, zap.NewNop())

	done := make(chan []Option)
	go func() {
		done <- r.Resolve(context.Background(), "brands")
	}()
	<-started

	mutex.Lock()
	current = append(current, record.Record{"_id": record.String("2"), "name": record.String("Puma")})
	mutex.Unlock()
	r.Invalidate("brands")

	close(release)
	biff.AssertEqual(len(<-done), 1)

	biff.AssertEqual(len(r.Resolve(context.Background(), "brands")), 2)
	biff.AssertEqual(r.Label(context.Background(), "brands", "2"), "Puma")
}

func TestLookup_DuplicateValues(t *testing.T) {

	l := NewLookup([]Option{
		{Value: "1", Label: "first"},
		{Value: "1", Label: "second"},
	})

	label, found := l.Label("1")
	biff.AssertTrue(found)
	biff.AssertEqual(label, "first")
	biff.AssertEqual(l.Len(), 2)
}
