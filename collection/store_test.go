package collection

import (
	"context"
	"errors"
	"testing"

	"github.com/fulldump/biff"

	"github.com/fulldump/gridadmin/record"
	"github.com/fulldump/gridadmin/source"
)

func TestStore(t *testing.T) {

	biff.Alternative("Store", func(a *biff.A) {

		dir := t.TempDir()
		s := NewStore(dir, nil)
		biff.AssertNil(s.Load())
		defer s.Close()

		ctx := context.Background()

		id, err := s.Create(ctx, "brands", map[string]any{"name": "Nike", "country": "US"})
		biff.AssertNil(err)

		a.Alternative("List", func(a *biff.A) {
			batch, err := s.List(ctx, "brands")
			biff.AssertNil(err)
			biff.AssertEqual(len(batch), 1)
			biff.AssertEqual(batch[0].ID(), record.String(id))
			biff.AssertEqual(batch[0]["name"], record.String("Nike"))
		})

		a.Alternative("Empty collection", func(a *biff.A) {
			batch, err := s.List(ctx, "sales")
			biff.AssertNil(err)
			biff.AssertEqual(len(batch), 0)
		})

		a.Alternative("Update and get", func(a *biff.A) {
			biff.AssertNil(s.Update(ctx, "brands", id, map[string]any{"founded": 1964}))
			r, err := s.Get(ctx, "brands", id)
			biff.AssertNil(err)
			biff.AssertEqual(r["founded"], record.Number(1964))
		})

		a.Alternative("Delete", func(a *biff.A) {
			biff.AssertNil(s.Delete(ctx, "brands", id))
			_, err := s.Get(ctx, "brands", id)
			biff.AssertTrue(errors.Is(err, source.ErrNotFound))
		})

		a.Alternative("Missing record", func(a *biff.A) {
			err := s.Update(ctx, "brands", "ghost", map[string]any{"a": 1})
			biff.AssertTrue(errors.Is(err, source.ErrNotFound))
		})

		a.Alternative("Reports are not supported", func(a *biff.A) {
			_, err := s.List(ctx, "reports/top-brands")
			biff.AssertTrue(errors.Is(err, source.ErrUnsupported))
		})

		a.Alternative("Invalid names", func(a *biff.A) {
			_, err := s.List(ctx, "../etc/passwd")
			biff.AssertTrue(errors.Is(err, source.ErrUnsupported))
		})

		a.Alternative("Persisted across stores", func(a *biff.A) {
			biff.AssertNil(s.Close())

			reopened := NewStore(dir, nil)
			biff.AssertNil(reopened.Load())
			defer reopened.Close()

			r, err := reopened.Get(ctx, "brands", id)
			biff.AssertNil(err)
			biff.AssertEqual(r["country"], record.String("US"))
		})
	})
}
