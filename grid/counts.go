package grid

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Count struct {
	Name  string `json:"name"`
	Title string `json:"title"`
	Count int    `json:"count"`
}

// Counts returns the number of records of every catalog collection. A
// collection that can not be listed counts 0.
func (e *Engine) Counts(ctx context.Context) []Count {

	collections := e.catalog.Collections
	counts := make([]Count, len(collections))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, d := range collections {
		counts[i] = Count{Name: d.Name, Title: d.Title}
		g.Go(func() error {
			batch, err := e.source.List(ctx, d.Endpoint)
			if err != nil {
				e.logger.Warn("count failure", zap.String("collection", d.Name), zap.Error(err))
				return nil
			}
			counts[i].Count = len(batch)
			return nil
		})
	}
	g.Wait()

	return counts
}
