package apigridv1

import (
	"context"

	"github.com/fulldump/gridadmin/grid"
)

func countCollections(ctx context.Context) []grid.Count {
	return getEngine(ctx).Counts(ctx)
}
