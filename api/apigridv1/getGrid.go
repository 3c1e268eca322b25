package apigridv1

import (
	"context"

	"github.com/fulldump/gridadmin/grid"
)

func getGrid(ctx context.Context) *grid.View {
	v := getEngine(ctx).View(ctx)
	return &v
}

func reload(ctx context.Context) (*grid.View, error) {

	e := getEngine(ctx)
	err := e.Reload(ctx)
	if err != nil {
		return nil, err
	}

	v := e.View(ctx)
	return &v, nil
}
