package apigridv1

import (
	"context"

	"github.com/fulldump/box"

	"github.com/fulldump/gridadmin/grid"
)

func loadCollection(ctx context.Context) (*grid.View, error) {

	e := getEngine(ctx)
	collectionName := box.GetUrlParameter(ctx, "collectionName")

	err := e.LoadCollection(ctx, collectionName)
	if err != nil {
		return nil, err
	}

	v := e.View(ctx)
	return &v, nil
}
