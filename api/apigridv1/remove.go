package apigridv1

import (
	"context"

	"github.com/fulldump/gridadmin/grid"
)

type removeInput struct {
	ID string `json:"id"`
}

func remove(ctx context.Context, input *removeInput) (*grid.View, error) {

	e := getEngine(ctx)

	err := e.Delete(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	v := e.View(ctx)
	return &v, nil
}
