package apigridv1

import (
	"context"

	"github.com/fulldump/gridadmin/grid"
)

type updateInput struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

func update(ctx context.Context, input *updateInput) (*grid.View, error) {

	e := getEngine(ctx)

	err := e.Update(ctx, input.ID, input.Fields)
	if err != nil {
		return nil, err
	}

	v := e.View(ctx)
	return &v, nil
}
