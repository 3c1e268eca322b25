package apigridv1

import (
	"context"

	"github.com/fulldump/gridadmin/filter"
	"github.com/fulldump/gridadmin/grid"
)

type filterInput struct {
	Conditions filter.Conditions `json:"conditions"`
}

// setFilter replaces every condition. An empty set clears them.
func setFilter(ctx context.Context, input *filterInput) *grid.View {
	e := getEngine(ctx)
	e.SetConditions(input.Conditions)
	v := e.View(ctx)
	return &v
}
