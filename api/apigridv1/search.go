package apigridv1

import (
	"context"

	"github.com/fulldump/gridadmin/grid"
)

type searchInput struct {
	Text string `json:"text"`
}

func setSearch(ctx context.Context, input *searchInput) *grid.View {
	e := getEngine(ctx)
	e.SetSearch(input.Text)
	v := e.View(ctx)
	return &v
}
