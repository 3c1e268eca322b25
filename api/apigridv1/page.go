package apigridv1

import (
	"context"

	"github.com/fulldump/gridadmin/grid"
)

type pageInput struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// setPage changes the page size (back to the first page) when given, then
// moves to the requested page.
func setPage(ctx context.Context, input *pageInput) *grid.View {
	e := getEngine(ctx)
	if input.PageSize != 0 {
		e.SetPageSize(input.PageSize)
	}
	if input.Page != 0 {
		e.SetPage(input.Page)
	}
	v := e.View(ctx)
	return &v
}
