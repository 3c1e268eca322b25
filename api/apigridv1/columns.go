package apigridv1

import (
	"context"

	"github.com/fulldump/gridadmin/grid"
)

type columnsInput struct {
	Visible []string `json:"visible"`
	All     bool     `json:"all"`
	None    bool     `json:"none"`
}

func setColumns(ctx context.Context, input *columnsInput) (*grid.View, error) {

	e := getEngine(ctx)

	var err error
	switch {
	case input.All:
		err = e.ShowAllColumns()
	case input.None:
		err = e.HideAllColumns()
	default:
		err = e.SetVisibleColumns(input.Visible)
	}
	if err != nil {
		return nil, err
	}

	v := e.View(ctx)
	return &v, nil
}
