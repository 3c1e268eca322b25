package apigridv1

import (
	"context"

	"github.com/fulldump/box"

	"github.com/fulldump/gridadmin/grid"
)

func loadReport(ctx context.Context) (*grid.View, error) {

	e := getEngine(ctx)
	reportName := box.GetUrlParameter(ctx, "reportName")

	err := e.LoadReport(ctx, reportName)
	if err != nil {
		return nil, err
	}

	v := e.View(ctx)
	return &v, nil
}
