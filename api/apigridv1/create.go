package apigridv1

import (
	"context"
	"net/http"

	"github.com/fulldump/gridadmin/grid"
)

type createOutput struct {
	ID   string     `json:"id"`
	View *grid.View `json:"view"`
}

// create inserts the body as a new record of the active collection.
func create(ctx context.Context, w http.ResponseWriter, fields map[string]any) (*createOutput, error) {

	e := getEngine(ctx)

	id, err := e.Create(ctx, fields)
	if err != nil {
		return nil, err
	}

	v := e.View(ctx)
	w.WriteHeader(http.StatusCreated)
	return &createOutput{ID: id, View: &v}, nil
}
