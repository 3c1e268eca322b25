package apigridv1

import (
	"context"
	"net/http"

	"github.com/fulldump/gridadmin/grid"
)

// form describes the create form, or the edit form when ?id= is given.
func form(ctx context.Context, r *http.Request) (*grid.Form, error) {

	f, err := getEngine(ctx).Form(ctx, r.URL.Query().Get("id"))
	if err != nil {
		return nil, err
	}

	return &f, nil
}
