package api

import (
	"context"
	stdjson "encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/fulldump/box"
	"github.com/go-json-experiment/json"

	"github.com/fulldump/gridadmin/catalog"
	"github.com/fulldump/gridadmin/database"
	"github.com/fulldump/gridadmin/grid"
	"github.com/fulldump/gridadmin/source"
)

type PrettyError struct {
	Message     string `json:"message"`
	Description string `json:"description"`
}

func (p PrettyError) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"error": struct {
			Message     string `json:"message"`
			Description string `json:"description"`
		}{
			p.Message,
			p.Description,
		},
	})
}

func (p PrettyError) MarshalTo(w io.Writer) error {
	return json.MarshalWrite(w, p)
}

// InterceptorUnavailable answers 503 while the database is not operating.
func InterceptorUnavailable(db *database.Database) box.I {
	return func(next box.H) box.H {
		return func(ctx context.Context) {

			status := db.GetStatus()
			if status != database.StatusOperating {
				box.SetError(ctx, fmt.Errorf("%w: %s", source.ErrUnavailable, status))
				return
			}
			next(ctx)
		}
	}
}

// describeError picks the status code and description of a handler error.
func describeError(ctx context.Context, err error) (int, string) {

	var syntaxError *stdjson.SyntaxError
	var typeError *stdjson.UnmarshalTypeError

	switch {
	case errors.Is(err, box.ErrResourceNotFound):
		return http.StatusNotFound, fmt.Sprintf("resource '%s' not found", box.GetRequest(ctx).URL.String())
	case errors.Is(err, box.ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed, fmt.Sprintf("method '%s' not allowed", box.GetRequest(ctx).Method)
	case errors.Is(err, catalog.ErrUnknownCollection),
		errors.Is(err, catalog.ErrUnknownReport),
		errors.Is(err, source.ErrNotFound):
		return http.StatusNotFound, "Not found"
	case errors.As(err, &syntaxError), errors.As(err, &typeError):
		return http.StatusBadRequest, "Malformed JSON"
	case errors.Is(err, io.EOF):
		return http.StatusBadRequest, "Missing body"
	case errors.Is(err, grid.ErrNoActiveCollection),
		errors.Is(err, grid.ErrNothingLoaded),
		errors.Is(err, grid.ErrEmptyID):
		return http.StatusBadRequest, "Invalid grid state"
	case errors.Is(err, source.ErrUnsupported):
		return http.StatusNotImplemented, "Not supported by the backend"
	case errors.Is(err, source.ErrUnavailable):
		return http.StatusServiceUnavailable, "Temporary unavailable"
	}

	return http.StatusInternalServerError, "Unexpected error"
}

func PrettyErrorInterceptor(next box.H) box.H {
	return func(ctx context.Context) {

		next(ctx)

		err := box.GetError(ctx)
		if err == nil {
			return
		}

		status, description := describeError(ctx, err)

		w := box.GetResponse(ctx)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		PrettyError{
			Message:     err.Error(),
			Description: description,
		}.MarshalTo(w)
	}
}
