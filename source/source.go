package source

import (
	"context"
	"errors"

	"github.com/fulldump/gridadmin/record"
)

var ErrNotFound = errors.New("not found")
var ErrUnsupported = errors.New("unsupported endpoint")
var ErrUnavailable = errors.New("backend unavailable")

// Lister fetches every record behind an endpoint (a collection name or
// `reports/<name>`).
type Lister interface {
	List(ctx context.Context, endpoint string) ([]record.Record, error)
}

// Source is the CRUD collaborator of the grid.
type Source interface {
	Lister
	Get(ctx context.Context, endpoint, id string) (record.Record, error)
	// Create stores payload and returns the identity of the new record.
	Create(ctx context.Context, endpoint string, payload map[string]any) (string, error)
	Update(ctx context.Context, endpoint, id string, payload map[string]any) error
	Delete(ctx context.Context, endpoint, id string) error
}
