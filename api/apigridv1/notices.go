package apigridv1

import (
	"context"

	"github.com/fulldump/gridadmin/grid"
)

// notices drains the pending notices of the session.
func notices(ctx context.Context) []grid.Notice {
	return getEngine(ctx).Notices()
}
