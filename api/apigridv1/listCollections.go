package apigridv1

import (
	"context"

	"github.com/fulldump/gridadmin/catalog"
)

func listCollections(ctx context.Context) []*catalog.Descriptor {
	return GetServicer(ctx).Catalog().Collections
}
