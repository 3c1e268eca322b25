package apigridv1

import (
	"context"

	"github.com/fulldump/box"

	"github.com/fulldump/gridadmin/relation"
)

// getLookup returns the options of a related collection.
func getLookup(ctx context.Context) ([]relation.Option, error) {

	s := GetServicer(ctx)
	collectionName := box.GetUrlParameter(ctx, "collectionName")

	_, err := s.Catalog().Collection(collectionName)
	if err != nil {
		return nil, err
	}

	return s.Resolver().Resolve(ctx, collectionName), nil
}
