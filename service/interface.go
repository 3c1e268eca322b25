package service

import (
	"github.com/fulldump/gridadmin/catalog"
	"github.com/fulldump/gridadmin/grid"
	"github.com/fulldump/gridadmin/relation"
)

type Servicer interface {
	Catalog() *catalog.Catalog
	Session(id string) *grid.Engine
	Resolver() *relation.Resolver
}
