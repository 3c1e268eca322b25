package apigridv1

import (
	"github.com/fulldump/box"
)

func BuildV1Grid(v1 *box.R) *box.R {

	v1.Resource("/collections").
		WithActions(
			box.Get(listCollections).WithName("listCollections"),
			box.Action(countCollections).WithName("counts"),
		)

	v1.Resource("/collections/{collectionName}").
		WithActions(
			box.ActionPost(loadCollection).WithName("load"),
		)

	v1.Resource("/reports").
		WithActions(
			box.Get(listReports).WithName("listReports"),
		)

	v1.Resource("/reports/{reportName}").
		WithActions(
			box.ActionPost(loadReport).WithName("load"),
		)

	v1.Resource("/lookups/{collectionName}").
		WithActions(
			box.Get(getLookup).WithName("getLookup"),
		)

	g := v1.Resource("/grid").
		WithActions(
			box.Get(getGrid).WithName("getGrid"),
			box.ActionPost(reload).WithName("reload"),
			box.ActionPost(setSearch).WithName("search"),
			box.ActionPost(setFilter).WithName("filter"),
			box.ActionPost(setPage).WithName("page"),
			box.ActionPost(setColumns).WithName("columns"),
			box.Action(export).WithName("export"),
			box.Action(form).WithName("form"),
			box.ActionPost(create).WithName("create"),
			box.ActionPost(update).WithName("update"),
			box.ActionPost(remove).WithName("delete"),
			box.Action(notices).WithName("notices"),
		)

	return g
}
