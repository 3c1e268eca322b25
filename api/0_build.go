package api

import (
	"context"
	"net/http"

	"github.com/fulldump/box"
	"github.com/fulldump/box/boxopenapi"

	"github.com/fulldump/gridadmin/api/apigridv1"
	"github.com/fulldump/gridadmin/service"
	"github.com/fulldump/gridadmin/statics"
)

func Build(s service.Servicer, staticsDir, version string) *box.B {

	b := box.NewBox()

	v1 := b.Resource("/v1").
		WithInterceptors(
			box.SetResponseHeader("Content-Type", "application/json"),
			injectServicer(s),
		)
	apigridv1.BuildV1Grid(v1)

	b.Resource("/release").
		WithActions(box.Get(func() string {
			return version
		}).WithName("release"))

	spec := boxopenapi.Spec(b)
	spec.Info.Title = "gridadmin"
	spec.Info.Description = "Generic admin grid over document collections."
	spec.Info.Version = version
	b.Resource("/openapi.json").
		WithActions(box.Get(func(r *http.Request) any {
			spec.Servers = []boxopenapi.Server{
				{Url: "https://" + r.Host},
				{Url: "http://" + r.Host},
			}
			return spec
		}).WithName("openapi"))

	// Mount statics
	b.Resource("/*").
		WithActions(
			box.Get(statics.ServeStatics(staticsDir)).WithName("serveStatics"),
		)

	return b
}

func injectServicer(s service.Servicer) box.I {
	return func(next box.H) box.H {
		return func(ctx context.Context) {
			next(apigridv1.SetServicer(ctx, s))
		}
	}
}
