package api

import (
	"net/http"
	"testing"

	"github.com/fulldump/apitest"
	"github.com/fulldump/biff"

	"github.com/fulldump/gridadmin/catalog"
	"github.com/fulldump/gridadmin/database"
	"github.com/fulldump/gridadmin/service"
)

func TestAcceptance(t *testing.T) {

	biff.Alternative("Setup", func(a *biff.A) {

		db := database.NewDatabase(&database.Config{
			Dir:  t.TempDir(),
			Seed: true,
		}, nil)

		biff.AssertNil(db.Load())
		biff.AssertEqual(db.GetStatus(), database.StatusOperating)

		s := service.NewService(catalog.Default(), db, nil, nil)

		b := Build(s, "", "test")
		b.WithInterceptors(
			PrettyErrorInterceptor,
			InterceptorUnavailable(db),
			RecoverFromPanic,
		)

		api := apitest.NewWithHandler(b)

		a.Alternative("Release", func(a *biff.A) {
			resp := api.Request("GET", "/release").Do()
			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqual(resp.BodyJson(), "test")
		})

		a.Alternative("Closing database", func(a *biff.A) {
			biff.AssertNil(db.Stop())

			resp := api.Request("GET", "/v1/grid").Do()
			biff.AssertEqual(resp.StatusCode, http.StatusServiceUnavailable)
			biff.AssertEqualJson(resp.BodyJson(), map[string]any{
				"error": map[string]any{
					"message":     "backend unavailable: closing",
					"description": "Temporary unavailable",
				},
			})
		})

		service.Acceptance(a, func(method, path string) *apitest.Request {
			return api.Request(method, "/v1"+path)
		})

	})
}
