package service

import (
	"net/http"
	"strings"

	"github.com/fulldump/apitest"
	"github.com/fulldump/biff"
)

type JSON = map[string]interface{}

// column returns the display values of a column in the rows of a view
// response.
func column(view JSON, name string) []string {
	result := []string{}
	rows, _ := view["rows"].([]interface{})
	for _, row := range rows {
		cells, _ := row.(JSON)["cells"].([]interface{})
		for _, cell := range cells {
			c := cell.(JSON)
			if c["column"] == name {
				result = append(result, c["display"].(string))
			}
		}
	}
	return result
}

func noticeKinds(body interface{}) []string {
	result := []string{}
	items, _ := body.([]interface{})
	for _, item := range items {
		result = append(result, item.(JSON)["kind"].(string))
	}
	return result
}

// Acceptance runs the grid API against a backend seeded with the sample
// clothing store data set.
func Acceptance(a *biff.A, apiRequest func(method, path string) *apitest.Request) {

	a.Alternative("List collections", func(a *biff.A) {
		resp := apiRequest("GET", "/collections").Do()
		Save(resp, "List collections", ``)

		biff.AssertEqual(resp.StatusCode, http.StatusOK)
		names := []string{}
		for _, item := range resp.BodyJson().([]interface{}) {
			names = append(names, item.(JSON)["name"].(string))
		}
		biff.AssertEqual(names, []string{"brands", "products", "users", "sales", "reviews"})
	})

	a.Alternative("Count collections", func(a *biff.A) {
		resp := apiRequest("GET", "/collections:counts").Do()
		Save(resp, "Count collections", ``)

		biff.AssertEqual(resp.StatusCode, http.StatusOK)
		biff.AssertEqualJson(resp.BodyJson(), []JSON{
			{"name": "brands", "title": "Brands", "count": 5},
			{"name": "products", "title": "Products", "count": 5},
			{"name": "users", "title": "Users", "count": 5},
			{"name": "sales", "title": "Sales", "count": 5},
			{"name": "reviews", "title": "Reviews", "count": 5},
		})
	})

	a.Alternative("List reports", func(a *biff.A) {
		resp := apiRequest("GET", "/reports").Do()
		Save(resp, "List reports", ``)

		biff.AssertEqual(resp.StatusCode, http.StatusOK)
		biff.AssertEqual(len(resp.BodyJson().([]interface{})), 5)
	})

	a.Alternative("Empty grid", func(a *biff.A) {
		resp := apiRequest("GET", "/grid").Do()

		biff.AssertEqual(resp.StatusCode, http.StatusOK)
		view := resp.BodyJson().(JSON)
		biff.AssertEqual(view["loaded"], false)
		biff.AssertEqual(view["rows"], []interface{}{})

		a.Alternative("Form without active collection", func(a *biff.A) {
			resp := apiRequest("GET", "/grid:form").Do()
			Save(resp, "Form - no active collection", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
			biff.AssertEqualJson(resp.BodyJson(), JSON{
				"error": JSON{
					"message":     "no active collection",
					"description": "Invalid grid state",
				},
			})
		})

		a.Alternative("Export without data", func(a *biff.A) {
			resp := apiRequest("GET", "/grid:export").Do()
			biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
		})
	})

	a.Alternative("Load unknown collection", func(a *biff.A) {
		resp := apiRequest("POST", "/collections/ghosts:load").Do()
		Save(resp, "Load collection - not found", ``)

		biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
		biff.AssertEqual(resp.BodyJson().(JSON)["error"].(JSON)["message"], "unknown collection 'ghosts'")
	})

	a.Alternative("Lookup brands", func(a *biff.A) {
		resp := apiRequest("GET", "/lookups/brands").Do()
		Save(resp, "Lookup", `
			Options of a related collection, in the order the backend returns them.
		`)

		biff.AssertEqual(resp.StatusCode, http.StatusOK)
		labels := []string{}
		for _, item := range resp.BodyJson().([]interface{}) {
			labels = append(labels, item.(JSON)["label"].(string))
		}
		biff.AssertEqual(labels, []string{"Nike", "Adidas", "Puma", "Under Armour", "Reebok"})

		a.Alternative("Lookup unknown collection", func(a *biff.A) {
			resp := apiRequest("GET", "/lookups/ghosts").Do()
			biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
		})
	})

	a.Alternative("Load report", func(a *biff.A) {
		resp := apiRequest("POST", "/reports/top-brands:load").Do()
		Save(resp, "Load report", ``)

		biff.AssertEqual(resp.StatusCode, http.StatusOK)
		view := resp.BodyJson().(JSON)
		biff.AssertEqual(view["kind"], "report")
		biff.AssertEqual(view["active"], "")
		biff.AssertEqual(column(view, "name"), []string{"Puma", "Nike", "Reebok", "Adidas", "Under Armour"})
		biff.AssertEqual(column(view, "total_sales"), []string{"7", "5", "4", "3", "2"})
	})

	a.Alternative("Load products", func(a *biff.A) {
		resp := apiRequest("POST", "/collections/products:load").Do()
		Save(resp, "Load collection", `
			Makes the collection active and returns the first page of the grid.
			Foreign keys are displayed with the label of the related record.
		`)

		biff.AssertEqual(resp.StatusCode, http.StatusOK)
		view := resp.BodyJson().(JSON)
		biff.AssertEqual(view["active"], "products")
		biff.AssertEqualJson(view["columns"], []string{"_id", "name", "brand_id", "category", "price", "stock"})
		biff.AssertEqual(column(view, "brand_id"), []string{"Nike", "Adidas", "Puma", "Under Armour", "Reebok"})
		biff.AssertEqual(view["page"].(JSON)["info"], "1-5 of 5")

		a.Alternative("Search", func(a *biff.A) {
			resp := apiRequest("POST", "/grid:search").
				WithBodyJson(JSON{"text": "BOOST"}).Do()
			Save(resp, "Search", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqual(column(resp.BodyJson().(JSON), "name"), []string{"Ultraboost"})
		})

		a.Alternative("Search without body", func(a *biff.A) {
			resp := apiRequest("POST", "/grid:search").Do()
			biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
		})

		a.Alternative("Filter by price", func(a *biff.A) {
			resp := apiRequest("POST", "/grid:filter").
				WithBodyJson(JSON{"conditions": JSON{"price": JSON{"min": "100"}}}).Do()
			Save(resp, "Filter", `
				Range conditions compare numbers or dates, contains conditions
				compare text. An empty set of conditions clears the filters.
			`)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqual(column(resp.BodyJson().(JSON), "name"), []string{"Air Max", "Ultraboost", "Nano 9"})

			a.Alternative("Clear filters", func(a *biff.A) {
				resp := apiRequest("POST", "/grid:filter").
					WithBodyJson(JSON{"conditions": JSON{}}).Do()
				biff.AssertEqual(len(column(resp.BodyJson().(JSON), "name")), 5)
			})
		})

		a.Alternative("Change page size", func(a *biff.A) {
			resp := apiRequest("POST", "/grid:page").
				WithBodyJson(JSON{"page_size": 10}).Do()
			Save(resp, "Page", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson().(JSON)["page"].(JSON)["page_size"], 10)

			a.Alternative("Unknown page size", func(a *biff.A) {
				resp := apiRequest("POST", "/grid:page").
					WithBodyJson(JSON{"page_size": 7, "page": 3}).Do()
				page := resp.BodyJson().(JSON)["page"].(JSON)
				biff.AssertEqualJson(page["page_size"], 5)
				biff.AssertEqualJson(page["page"], 1)
			})
		})

		a.Alternative("Choose columns", func(a *biff.A) {
			resp := apiRequest("POST", "/grid:columns").
				WithBodyJson(JSON{"visible": []string{"price", "name"}}).Do()
			Save(resp, "Columns", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson().(JSON)["visible"], []string{"name", "price"})

			a.Alternative("Export", func(a *biff.A) {
				resp := apiRequest("GET", "/grid:export").Do()
				Save(resp, "Export CSV", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertTrue(strings.HasPrefix(resp.Header.Get("Content-Type"), "text/csv"))
				biff.AssertEqual(resp.Header.Get("Content-Disposition"), `attachment; filename="products.csv"`)
				biff.AssertEqual(resp.BodyString(), strings.Join([]string{
					`"name","price"`,
					`"Air Max","120"`,
					`"Ultraboost","150"`,
					`"Suede Classic","80"`,
					`"Charged Assert","90"`,
					`"Nano 9","110"`,
				}, "\n"))
			})

			a.Alternative("Show all columns", func(a *biff.A) {
				resp := apiRequest("POST", "/grid:columns").
					WithBodyJson(JSON{"all": true}).Do()
				biff.AssertEqual(len(resp.BodyJson().(JSON)["visible"].([]interface{})), 6)
			})

			a.Alternative("Other session shares visibility", func(a *biff.A) {
				resp := apiRequest("POST", "/collections/products:load").
					WithHeader("X-Session-Id", "other").Do()
				biff.AssertEqualJson(resp.BodyJson().(JSON)["visible"], []string{"name", "price"})
			})
		})

		a.Alternative("Other session is independent", func(a *biff.A) {
			resp := apiRequest("GET", "/grid").
				WithHeader("X-Session-Id", "other").Do()
			biff.AssertEqual(resp.BodyJson().(JSON)["loaded"], false)
		})

		a.Alternative("Create form", func(a *biff.A) {
			resp := apiRequest("GET", "/grid:form").Do()
			Save(resp, "Form - create", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			form := resp.BodyJson().(JSON)
			biff.AssertEqual(form["mode"], "create")
			biff.AssertEqual(form["title"], "New Product")
			brand := form["fields"].([]interface{})[1].(JSON)
			biff.AssertEqual(brand["name"], "brand_id")
			biff.AssertEqual(brand["kind"], "reference")
			biff.AssertEqual(len(brand["options"].([]interface{})), 5)
		})

		a.Alternative("Edit form", func(a *biff.A) {
			resp := apiRequest("GET", "/grid:form").
				WithQuery("id", "66b000000000000000000002").Do()
			Save(resp, "Form - edit", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			form := resp.BodyJson().(JSON)
			biff.AssertEqual(form["mode"], "edit")
			biff.AssertEqual(form["fields"].([]interface{})[0].(JSON)["value"], "Ultraboost")
		})

		a.Alternative("Create", func(a *biff.A) {
			resp := apiRequest("POST", "/grid:create").
				WithBodyJson(JSON{
					"name":     "Gel Kayano",
					"brand_id": "66a000000000000000000002",
					"category": "Running",
					"price":    "160",
					"stock":    "",
				}).Do()
			Save(resp, "Create", `
				Number fields are converted, blank numbers become 0.
			`)

			biff.AssertEqual(resp.StatusCode, http.StatusCreated)
			body := resp.BodyJson().(JSON)
			biff.AssertEqual(len(body["id"].(string)), 24)
			view := body["view"].(JSON)
			biff.AssertEqualJson(view["page"].(JSON)["total_items"], 6)

			a.Alternative("Notices", func(a *biff.A) {
				resp := apiRequest("GET", "/grid:notices").Do()
				Save(resp, "Notices", ``)

				biff.AssertEqual(noticeKinds(resp.BodyJson()), []string{"created"})

				resp = apiRequest("GET", "/grid:notices").Do()
				biff.AssertEqual(resp.BodyJson(), []interface{}{})
			})

			a.Alternative("Created record on second page", func(a *biff.A) {
				resp := apiRequest("POST", "/grid:page").
					WithBodyJson(JSON{"page": 2}).Do()
				view := resp.BodyJson().(JSON)
				biff.AssertEqual(column(view, "name"), []string{"Gel Kayano"})
				biff.AssertEqual(column(view, "brand_id"), []string{"Adidas"})
				biff.AssertEqual(column(view, "stock"), []string{"0"})
			})
		})

		a.Alternative("Update", func(a *biff.A) {
			resp := apiRequest("POST", "/grid:update").
				WithBodyJson(JSON{
					"id":     "66b000000000000000000001",
					"fields": JSON{"price": "125.5"},
				}).Do()
			Save(resp, "Update", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqual(column(resp.BodyJson().(JSON), "price")[0], "125.5")
		})

		a.Alternative("Delete", func(a *biff.A) {
			resp := apiRequest("POST", "/grid:delete").
				WithBodyJson(JSON{"id": "66b000000000000000000005"}).Do()
			Save(resp, "Delete", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson().(JSON)["page"].(JSON)["total_items"], 4)

			a.Alternative("Delete twice", func(a *biff.A) {
				resp := apiRequest("POST", "/grid:delete").
					WithBodyJson(JSON{"id": "66b000000000000000000005"}).Do()
				Save(resp, "Delete - not found", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
			})
		})

		a.Alternative("Report keeps the active collection", func(a *biff.A) {
			resp := apiRequest("POST", "/reports/product-ratings:load").Do()
			view := resp.BodyJson().(JSON)
			biff.AssertEqual(view["active"], "products")
			biff.AssertEqual(view["name"], "product-ratings")
		})
	})
}
