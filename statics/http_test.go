package statics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fulldump/biff"
)

func TestServeStatics(t *testing.T) {

	h := ServeStatics("")

	w := httptest.NewRecorder()
	h(w, httptest.NewRequest("GET", "/", nil))

	biff.AssertEqual(w.Code, http.StatusOK)
	biff.AssertTrue(strings.Contains(w.Body.String(), "<title>gridadmin</title>"))
}
