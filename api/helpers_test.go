package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fulldump/biff"

	"github.com/fulldump/gridadmin/catalog"
	"github.com/fulldump/gridadmin/grid"
	"github.com/fulldump/gridadmin/source"
)

func TestDescribeError(t *testing.T) {

	ctx := context.Background()

	cases := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("load: %w", catalog.ErrUnknownCollection), http.StatusNotFound},
		{fmt.Errorf("get: %w", source.ErrNotFound), http.StatusNotFound},
		{io.EOF, http.StatusBadRequest},
		{grid.ErrNothingLoaded, http.StatusBadRequest},
		{fmt.Errorf("list: %w", source.ErrUnsupported), http.StatusNotImplemented},
		{fmt.Errorf("list: %w", source.ErrUnavailable), http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, c := range cases {
		status, _ := describeError(ctx, c.err)
		biff.AssertEqual(status, c.status)
	}
}

func TestFormatRemoteAddr(t *testing.T) {

	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.1:5555"
	biff.AssertEqual(formatRemoteAddr(r), "10.0.0.1")

	r.RemoteAddr = "pipe"
	biff.AssertEqual(formatRemoteAddr(r), "pipe")

	r.Header.Set("X-Forwarded-For", "1.2.3.4, 10.0.0.1")
	biff.AssertEqual(formatRemoteAddr(r), "1.2.3.4")
}

func TestCompressionNegotiation(t *testing.T) {

	r := httptest.NewRequest("GET", "/v1/grid:export", nil)
	biff.AssertFalse(acceptsGzip(r))

	r.Header.Set("Accept-Encoding", "deflate, gzip;q=0.8")
	biff.AssertTrue(acceptsGzip(r))

	r.Header.Set("Accept-Encoding", "gzipped")
	biff.AssertFalse(acceptsGzip(r))

	biff.AssertTrue(precompressed("/logo.PNG"))
	biff.AssertTrue(precompressed("/fonts/a.woff2"))
	biff.AssertFalse(precompressed("/index.html"))
	biff.AssertFalse(precompressed("/v1/grid:export"))
}
