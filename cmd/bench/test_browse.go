package main

import (
	"fmt"
	"net/http"
	"sync/atomic"
	"time"
)

// TestBrowse loads products once per session and then cycles through
// search, filter and page changes over the loaded batch.
func TestBrowse(c Config) {

	var requests, failures int64

	steps := []struct {
		path string
		body any
	}{
		{"/v1/grid:search", JSON{"text": "product 1"}},
		{"/v1/grid:filter", JSON{"conditions": JSON{"price": JSON{"min": "50", "max": "150"}}}},
		{"/v1/grid:page", JSON{"page": 3, "page_size": 25}},
		{"/v1/grid:search", JSON{"text": ""}},
		{"/v1/grid:filter", JSON{"conditions": JSON{}}},
	}

	t0 := time.Now()
	Parallel(c.Workers, func(worker int) {
		session := fmt.Sprintf("browse-%d", worker)
		Request(c.Base, session, "POST", "/v1/collections/products:load", nil)
		for i := 0; i < c.Requests; i++ {
			step := steps[i%len(steps)]
			status, err := Request(c.Base, session, "POST", step.path, step.body)
			atomic.AddInt64(&requests, 1)
			if err != nil || status != http.StatusOK {
				atomic.AddInt64(&failures, 1)
			}
		}
	})

	Report("browse", requests, failures, time.Since(t0))
}
