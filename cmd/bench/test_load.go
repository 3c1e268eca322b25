package main

import (
	"fmt"
	"net/http"
	"sync/atomic"
	"time"
)

// TestLoad measures full collection loads: every request fetches the
// products, derives columns and resolves the brand labels of a page.
func TestLoad(c Config) {

	var requests, failures int64

	t0 := time.Now()
	Parallel(c.Workers, func(worker int) {
		session := fmt.Sprintf("load-%d", worker)
		for i := 0; i < c.Requests; i++ {
			status, err := Request(c.Base, session, "POST", "/v1/collections/products:load", nil)
			atomic.AddInt64(&requests, 1)
			if err != nil || status != http.StatusOK {
				atomic.AddInt64(&failures, 1)
			}
		}
	})

	Report("load", requests, failures, time.Since(t0))
}
