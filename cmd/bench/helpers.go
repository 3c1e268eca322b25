package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/go-json-experiment/json"
	"go.uber.org/zap"

	"github.com/fulldump/gridadmin/bootstrap"
	"github.com/fulldump/gridadmin/collection"
	"github.com/fulldump/gridadmin/configuration"
)

type JSON = map[string]any

var client = &http.Client{
	Transport: &http.Transport{
		MaxConnsPerHost:     1024,
		MaxIdleConnsPerHost: 1024,
		MaxIdleConns:        1024,
	},
}

func Parallel(workers int, f func(worker int)) {
	wg := &sync.WaitGroup{}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f(i)
		}()
	}
	wg.Wait()
}

func TempDir() (string, func()) {
	dir, err := os.MkdirTemp("", "gridadmin_bench_*")
	if err != nil {
		panic("Could not create temp directory: " + err.Error())
	}

	cleanup := func() {
		os.RemoveAll(dir)
	}

	return dir, cleanup
}

// Fill writes n synthetic products, spread over the seeded brands, into
// the local backend at dir.
func Fill(dir string, n int) {
	store := collection.NewStore(dir, zap.NewNop())
	err := store.Load()
	if err != nil {
		panic(err)
	}
	defer store.Close()

	brands := []string{
		"66a000000000000000000001",
		"66a000000000000000000002",
		"66a000000000000000000003",
		"66a000000000000000000004",
		"66a000000000000000000005",
	}
	ctx := context.Background()
	for i := 0; i < n; i++ {
		_, err := store.Create(ctx, "products", JSON{
			"name":     fmt.Sprintf("Product %d", i),
			"brand_id": brands[i%len(brands)],
			"category": []string{"Shoes", "Shirts", "Pants"}[i%3],
			"price":    float64(10 + i%200),
			"stock":    float64(i % 50),
		})
		if err != nil {
			panic(err)
		}
	}
}

func CreateServer(c *Config) (start, stop func()) {
	dir, cleanup := TempDir()
	cleanups = append(cleanups, cleanup)

	Fill(dir, c.N)

	conf := configuration.Default()
	conf.Dir = dir
	conf.Seed = true
	conf.ShowBanner = false
	conf.HttpAddr = "127.0.0.1:18080"
	c.Base = "http://" + conf.HttpAddr

	start, stop, err := bootstrap.Bootstrap(&conf)
	if err != nil {
		log.Fatalf("bootstrap: %s", err.Error())
	}
	return start, stop
}

// WaitReady polls the server until the database is operating.
func WaitReady(base string) {
	for i := 0; i < 300; i++ {
		status, _ := Request(base, "default", "GET", "/v1/grid", nil)
		if status == http.StatusOK {
			return
		}
		time.Sleep(100 * time.Millisecond)
	}
	log.Fatalf("server at %s not ready", base)
}

func Request(base, session, method, path string, body any) (int, error) {

	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, base+path, payload)
	if err != nil {
		return 0, err
	}
	req.Header.Set("X-Session-Id", session)

	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	return resp.StatusCode, nil
}

func Report(name string, requests int64, failures int64, took time.Duration) {
	fmt.Println("test:", name)
	fmt.Println("requests:", requests, "failures:", failures)
	fmt.Println("took:", took)
	fmt.Printf("Throughput: %.2f requests/sec\n", float64(requests)/took.Seconds())
}
