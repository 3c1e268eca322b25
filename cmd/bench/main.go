package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/fulldump/goconfig"
)

type Config struct {
	Test     string `usage:"name of the test: ALL | LOAD | BROWSE"`
	Base     string `usage:"base URL, empty starts a local server"`
	N        int    `usage:"number of products in the local server"`
	Workers  int    `usage:"number of workers, one session each"`
	Requests int    `usage:"requests per worker"`
}

var cleanups []func()

func main() {

	defer func() {
		fmt.Println("Cleaning up...")
		for _, cleanup := range cleanups {
			cleanup()
		}
	}()

	c := Config{
		Test:     "all",
		Base:     "",
		N:        10_000,
		Workers:  16,
		Requests: 50,
	}
	goconfig.Read(&c)

	if c.Base == "" {
		start, stop := CreateServer(&c)
		cleanups = append(cleanups, stop)
		go start()
		WaitReady(c.Base)
	}

	switch strings.ToUpper(c.Test) {
	case "ALL":
		TestLoad(c)
		TestBrowse(c)
	case "LOAD":
		TestLoad(c)
	case "BROWSE":
		TestBrowse(c)
	default:
		log.Fatalf("Unknown test %s", c.Test)
	}

}
