package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/fulldump/biff"

	"github.com/fulldump/gridadmin/filter"
	"github.com/fulldump/gridadmin/pagination"
)

func TestParseFilters(t *testing.T) {

	biff.Alternative("Parse filters", func(a *biff.A) {

		a.Alternative("Range and contains", func(a *biff.A) {
			conditions, err := parseFilters([]string{"price=50..", "name~air", "founded=..1960"})
			biff.AssertNil(err)
			biff.AssertEqual(conditions, filter.Conditions{
				"price":   {Min: "50"},
				"name":    {Contains: "air"},
				"founded": {Max: "1960"},
			})
		})

		a.Alternative("Exact value", func(a *biff.A) {
			conditions, err := parseFilters([]string{"stock=5"})
			biff.AssertNil(err)
			biff.AssertEqual(conditions["stock"], filter.Condition{Min: "5", Max: "5"})
		})

		a.Alternative("Invalid", func(a *biff.A) {
			_, err := parseFilters([]string{"price"})
			biff.AssertNotNil(err)
		})
	})
}

func TestFormatWindow(t *testing.T) {
	window := pagination.Window(5, 10, pagination.WindowSize)
	biff.AssertEqual(formatWindow(window), "1 … 4 [5] 6 … 10")
}

func TestCommands(t *testing.T) {

	color.NoColor = true

	biff.Alternative("Commands", func(a *biff.A) {

		dir := t.TempDir()
		run := func(args ...string) (string, error) {
			out := &bytes.Buffer{}
			root := newRootCommand()
			root.SetOut(out)
			root.SetErr(&bytes.Buffer{})
			root.SetArgs(append([]string{"--dir", dir, "--seed"}, args...))
			err := root.Execute()
			return out.String(), err
		}

		a.Alternative("Export", func(a *biff.A) {
			out, err := run("export", "brands", "--columns", "country,name", "--filter", "founded=..1950")
			biff.AssertNil(err)
			biff.AssertEqual(out, "\"name\",\"country\"\n\"Adidas\",\"Germany\"\n\"Puma\",\"Germany\"\n")
		})

		a.Alternative("Show", func(a *biff.A) {
			out, err := run("show", "products", "--search", "boost")
			biff.AssertNil(err)
			biff.AssertTrue(strings.Contains(out, "Ultraboost"))
			biff.AssertTrue(strings.Contains(out, "Adidas"))
			biff.AssertTrue(strings.Contains(out, "1-1 of 1"))
		})

		a.Alternative("Show report", func(a *biff.A) {
			out, err := run("show", "top-brands", "--report", "--page-size", "10")
			biff.AssertNil(err)
			biff.AssertTrue(strings.Contains(out, "Puma"))
		})

		a.Alternative("Counts", func(a *biff.A) {
			out, err := run("counts")
			biff.AssertNil(err)
			biff.AssertTrue(strings.Contains(out, "brands     5"))
		})

		a.Alternative("Unknown collection", func(a *biff.A) {
			_, err := run("export", "ghosts")
			biff.AssertNotNil(err)
		})
	})
}
