package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fulldump/gridadmin/filter"
	"github.com/fulldump/gridadmin/grid"
)

// query is the grid state shared by the commands that read a collection.
type query struct {
	Report  bool
	Search  string
	Filters []string
	Columns []string
}

func (q *query) bind(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.BoolVar(&q.Report, "report", false, "the name is a report instead of a collection")
	flags.StringVar(&q.Search, "search", "", "free text search over the visible columns")
	flags.StringArrayVar(&q.Filters, "filter", nil, "column condition: col=min..max or col~text (repeatable)")
	flags.StringSliceVar(&q.Columns, "columns", nil, "visible columns, comma separated")
}

// apply loads name and sets search, filters and columns on the engine.
func (q *query) apply(ctx context.Context, e *grid.Engine, name string) error {

	conditions, err := parseFilters(q.Filters)
	if err != nil {
		return err
	}

	if q.Report {
		err = e.LoadReport(ctx, name)
	} else {
		err = e.LoadCollection(ctx, name)
	}
	if err != nil {
		return err
	}

	if len(q.Columns) > 0 {
		err = e.SetVisibleColumns(q.Columns)
		if err != nil {
			return err
		}
	}
	e.SetSearch(q.Search)
	e.SetConditions(conditions)

	return nil
}

// parseFilters reads col=min..max range conditions (either bound may be
// empty) and col~text contains conditions.
func parseFilters(items []string) (filter.Conditions, error) {
	conditions := filter.Conditions{}
	for _, item := range items {
		if col, text, ok := strings.Cut(item, "~"); ok && col != "" {
			cond := conditions[col]
			cond.Contains = text
			conditions[col] = cond
			continue
		}
		col, bounds, ok := strings.Cut(item, "=")
		if !ok || col == "" {
			return nil, fmt.Errorf("invalid filter '%s', expected col=min..max or col~text", item)
		}
		min, max, isRange := strings.Cut(bounds, "..")
		if !isRange {
			min, max = bounds, bounds
		}
		cond := conditions[col]
		cond.Min = min
		cond.Max = max
		conditions[col] = cond
	}
	return conditions, nil
}
