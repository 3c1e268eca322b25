package database

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/fulldump/gridadmin/record"
	"github.com/fulldump/gridadmin/source"
)

const reportsPrefix = "reports/"

// ReportNames lists the reports every backend answers.
var ReportNames = []string{
	"brands-with-sales",
	"products-stock",
	"top-brands",
	"top-users",
	"product-ratings",
}

type reportFunc func(t *tables) []record.Record

var localReports = map[string]reportFunc{
	"brands-with-sales": brandsWithSales,
	"products-stock":    productsStock,
	"top-brands":        topBrands,
	"top-users":         topUsers,
	"product-ratings":   productRatings,
}

// LocalReports computes reports in memory over the collections of a source
// that has no aggregation support of its own.
type LocalReports struct {
	source.Source
}

func (l *LocalReports) List(ctx context.Context, endpoint string) ([]record.Record, error) {
	if !strings.HasPrefix(endpoint, reportsPrefix) {
		return l.Source.List(ctx, endpoint)
	}

	name := strings.TrimPrefix(endpoint, reportsPrefix)
	report, ok := localReports[name]
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", source.ErrNotFound, endpoint)
	}

	t, err := loadTables(ctx, l.Source, "brands", "products", "users", "sales", "reviews")
	if err != nil {
		return nil, err
	}
	return report(t), nil
}

// tables holds whole collections indexed by identity.
type tables struct {
	rows map[string][]record.Record
	byID map[string]map[string]record.Record
}

func loadTables(ctx context.Context, lister source.Lister, names ...string) (*tables, error) {
	t := &tables{
		rows: map[string][]record.Record{},
		byID: map[string]map[string]record.Record{},
	}
	for _, name := range names {
		batch, err := lister.List(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("load '%s': %w", name, err)
		}
		t.rows[name] = batch
		index := map[string]record.Record{}
		for _, r := range batch {
			index[r.ID().Text()] = r
		}
		t.byID[name] = index
	}
	return t, nil
}

func (t *tables) find(collection string, id record.Value) (record.Record, bool) {
	r, ok := t.byID[collection][id.Text()]
	return r, ok
}

func quantity(r record.Record) float64 {
	f, _ := r.Get("quantity").Num()
	return f
}

// group accumulates values per key keeping first appearance order.
type group struct {
	keys   []string
	values map[string]record.Value
	sums   map[string]float64
	counts map[string]int
}

func newGroup() *group {
	return &group{
		values: map[string]record.Value{},
		sums:   map[string]float64{},
		counts: map[string]int{},
	}
}

func (g *group) add(key record.Value, amount float64) {
	k := key.Text()
	if _, ok := g.values[k]; !ok {
		g.keys = append(g.keys, k)
		g.values[k] = key
	}
	g.sums[k] += amount
	g.counts[k]++
}

func brandsWithSales(t *tables) []record.Record {
	brands := newGroup()
	for _, sale := range t.rows["sales"] {
		product, ok := t.find("products", sale.Get("product_id"))
		if !ok {
			continue
		}
		brands.add(product.Get("brand_id"), 0)
	}

	result := []record.Record{}
	for _, k := range brands.keys {
		brand, ok := t.find("brands", brands.values[k])
		if !ok {
			continue
		}
		result = append(result, record.Record{
			"brand_id": record.String(k),
			"name":     brand.Get("name"),
			"country":  brand.Get("country"),
		})
	}
	return result
}

func productsStock(t *tables) []record.Record {
	sold := newGroup()
	for _, sale := range t.rows["sales"] {
		sold.add(sale.Get("product_id"), quantity(sale))
	}

	result := []record.Record{}
	for _, k := range sold.keys {
		product, ok := t.find("products", sold.values[k])
		if !ok {
			continue
		}
		result = append(result, record.Record{
			"product_id": record.String(k),
			"name":       product.Get("name"),
			"sold":       record.Number(sold.sums[k]),
			"stock":      product.Get("stock"),
		})
	}
	return result
}

func topBrands(t *tables) []record.Record {
	sales := newGroup()
	for _, sale := range t.rows["sales"] {
		product, ok := t.find("products", sale.Get("product_id"))
		if !ok {
			continue
		}
		sales.add(product.Get("brand_id"), quantity(sale))
	}

	keys := append([]string{}, sales.keys...)
	sort.SliceStable(keys, func(i, j int) bool {
		return sales.sums[keys[i]] > sales.sums[keys[j]]
	})

	result := []record.Record{}
	for _, k := range keys {
		brand, ok := t.find("brands", sales.values[k])
		if !ok {
			continue
		}
		result = append(result, record.Record{
			"brand_id":    record.String(k),
			"name":        brand.Get("name"),
			"total_sales": record.Number(sales.sums[k]),
		})
		if len(result) == 5 {
			break
		}
	}
	return result
}

func topUsers(t *tables) []record.Record {
	purchases := newGroup()
	for _, sale := range t.rows["sales"] {
		purchases.add(sale.Get("user_id"), quantity(sale))
	}

	keys := append([]string{}, purchases.keys...)
	sort.SliceStable(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if purchases.counts[a] != purchases.counts[b] {
			return purchases.counts[a] > purchases.counts[b]
		}
		return purchases.sums[a] > purchases.sums[b]
	})

	result := []record.Record{}
	for _, k := range keys {
		user, ok := t.find("users", purchases.values[k])
		if !ok {
			continue
		}
		result = append(result, record.Record{
			"user_id":   record.String(k),
			"username":  user.Get("username"),
			"purchases": record.Number(float64(purchases.counts[k])),
			"units":     record.Number(purchases.sums[k]),
		})
	}
	return result
}

func productRatings(t *tables) []record.Record {
	ratings := newGroup()
	for _, review := range t.rows["reviews"] {
		rating, ok := review.Get("rating").Num()
		if !ok {
			continue
		}
		ratings.add(review.Get("product_id"), rating)
	}

	average := func(k string) float64 {
		return ratings.sums[k] / float64(ratings.counts[k])
	}

	keys := append([]string{}, ratings.keys...)
	sort.SliceStable(keys, func(i, j int) bool {
		return average(keys[i]) > average(keys[j])
	})

	result := []record.Record{}
	for _, k := range keys {
		product, ok := t.find("products", ratings.values[k])
		if !ok {
			continue
		}
		result = append(result, record.Record{
			"product_id":     record.String(k),
			"name":           product.Get("name"),
			"average_rating": record.Number(average(k)),
			"reviews":        record.Number(float64(ratings.counts[k])),
		})
	}
	return result
}
