package database

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/go-json-experiment/json"
	"go.uber.org/zap"

	"github.com/fulldump/gridadmin/source"
)

//go:embed seed.json
var seedData []byte

// SeedOrder inserts referenced collections before the ones pointing at them.
var SeedOrder = []string{"brands", "products", "users", "reviews", "sales"}

// Seed inserts the sample data set into every empty collection.
func Seed(ctx context.Context, s source.Source, logger *zap.Logger) error {

	data := map[string][]map[string]any{}
	err := json.Unmarshal(seedData, &data)
	if err != nil {
		return fmt.Errorf("decode seed: %w", err)
	}

	for _, name := range SeedOrder {
		existing, err := s.List(ctx, name)
		if err != nil {
			return fmt.Errorf("list '%s': %w", name, err)
		}
		if len(existing) > 0 {
			continue
		}
		for _, item := range data[name] {
			_, err := s.Create(ctx, name, item)
			if err != nil {
				return fmt.Errorf("seed '%s': %w", name, err)
			}
		}
		logger.Info("collection seeded", zap.String("collection", name), zap.Int("records", len(data[name])))
	}

	return nil
}
