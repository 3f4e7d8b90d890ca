package testutil

import (
	"go.uber.org/zap"

	"github.com/datastax/data-views/config"
	"github.com/datastax/data-views/log"
	"github.com/datastax/data-views/types"
)

const ProductsDataset = "products"

// Products returns a catalog where "Student" has no price and two plans share the top price
func Products() []types.Record {
	return []types.Record{
		{"id": 1, "name": "Trial Plan", "category": "trial", "price": 0},
		{"id": 2, "name": "Basic Plan", "category": "basic", "price": 10},
		{"id": 3, "name": "Pro Plan", "category": "basic", "price": 25},
		{"id": 4, "name": "Premium Plan", "category": "premium", "price": 50},
		{"id": 5, "name": "Enterprise", "category": "premium", "price": 50},
		{"id": 6, "name": "Basic Annual", "category": "basic", "price": 100},
		{"id": 7, "name": "Student", "category": "trial"},
	}
}

// ProductsConfig declares the products dataset searchable by name and category
func ProductsConfig() config.DatasetConfig {
	return config.DatasetConfig{
		Name:           ProductsDataset,
		Source:         config.SourceConfig{Type: config.SourceFile, Path: "products.json"},
		SearchFields:   []string{"name", "category"},
		SortableFields: []string{"id", "name", "price"},
		PageSize:       2,
	}
}

// IDs returns the ids of records, in order
func IDs(records []types.Record) []int {
	result := make([]int, len(records))
	for i, r := range records {
		switch id := r["id"].(type) {
		case int:
			result[i] = id
		case float64:
			result[i] = int(id)
		}
	}
	return result
}

func TestLogger() log.Logger {
	return log.NewZapLogger(zap.NewNop())
}
