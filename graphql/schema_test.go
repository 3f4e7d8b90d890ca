package graphql

import (
	"context"
	"testing"

	"github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datastax/data-views/config"
	"github.com/datastax/data-views/dataset"
	"github.com/datastax/data-views/internal/testutil"
	"github.com/datastax/data-views/source"
	"github.com/datastax/data-views/types"
)

func newRegistry(t *testing.T, cfgs ...config.DatasetConfig) *dataset.Registry {
	registry := dataset.NewRegistry(testutil.TestLogger())
	for _, cfg := range cfgs {
		ds, err := dataset.New(cfg, source.NewStaticSource(testutil.Products()), testutil.TestLogger())
		require.NoError(t, err)
		_, err = ds.Reload(context.Background())
		require.NoError(t, err)
		require.NoError(t, registry.Add(ds))
	}
	return registry
}

func buildSchema(t *testing.T, ops config.Operations) graphql.Schema {
	registry := newRegistry(t, testutil.ProductsConfig())
	schema, err := NewSchemaGenerator(registry, config.NewConfigMock().Default()).BuildSchema(ops)
	require.NoError(t, err)
	return schema
}

func execute(t *testing.T, schema graphql.Schema, query string) map[string]interface{} {
	result := graphql.Do(graphql.Params{Schema: schema, RequestString: query, Context: context.Background()})
	require.Empty(t, result.Errors)
	return result.Data.(map[string]interface{})
}

func pageIDs(data map[string]interface{}, field string) []int {
	page := data[field].(map[string]interface{})
	records := make([]types.Record, 0)
	for _, r := range page["records"].([]interface{}) {
		records = append(records, r.(map[string]interface{}))
	}
	return testutil.IDs(records)
}

func TestBuildSchemaFields(t *testing.T) {
	sales := testutil.ProductsConfig()
	sales.Name = "sales_data"
	registry := newRegistry(t, testutil.ProductsConfig(), sales)

	schema, err := NewSchemaGenerator(registry, config.NewConfigMock().Default()).BuildSchema(config.DatasetFacets)
	require.NoError(t, err)
	fields := schema.QueryType().Fields()
	assert.Contains(t, fields, "datasets")
	assert.Contains(t, fields, "dataset")
	assert.Contains(t, fields, "facets")
	assert.Contains(t, fields, "products")
	assert.Contains(t, fields, "salesData")

	schema, err = NewSchemaGenerator(registry, config.NewConfigMock().Default()).BuildSchema(0)
	require.NoError(t, err)
	assert.NotContains(t, schema.QueryType().Fields(), "facets")
}

func TestQueryDataset(t *testing.T) {
	schema := buildSchema(t, 0)

	tests := []struct {
		name     string
		query    string
		expected []int
		total    int
		page     int
		pages    int
	}{
		{"defaults", `{ products { records totalMatches currentPage totalPages empty } }`,
			[]int{1, 2}, 7, 1, 4},
		{"search", `{ products(search: "basic", pageSize: 10) { records totalMatches currentPage totalPages } }`,
			[]int{2, 3, 6}, 3, 1, 1},
		{"filter", `{ products(filters: [{field: "category", value: "premium"}]) { records totalMatches currentPage totalPages } }`,
			[]int{4, 5}, 2, 1, 1},
		{"filter all", `{ products(filters: [{field: "category", value: "all"}], pageSize: 10) { records totalMatches currentPage totalPages } }`,
			[]int{1, 2, 3, 4, 5, 6, 7}, 7, 1, 1},
		{"range", `{ products(ranges: [{field: "price", min: 20, max: "60"}]) { records totalMatches currentPage totalPages } }`,
			[]int{3, 4}, 3, 1, 2},
		{"lenient range", `{ products(ranges: [{field: "price", min: "abc"}], pageSize: 10) { records totalMatches currentPage totalPages } }`,
			[]int{1, 2, 3, 4, 5, 6, 7}, 7, 1, 1},
		{"order desc", `{ products(orderBy: {field: "price", direction: DESC}) { records totalMatches currentPage totalPages } }`,
			[]int{6, 4}, 7, 1, 4},
		{"page clamp", `{ products(orderBy: {field: "id"}, page: 9) { records totalMatches currentPage totalPages } }`,
			[]int{7}, 7, 4, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := execute(t, schema, tt.query)
			page := data["products"].(map[string]interface{})
			assert.Equal(t, tt.expected, pageIDs(data, "products"))
			assert.Equal(t, tt.total, page["totalMatches"])
			assert.Equal(t, tt.page, page["currentPage"])
			assert.Equal(t, tt.pages, page["totalPages"])
		})
	}
}

func TestQueryDatasetNoMatches(t *testing.T) {
	data := execute(t, buildSchema(t, 0), `{ products(search: "zzz") { records totalMatches currentPage totalPages empty } }`)
	page := data["products"].(map[string]interface{})
	assert.Equal(t, true, page["empty"])
	assert.Equal(t, 0, page["totalMatches"])
	assert.Equal(t, 1, page["currentPage"])
	assert.Equal(t, 1, page["totalPages"])
	assert.Empty(t, page["records"])
}

func TestQueryDatasetErrors(t *testing.T) {
	schema := buildSchema(t, 0)

	for _, query := range []string{
		`{ products(orderBy: {field: "category"}) { totalMatches } }`,
		`{ products(pageSize: 1000) { totalMatches } }`,
		`{ dataset(name: "unknown") { name } }`,
	} {
		result := graphql.Do(graphql.Params{Schema: schema, RequestString: query})
		assert.NotEmpty(t, result.Errors, query)
	}
}

func TestDatasetsField(t *testing.T) {
	data := execute(t, buildSchema(t, 0), `{ datasets { name queryField count version source fields } }`)
	datasets := data["datasets"].([]interface{})
	require.Len(t, datasets, 1)

	products := datasets[0].(map[string]interface{})
	assert.Equal(t, "products", products["name"])
	assert.Equal(t, "products", products["queryField"])
	assert.Equal(t, 7, products["count"])
	assert.Equal(t, 1, products["version"])
	assert.Equal(t, "static", products["source"])
	assert.Equal(t, []interface{}{"category", "id", "name", "price"}, products["fields"])
}

func TestFacetsField(t *testing.T) {
	data := execute(t, buildSchema(t, config.DatasetFacets), `{ facets(dataset: "products", field: "category") }`)
	assert.Equal(t, []interface{}{"basic", "premium", "trial"}, data["facets"])
}

func TestLiteralValue(t *testing.T) {
	data := execute(t, buildSchema(t, 0),
		`{ products(ranges: [{field: "price", min: 10.5}], orderBy: {field: "price", direction: ASC}) { records } }`)
	assert.Equal(t, []int{3, 4}, pageIDs(data, "products"))
}
