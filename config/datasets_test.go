package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestDecodeDatasets(t *testing.T) {
	raw := []interface{}{
		map[interface{}]interface{}{
			"name": "products",
			"source": map[interface{}]interface{}{
				"type": "file",
				"path": "testdata/products.json",
			},
			"searchfields":    []interface{}{"name", "category"},
			"textmatchfields": map[interface{}]interface{}{"category": "name"},
			"pagesize":        "5",
			"language":        "fr",
		},
		map[string]interface{}{
			"name": "orders",
			"source": map[string]interface{}{
				"type":     "cassandra",
				"hosts":    "10.0.0.1,10.0.0.2",
				"keyspace": "shop",
				"table":    "orders",
			},
			"excludeMissingNumeric": true,
			"sortableFields":        []string{"total"},
		},
	}

	datasets, err := DecodeDatasets(raw)
	require.NoError(t, err)
	require.Len(t, datasets, 2)

	products := datasets[0]
	assert.Equal(t, "products", products.Name)
	assert.Equal(t, []string{"name", "category"}, products.SearchFields)
	assert.Equal(t, map[string]string{"category": "name"}, products.TextMatchFields)
	assert.Equal(t, 5, products.PageSize)
	tag, err := products.LanguageTag()
	assert.NoError(t, err)
	assert.Equal(t, language.French, tag)
	assert.True(t, products.IsSortable("anything"))

	orders := datasets[1]
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, orders.Source.Hosts)
	assert.True(t, orders.MatcherConfig().ExcludeMissingNumeric)
	assert.True(t, orders.IsSortable("total"))
	assert.False(t, orders.IsSortable("customer"))
	assert.True(t, orders.IsFilterable("customer"))
}

func TestDecodeDatasetsErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  interface{}
		err  string
	}{
		{
			name: "Missing name",
			raw:  []interface{}{map[string]interface{}{"source": map[string]interface{}{"type": "file", "path": "a.json"}}},
			err:  "invalid dataset at position 0: DatasetConfig.Name failed on 'required'",
		}, {
			name: "Unknown source type",
			raw:  []interface{}{map[string]interface{}{"name": "a", "source": map[string]interface{}{"type": "kafka"}}},
			err:  "invalid dataset at position 0: DatasetConfig.Source.Type failed on 'oneof'",
		}, {
			name: "File without path",
			raw:  []interface{}{map[string]interface{}{"name": "a", "source": map[string]interface{}{"type": "file"}}},
			err:  "invalid dataset at position 0: file sources require a path",
		}, {
			name: "Sql incomplete",
			raw: []interface{}{map[string]interface{}{"name": "a", "source": map[string]interface{}{
				"type": "sql", "driver": "mysql"}}},
			err: "invalid dataset at position 0: sql sources require driver, dsn and query",
		}, {
			name: "Duplicate names",
			raw: []interface{}{
				map[string]interface{}{"name": "a", "source": map[string]interface{}{"type": "file", "path": "a.json"}},
				map[string]interface{}{"name": "a", "source": map[string]interface{}{"type": "file", "path": "b.json"}},
			},
			err: "duplicate dataset name 'a'",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeDatasets(tt.raw)
			assert.EqualError(t, err, tt.err)
		})
	}

	_, err := DecodeDatasets([]interface{}{map[string]interface{}{"name": "a", "unknown": 1}})
	assert.Error(t, err)
}

func TestDecodeDatasetsNil(t *testing.T) {
	datasets, err := DecodeDatasets(nil)
	assert.NoError(t, err)
	assert.Empty(t, datasets)
}
