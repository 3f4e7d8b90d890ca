package config

import (
	"sort"
	"strconv"

	"github.com/iancoleman/strcase"
)

type NamingConvention interface {
	// ToGraphQLField returns the query field name of a dataset
	ToGraphQLField(datasetName string) string

	// ToDatasetName maps a query field name back to its dataset, empty when unknown
	ToDatasetName(fieldName string) string
}

type NamingConventionFn func(datasetNames []string) NamingConvention

type defaultNaming struct {
	fields   map[string]string
	datasets map[string]string
}

// NewDefaultNaming uses lowerCamel field names. Datasets that collide after conversion, such
// as "sales_data" and "sales-data", get a numeric suffix in name order.
func NewDefaultNaming(datasetNames []string) NamingConvention {
	names := append([]string(nil), datasetNames...)
	sort.Strings(names)

	n := &defaultNaming{
		fields:   make(map[string]string, len(names)),
		datasets: make(map[string]string, len(names)),
	}

	for _, name := range names {
		base := strcase.ToLowerCamel(name)
		field := base
		for i := 2; ; i++ {
			if _, taken := n.datasets[field]; !taken && !reservedField(field) {
				break
			}
			field = base + strconv.Itoa(i)
		}
		n.fields[name] = field
		n.datasets[field] = name
	}

	return n
}

// reservedField reports the root query fields that aren't datasets
func reservedField(name string) bool {
	return name == "datasets" || name == "dataset" || name == "facets"
}

func (n *defaultNaming) ToGraphQLField(datasetName string) string {
	if field, ok := n.fields[datasetName]; ok {
		return field
	}
	return strcase.ToLowerCamel(datasetName)
}

func (n *defaultNaming) ToDatasetName(fieldName string) string {
	return n.datasets[fieldName]
}
