package graphql

import (
	"fmt"

	"github.com/graphql-go/graphql"
	"github.com/mitchellh/mapstructure"

	"github.com/datastax/data-views/dataset"
	"github.com/datastax/data-views/rest/translator"
	"github.com/datastax/data-views/types"
)

func (sg *SchemaGenerator) queryFieldResolver() graphql.FieldResolveFn {
	return func(params graphql.ResolveParams) (interface{}, error) {
		fieldName := params.Info.FieldName
		switch fieldName {
		case "datasets":
			return sg.getDatasets(), nil
		case "dataset":
			ds, err := sg.registry.Get(params.Args["name"].(string))
			if err != nil {
				return nil, err
			}
			return sg.describe(ds), nil
		case "facets":
			ds, err := sg.registry.Get(params.Args["dataset"].(string))
			if err != nil {
				return nil, err
			}
			return ds.Facets(params.Args["field"].(string))
		default:
			name := sg.naming.ToDatasetName(fieldName)
			if name == "" {
				return nil, fmt.Errorf("unable to find dataset for '%s'", fieldName)
			}
			ds, err := sg.registry.Get(name)
			if err != nil {
				return nil, err
			}
			return sg.query(ds, params.Args)
		}
	}
}

func (sg *SchemaGenerator) query(ds *dataset.Dataset, args map[string]interface{}) (interface{}, error) {
	var options types.QueryOptions
	if err := mapstructure.Decode(args, &options); err != nil {
		return nil, fmt.Errorf("invalid query arguments: %w", err)
	}

	result, err := ds.Query(options, sg.defaultPageSize, sg.maxPageSize)
	if err != nil {
		sg.logger.Debug("dataset query rejected", "dataset", ds.Name(), "error", err)
		return nil, err
	}

	snapshot := translator.FromResult(result)
	return map[string]interface{}{
		"records":      snapshot.Records,
		"totalMatches": snapshot.TotalMatches,
		"currentPage":  snapshot.CurrentPage,
		"totalPages":   snapshot.TotalPages,
		"empty":        snapshot.Empty,
	}, nil
}

func (sg *SchemaGenerator) getDatasets() []map[string]interface{} {
	datasets := sg.registry.Datasets()
	result := make([]map[string]interface{}, 0, len(datasets))
	for _, ds := range datasets {
		result = append(result, sg.describe(ds))
	}
	return result
}

func (sg *SchemaGenerator) describe(ds *dataset.Dataset) map[string]interface{} {
	records, version := ds.Records()
	cfg := ds.Config()
	return map[string]interface{}{
		"name":             ds.Name(),
		"queryField":       sg.naming.ToGraphQLField(ds.Name()),
		"count":            len(records),
		"version":          int(version),
		"fields":           ds.Fields(),
		"sortableFields":   cfg.SortableFields,
		"filterableFields": cfg.FilterableFields,
		"source":           ds.Source().Name(),
		"updatedAt":        ds.UpdatedAt(),
	}
}
