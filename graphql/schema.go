package graphql

import (
	"github.com/graphql-go/graphql"

	"github.com/datastax/data-views/config"
	"github.com/datastax/data-views/dataset"
	"github.com/datastax/data-views/log"
)

type SchemaGenerator struct {
	registry        *dataset.Registry
	naming          config.NamingConvention
	defaultPageSize int
	maxPageSize     int
	logger          log.Logger
}

var recordPage = graphql.NewObject(graphql.ObjectConfig{
	Name: "RecordPage",
	Fields: graphql.Fields{
		"records":      {Type: graphql.NewNonNull(graphql.NewList(record))},
		"totalMatches": {Type: graphql.NewNonNull(graphql.Int)},
		"currentPage":  {Type: graphql.NewNonNull(graphql.Int)},
		"totalPages":   {Type: graphql.NewNonNull(graphql.Int)},
		"empty":        {Type: graphql.NewNonNull(graphql.Boolean)},
	},
})

var datasetType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Dataset",
	Fields: graphql.Fields{
		"name":             {Type: graphql.NewNonNull(graphql.String)},
		"queryField":       {Type: graphql.NewNonNull(graphql.String)},
		"count":            {Type: graphql.NewNonNull(graphql.Int)},
		"version":          {Type: graphql.NewNonNull(graphql.Int)},
		"fields":           {Type: graphql.NewList(graphql.String)},
		"sortableFields":   {Type: graphql.NewList(graphql.String)},
		"filterableFields": {Type: graphql.NewList(graphql.String)},
		"source":           {Type: graphql.String},
		"updatedAt":        {Type: timestamp},
	},
})

func NewSchemaGenerator(registry *dataset.Registry, cfg config.Config) *SchemaGenerator {
	return &SchemaGenerator{
		registry:        registry,
		naming:          cfg.Naming()(registry.Names()),
		defaultPageSize: cfg.DefaultPageSize(),
		maxPageSize:     cfg.MaxPageSize(),
		logger:          cfg.Logger(),
	}
}

// BuildSchema builds a query type with a field per dataset of the registry. The facets field is
// only exposed when the operation is supported.
func (sg *SchemaGenerator) BuildSchema(ops config.Operations) (graphql.Schema, error) {
	return graphql.NewSchema(graphql.SchemaConfig{
		Query: sg.buildQuery(ops),
	})
}

func (sg *SchemaGenerator) buildQuery(ops config.Operations) *graphql.Object {
	resolve := sg.queryFieldResolver()
	fields := graphql.Fields{
		"datasets": &graphql.Field{
			Type:    graphql.NewList(datasetType),
			Resolve: resolve,
		},
		"dataset": &graphql.Field{
			Type: datasetType,
			Args: graphql.FieldConfigArgument{
				"name": {Type: graphql.NewNonNull(graphql.String)},
			},
			Resolve: resolve,
		},
	}

	if ops.IsSupported(config.DatasetFacets) {
		fields["facets"] = &graphql.Field{
			Type: graphql.NewList(graphql.String),
			Args: graphql.FieldConfigArgument{
				"dataset": {Type: graphql.NewNonNull(graphql.String)},
				"field":   {Type: graphql.NewNonNull(graphql.String)},
			},
			Resolve: resolve,
		}
	}

	for _, ds := range sg.registry.Datasets() {
		fields[sg.naming.ToGraphQLField(ds.Name())] = &graphql.Field{
			Type:        graphql.NewNonNull(recordPage),
			Description: "Matched records of dataset " + ds.Name(),
			Args:        queryArgs,
			Resolve:     resolve,
		}
	}

	return graphql.NewObject(graphql.ObjectConfig{
		Name:   "Query",
		Fields: fields,
	})
}
