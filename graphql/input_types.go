package graphql

import (
	"github.com/graphql-go/graphql"
)

var sortDirection = graphql.NewEnum(graphql.EnumConfig{
	Name: "SortDirection",
	Values: graphql.EnumValueConfigMap{
		"ASC":  {Value: "asc"},
		"DESC": {Value: "desc"},
	},
})

// filterInput selects records whose field equals the value, "all" disables the filter
var filterInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "FilterInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"field": {Type: graphql.NewNonNull(graphql.String)},
		"value": {Type: graphql.NewNonNull(graphql.String)},
	},
})

var rangeInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "RangeInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"field": {Type: graphql.NewNonNull(graphql.String)},
		"min":   {Type: bound},
		"max":   {Type: bound},
	},
})

var orderInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "OrderInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"field":     {Type: graphql.NewNonNull(graphql.String)},
		"direction": {Type: sortDirection},
	},
})

var queryArgs = graphql.FieldConfigArgument{
	"search":   {Type: graphql.String},
	"filters":  {Type: graphql.NewList(graphql.NewNonNull(filterInput))},
	"ranges":   {Type: graphql.NewList(graphql.NewNonNull(rangeInput))},
	"orderBy":  {Type: orderInput},
	"page":     {Type: graphql.Int},
	"pageSize": {Type: graphql.Int},
}
