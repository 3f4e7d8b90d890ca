package graphql

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/graphql-go/graphql"

	"github.com/datastax/data-views/config"
	"github.com/datastax/data-views/dataset"
	"github.com/datastax/data-views/log"
	"github.com/datastax/data-views/types"
)

type executeQueryFunc func(ctx context.Context, request RequestBody) *graphql.Result

type RouteGenerator struct {
	logger    log.Logger
	schemaGen *SchemaGenerator
}

type RequestBody struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

func NewRouteGenerator(registry *dataset.Registry, cfg config.Config) *RouteGenerator {
	return &RouteGenerator{
		logger:    cfg.Logger(),
		schemaGen: NewSchemaGenerator(registry, cfg),
	}
}

// Routes serves the schema of every dataset on the provided pattern
func (rg *RouteGenerator) Routes(pattern string, ops config.Operations) ([]types.Route, error) {
	schema, err := rg.schemaGen.BuildSchema(ops)
	if err != nil {
		return nil, fmt.Errorf("unable to build graphql schema: %w", err)
	}

	return routesForSchema(pattern, func(ctx context.Context, request RequestBody) *graphql.Result {
		return rg.executeQuery(ctx, request, schema)
	}), nil
}

func routesForSchema(pattern string, execute executeQueryFunc) []types.Route {
	return []types.Route{
		{
			Method:  http.MethodGet,
			Pattern: pattern,
			Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				values := r.URL.Query()
				request := RequestBody{Query: values.Get("query"), OperationName: values.Get("operationName")}
				if raw := values.Get("variables"); raw != "" {
					if err := json.Unmarshal([]byte(raw), &request.Variables); err != nil {
						http.Error(w, "Query variables are invalid", http.StatusBadRequest)
						return
					}
				}
				writeResult(w, execute(r.Context(), request))
			}),
		},
		{
			Method:  http.MethodPost,
			Pattern: pattern,
			Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Body == nil {
					http.Error(w, "No request body", http.StatusBadRequest)
					return
				}

				var body RequestBody
				err := json.NewDecoder(r.Body).Decode(&body)
				if err != nil {
					http.Error(w, "Request body is invalid", http.StatusBadRequest)
					return
				}

				writeResult(w, execute(r.Context(), body))
			}),
		},
	}
}

func writeResult(w http.ResponseWriter, result *graphql.Result) {
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(result)
	if err != nil {
		http.Error(w, "response could not be encoded: "+err.Error(), http.StatusInternalServerError)
	}
}

func (rg *RouteGenerator) executeQuery(
	ctx context.Context, request RequestBody, schema graphql.Schema,
) *graphql.Result {
	result := graphql.Do(graphql.Params{
		Schema:         schema,
		RequestString:  request.Query,
		VariableValues: request.Variables,
		OperationName:  request.OperationName,
		Context:        ctx,
	})
	if len(result.Errors) > 0 {
		rg.logger.Error("unexpected errors processing graphql query", "errors", result.Errors)
	}
	return result
}
