package rest

import (
	"github.com/datastax/data-views/config"
	"github.com/datastax/data-views/dataset"
	restEndpointV1 "github.com/datastax/data-views/rest/endpoint/v1"
	"github.com/datastax/data-views/session"
	"github.com/datastax/data-views/types"
)

type RouteGenerator struct {
	registry *dataset.Registry
	store    *session.Store
	config   config.Config
}

func NewRouteGenerator(
	registry *dataset.Registry,
	store *session.Store,
	cfg config.Config,
) *RouteGenerator {
	return &RouteGenerator{
		registry: registry,
		store:    store,
		config:   cfg,
	}
}

func (g *RouteGenerator) Routes(prefix string, operations config.Operations) []types.Route {
	return restEndpointV1.Routes(prefix, operations, g.config, g.registry, g.store)
}
