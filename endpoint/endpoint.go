package endpoint

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/datastax/data-views/config"
	"github.com/datastax/data-views/dataset"
	"github.com/datastax/data-views/graphql"
	"github.com/datastax/data-views/log"
	"github.com/datastax/data-views/pipeline"
	"github.com/datastax/data-views/rest"
	"github.com/datastax/data-views/session"
	"github.com/datastax/data-views/source"
	"github.com/datastax/data-views/types"
)

const DefaultDataUpdateInterval = 30 * time.Second
const DefaultViewExpireInterval = 10 * time.Minute
const DefaultMaxPageSize = 500

type DataEndpointConfig struct {
	datasets        []config.DatasetConfig
	defaultPageSize int
	maxPageSize     int
	updateInterval  time.Duration
	expireInterval  time.Duration
	naming          config.NamingConventionFn
	sourceFactory   dataset.SourceFactory
	logger          log.Logger
}

func (cfg DataEndpointConfig) DefaultPageSize() int {
	return cfg.defaultPageSize
}

func (cfg DataEndpointConfig) MaxPageSize() int {
	return cfg.maxPageSize
}

func (cfg DataEndpointConfig) DataUpdateInterval() time.Duration {
	return cfg.updateInterval
}

func (cfg DataEndpointConfig) ViewExpireInterval() time.Duration {
	return cfg.expireInterval
}

func (cfg DataEndpointConfig) Naming() config.NamingConventionFn {
	return cfg.naming
}

func (cfg DataEndpointConfig) Logger() log.Logger {
	return cfg.logger
}

func (cfg *DataEndpointConfig) WithDatasets(datasets ...config.DatasetConfig) *DataEndpointConfig {
	cfg.datasets = append(cfg.datasets, datasets...)
	return cfg
}

func (cfg *DataEndpointConfig) WithDefaultPageSize(pageSize int) *DataEndpointConfig {
	cfg.defaultPageSize = pageSize
	return cfg
}

func (cfg *DataEndpointConfig) WithMaxPageSize(pageSize int) *DataEndpointConfig {
	cfg.maxPageSize = pageSize
	return cfg
}

func (cfg *DataEndpointConfig) WithDataUpdateInterval(updateInterval time.Duration) *DataEndpointConfig {
	cfg.updateInterval = updateInterval
	return cfg
}

func (cfg *DataEndpointConfig) WithViewExpireInterval(expireInterval time.Duration) *DataEndpointConfig {
	cfg.expireInterval = expireInterval
	return cfg
}

func (cfg *DataEndpointConfig) WithNaming(naming config.NamingConventionFn) *DataEndpointConfig {
	cfg.naming = naming
	return cfg
}

// WithSourceFactory replaces how the sources of the datasets are created, mostly for testing
func (cfg *DataEndpointConfig) WithSourceFactory(factory dataset.SourceFactory) *DataEndpointConfig {
	cfg.sourceFactory = factory
	return cfg
}

// NewEndpoint creates the sources, loads every dataset once and starts the background loops.
// It fails when a dataset can't be loaded.
func (cfg DataEndpointConfig) NewEndpoint() (*DataEndpoint, error) {
	if cfg.defaultPageSize <= 0 {
		return nil, fmt.Errorf("default page size must be positive, got %d", cfg.defaultPageSize)
	}
	if cfg.maxPageSize < cfg.defaultPageSize {
		return nil, fmt.Errorf("max page size %d is lower than the default page size %d",
			cfg.maxPageSize, cfg.defaultPageSize)
	}
	if cfg.updateInterval <= 0 || cfg.expireInterval <= 0 {
		return nil, fmt.Errorf("update and expire intervals must be positive, got %s and %s",
			cfg.updateInterval, cfg.expireInterval)
	}

	registry, err := dataset.NewRegistryFromConfig(cfg.datasets, cfg.sourceFactory, cfg.logger)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.updateInterval)
	defer cancel()
	if err := registry.ReloadAll(ctx); err != nil {
		registry.Close()
		return nil, fmt.Errorf("unable to load datasets: %w", err)
	}

	return cfg.newEndpointWithRegistry(registry), nil
}

func (cfg DataEndpointConfig) newEndpointWithRegistry(registry *dataset.Registry) *DataEndpoint {
	store := session.NewStore(cfg.expireInterval, cfg.logger)
	e := &DataEndpoint{
		registry:        registry,
		store:           store,
		updater:         dataset.NewUpdater(registry, cfg.updateInterval, cfg.logger),
		restRouteGen:    rest.NewRouteGenerator(registry, store, cfg),
		graphQLRouteGen: graphql.NewRouteGenerator(registry, cfg),
		logger:          cfg.logger,
	}

	go e.updater.Start()
	go e.store.Start()

	cfg.logger.Info("data endpoint started",
		"datasets", registry.Names(),
		"updateInterval", cfg.updateInterval,
		"viewExpireInterval", cfg.expireInterval)
	return e
}

type DataEndpoint struct {
	registry        *dataset.Registry
	store           *session.Store
	updater         *dataset.Updater
	restRouteGen    *rest.RouteGenerator
	graphQLRouteGen *graphql.RouteGenerator
	logger          log.Logger
}

func NewEndpointConfig(datasets ...config.DatasetConfig) (*DataEndpointConfig, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return NewEndpointConfigWithLogger(log.NewZapLogger(logger), datasets...), nil
}

func NewEndpointConfigWithLogger(logger log.Logger, datasets ...config.DatasetConfig) *DataEndpointConfig {
	return &DataEndpointConfig{
		datasets:        datasets,
		defaultPageSize: pipeline.DefaultPageSize,
		maxPageSize:     DefaultMaxPageSize,
		updateInterval:  DefaultDataUpdateInterval,
		expireInterval:  DefaultViewExpireInterval,
		naming:          config.NewDefaultNaming,
		sourceFactory:   source.New,
		logger:          logger,
	}
}

func (e *DataEndpoint) RoutesRest(prefix string, ops config.Operations) []types.Route {
	return e.restRouteGen.Routes(prefix, ops)
}

// RoutesGraphQL serves every dataset on a single pattern, facets are only exposed when supported
func (e *DataEndpoint) RoutesGraphQL(pattern string, ops config.Operations) ([]types.Route, error) {
	return e.graphQLRouteGen.Routes(pattern, ops)
}

func (e *DataEndpoint) Registry() *dataset.Registry {
	return e.registry
}

func (e *DataEndpoint) Store() *session.Store {
	return e.store
}

// Close stops the background loops and releases the sources
func (e *DataEndpoint) Close() {
	e.updater.Stop()
	e.store.Stop()
	<-e.updater.Done()
	<-e.store.Done()
	e.registry.Close()
	e.logger.Info("data endpoint closed")
}
