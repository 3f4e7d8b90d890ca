package dataset

import (
	"context"
	"fmt"

	"github.com/datastax/data-views/config"
	"github.com/datastax/data-views/log"
	e "github.com/datastax/data-views/rest/errors"
	"github.com/datastax/data-views/source"
)

// SourceFactory creates the source of a dataset
type SourceFactory func(cfg config.SourceConfig) (source.Source, error)

// Registry holds the datasets by name in declaration order
type Registry struct {
	datasets []*Dataset
	byName   map[string]*Dataset
	logger   log.Logger
}

func NewRegistry(logger log.Logger) *Registry {
	return &Registry{
		byName: make(map[string]*Dataset),
		logger: logger,
	}
}

// NewRegistryFromConfig creates the sources and the datasets of every declared dataset
func NewRegistryFromConfig(cfgs []config.DatasetConfig, factory SourceFactory, logger log.Logger) (*Registry, error) {
	registry := NewRegistry(logger)
	for _, cfg := range cfgs {
		src, err := factory(cfg.Source)
		if err != nil {
			registry.Close()
			return nil, fmt.Errorf("unable to create source for dataset '%s': %w", cfg.Name, err)
		}
		ds, err := New(cfg, src, logger)
		if err == nil {
			err = registry.Add(ds)
		}
		if err != nil {
			_ = src.Close()
			registry.Close()
			return nil, err
		}
	}
	return registry, nil
}

func (r *Registry) Add(ds *Dataset) error {
	if _, found := r.byName[ds.Name()]; found {
		return fmt.Errorf("duplicate dataset name '%s'", ds.Name())
	}
	r.datasets = append(r.datasets, ds)
	r.byName[ds.Name()] = ds
	return nil
}

// Get returns the dataset or a NotFoundError
func (r *Registry) Get(name string) (*Dataset, error) {
	ds, found := r.byName[name]
	if !found {
		return nil, e.NewNotFoundError(fmt.Sprintf("dataset '%s' not found", name))
	}
	return ds, nil
}

func (r *Registry) Datasets() []*Dataset {
	return r.datasets
}

func (r *Registry) Names() []string {
	names := make([]string, len(r.datasets))
	for i, ds := range r.datasets {
		names[i] = ds.Name()
	}
	return names
}

// ReloadAll reloads every dataset, a failing dataset doesn't prevent the others from loading
func (r *Registry) ReloadAll(ctx context.Context) error {
	var firstErr error
	for _, ds := range r.datasets {
		if _, err := ds.Reload(ctx); err != nil {
			r.logger.Error("unable to reload dataset", "dataset", ds.Name(), "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (r *Registry) Close() {
	for _, ds := range r.datasets {
		if err := ds.Close(); err != nil {
			r.logger.Warn("unable to close dataset source", "dataset", ds.Name(), "error", err)
		}
	}
}
