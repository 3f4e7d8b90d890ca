// Package source loads the records of a dataset from a file, a Cassandra table or a SQL query
package source

import (
	"context"
	"fmt"

	"github.com/datastax/data-views/config"
	"github.com/datastax/data-views/types"
)

// Source provides the full set of records of a dataset
type Source interface {
	// Name describes where the records come from
	Name() string

	// Load reads every record. It's invoked on startup and on each refresh.
	Load(ctx context.Context) ([]types.Record, error)

	Close() error
}

// New returns the source for the provided settings
func New(cfg config.SourceConfig) (Source, error) {
	switch cfg.Type {
	case config.SourceFile:
		return NewFileSource(cfg.Path), nil
	case config.SourceCassandra:
		return NewCassandraSource(cfg)
	case config.SourceSQL:
		return NewSQLSource(cfg.Driver, cfg.DSN, cfg.Query)
	}
	return nil, fmt.Errorf("unsupported source type '%s'", cfg.Type)
}
