package source

import (
	"context"
	"fmt"
	"sync"

	"github.com/datastax/data-views/config"
	"github.com/datastax/data-views/db"
	"github.com/datastax/data-views/types"
)

// CassandraSource reads every row of a table. The session is created on first load.
type CassandraSource struct {
	keyspace string
	table    string
	options  *db.QueryOptions
	connect  func() (*db.Db, error)

	mu sync.Mutex
	db *db.Db
}

func NewCassandraSource(cfg config.SourceConfig) (*CassandraSource, error) {
	consistency, err := db.ParseConsistency(cfg.Consistency)
	if err != nil {
		return nil, fmt.Errorf("invalid consistency '%s': %w", cfg.Consistency, err)
	}

	return &CassandraSource{
		keyspace: cfg.Keyspace,
		table:    cfg.Table,
		options:  db.NewQueryOptions().WithConsistency(consistency),
		connect: func() (*db.Db, error) {
			return db.NewDb(cfg.Username, cfg.Password, cfg.Hosts...)
		},
	}, nil
}

// NewCassandraSourceWithDb uses an existing connection
func NewCassandraSourceWithDb(dbClient *db.Db, keyspace string, table string) *CassandraSource {
	return &CassandraSource{
		keyspace: keyspace,
		table:    table,
		options:  db.NewQueryOptions(),
		db:       dbClient,
	}
}

func (s *CassandraSource) Name() string {
	return fmt.Sprintf("cassandra:%s.%s", s.keyspace, s.table)
}

func (s *CassandraSource) Load(ctx context.Context) ([]types.Record, error) {
	dbClient, err := s.session()
	if err != nil {
		return nil, err
	}

	rows, err := dbClient.Rows(ctx, s.keyspace, s.table, s.options)
	if err != nil {
		return nil, err
	}

	return types.ToRecords(rows), nil
}

func (s *CassandraSource) session() (*db.Db, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		dbClient, err := s.connect()
		if err != nil {
			return nil, fmt.Errorf("unable to connect to cluster: %w", err)
		}
		s.db = dbClient
	}
	return s.db, nil
}

func (s *CassandraSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		s.db.Close()
		s.db = nil
	}
	return nil
}
