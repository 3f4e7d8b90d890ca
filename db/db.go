package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gocql/gocql"
)

// Db represents a connection to a db
type Db struct {
	session Session
}

// NewDb Gets a pointer to a db, username and password are only used when a username is provided
func NewDb(username string, password string, hosts ...string) (*Db, error) {
	cluster := gocql.NewCluster(hosts...)
	cluster.PoolConfig.HostSelectionPolicy = gocql.TokenAwareHostPolicy(gocql.RoundRobinHostPolicy())

	if username != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: username,
			Password: password,
		}
	}

	session, err := cluster.CreateSession()
	if err != nil {
		return nil, err
	}

	if session == nil {
		return nil, errors.New("failed to create session")
	}

	return &Db{
		session: &GoCqlSession{ref: session},
	}, nil
}

// NewDbWithSession wraps an existing session
func NewDbWithSession(session Session) *Db {
	return &Db{session: session}
}

// ParseConsistency returns the consistency level by name, LOCAL_ONE when empty
func ParseConsistency(name string) (gocql.Consistency, error) {
	if name == "" {
		return gocql.LocalOne, nil
	}
	return gocql.ParseConsistencyWrapper(strings.ToUpper(name))
}

// Rows reads every row of the table
func (db *Db) Rows(ctx context.Context, keyspace string, table string, options *QueryOptions) ([]map[string]interface{}, error) {
	query := fmt.Sprintf("SELECT * FROM %s.%s", quoteIdentifier(keyspace), quoteIdentifier(table))
	rs, err := db.session.ExecuteIter(ctx, query, options)
	if err != nil {
		return nil, fmt.Errorf("unable to read table %s.%s: %w", keyspace, table, err)
	}
	return rs.Values(), nil
}

func (db *Db) Close() {
	db.session.Close()
}

func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
