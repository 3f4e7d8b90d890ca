package db

import (
	"context"

	"github.com/gocql/gocql"
)

const defaultFetchSize = 1000

type QueryOptions struct {
	Consistency gocql.Consistency
	FetchSize   int
}

func NewQueryOptions() *QueryOptions {
	return &QueryOptions{
		Consistency: gocql.LocalOne,
		FetchSize:   defaultFetchSize,
	}
}

func (q *QueryOptions) WithConsistency(consistency gocql.Consistency) *QueryOptions {
	q.Consistency = consistency
	return q
}

func (q *QueryOptions) WithFetchSize(fetchSize int) *QueryOptions {
	q.FetchSize = fetchSize
	return q
}

type Session interface {
	// ExecuteIter executes a statement and returns all the rows, fetching every page
	ExecuteIter(ctx context.Context, query string, options *QueryOptions, values ...interface{}) (ResultSet, error)

	Close()
}

type ResultSet interface {
	Values() []map[string]interface{}
}

type goCqlResultSet struct {
	values []map[string]interface{}
}

func (r *goCqlResultSet) Values() []map[string]interface{} {
	return r.values
}

func newResultSet(iter *gocql.Iter) (*goCqlResultSet, error) {
	columns := iter.Columns()
	scanner := iter.Scanner()

	items := make([]map[string]interface{}, 0)

	for scanner.Next() {
		row, err := mapScan(scanner, columns)
		if err != nil {
			_ = iter.Close()
			return nil, err
		}
		items = append(items, row)
	}

	if err := iter.Close(); err != nil {
		return nil, err
	}

	return &goCqlResultSet{values: items}, nil
}

type GoCqlSession struct {
	ref *gocql.Session
}

func (session *GoCqlSession) ExecuteIter(
	ctx context.Context, query string, options *QueryOptions, values ...interface{},
) (ResultSet, error) {
	q := session.ref.Query(query, values...).WithContext(ctx)

	// New columns must show up for SELECT *
	q.NoSkipMetadata()

	if options != nil {
		q.Consistency(options.Consistency)
		if options.FetchSize > 0 {
			q.PageSize(options.FetchSize)
		}
	}

	return newResultSet(q.Iter())
}

func (session *GoCqlSession) Close() {
	session.ref.Close()
}
