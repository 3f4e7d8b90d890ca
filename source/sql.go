package source

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"

	"github.com/datastax/data-views/config"
	"github.com/datastax/data-views/types"
)

// SQLSource runs a query and maps every row to a record keyed by column name
type SQLSource struct {
	driver string
	db     *sql.DB
	query  string
}

// NewSQLSource opens a connection pool, the connection itself is established on first use
func NewSQLSource(driver string, dsn string, query string) (*SQLSource, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	db.SetMaxOpenConns(2)
	return NewSQLSourceWithDb(driver, db, query), nil
}

func NewSQLSourceWithDb(driver string, db *sql.DB, query string) *SQLSource {
	return &SQLSource{driver: driver, db: db, query: query}
}

func (s *SQLSource) Name() string {
	return config.SourceSQL + ":" + s.driver
}

func (s *SQLSource) Load(ctx context.Context) ([]types.Record, error) {
	rows, err := s.db.QueryContext(ctx, s.query)
	if err != nil {
		return nil, fmt.Errorf("unable to run query: %w", err)
	}
	defer rows.Close()

	columnTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}
	columns := make([]string, len(columnTypes))
	numeric := make([]bool, len(columnTypes))
	for i, ct := range columnTypes {
		columns[i] = ct.Name()
		numeric[i] = isNumericColumn(ct.DatabaseTypeName())
	}

	records := make([]types.Record, 0)
	for rows.Next() {
		values := make([]interface{}, len(columns))
		pointers := make([]interface{}, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, fmt.Errorf("unable to scan row: %w", err)
		}

		record := make(types.Record, len(columns))
		for i, column := range columns {
			record[column] = sqlValue(values[i], numeric[i])
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

func (s *SQLSource) Close() error {
	return s.db.Close()
}

// sqlValue converts driver values, text encoded numbers of numeric columns are parsed
func sqlValue(value interface{}, numeric bool) interface{} {
	if b, ok := value.([]byte); ok {
		if numeric {
			if f, err := strconv.ParseFloat(string(b), 64); err == nil {
				return f
			}
		}
		return string(b)
	}
	return types.ToPrimitive(value)
}

func isNumericColumn(databaseType string) bool {
	switch strings.ToUpper(databaseType) {
	case "DECIMAL", "NUMERIC", "FLOAT", "DOUBLE", "REAL",
		"TINYINT", "SMALLINT", "MEDIUMINT", "INT", "INTEGER", "BIGINT",
		"UNSIGNED TINYINT", "UNSIGNED SMALLINT", "UNSIGNED MEDIUMINT", "UNSIGNED INT", "UNSIGNED BIGINT":
		return true
	}
	return false
}
