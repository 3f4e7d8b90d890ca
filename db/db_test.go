package db

import (
	"context"
	"errors"
	"testing"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDbRows(t *testing.T) {
	title := "Dune"
	rows := []map[string]interface{}{{"title": &title}}
	sessionMock := NewSessionMock().SetRows("store", "books", rows)
	db := NewDbWithSession(sessionMock)

	result, err := db.Rows(context.Background(), "store", "books", NewQueryOptions())
	require.NoError(t, err)
	assert.Equal(t, rows, result)
	sessionMock.AssertExpectations(t)
}

func TestDbRowsError(t *testing.T) {
	sessionMock := NewSessionMock()
	sessionMock.On("ExecuteIter", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("unavailable"))
	db := NewDbWithSession(sessionMock)

	_, err := db.Rows(context.Background(), "store", "books", nil)
	assert.EqualError(t, err, "unable to read table store.books: unavailable")
}

func TestDbClose(t *testing.T) {
	sessionMock := NewSessionMock()
	sessionMock.On("Close").Return()
	NewDbWithSession(sessionMock).Close()
	sessionMock.AssertCalled(t, "Close")
}

func TestQuoteIdentifier(t *testing.T) {
	assert.Equal(t, `"books"`, quoteIdentifier("books"))
	assert.Equal(t, `"my""table"`, quoteIdentifier(`my"table`))
}

func TestParseConsistency(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected gocql.Consistency
	}{
		{"Empty", "", gocql.LocalOne},
		{"Lowercase", "local_quorum", gocql.LocalQuorum},
		{"Uppercase", "ONE", gocql.One},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			consistency, err := ParseConsistency(tt.value)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, consistency)
		})
	}

	_, err := ParseConsistency("sometimes")
	assert.Error(t, err)
}

func TestQueryOptions(t *testing.T) {
	options := NewQueryOptions()
	assert.Equal(t, gocql.LocalOne, options.Consistency)
	assert.Equal(t, defaultFetchSize, options.FetchSize)

	options.WithConsistency(gocql.Quorum).WithFetchSize(50)
	assert.Equal(t, gocql.Quorum, options.Consistency)
	assert.Equal(t, 50, options.FetchSize)
}
