package source

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gopkg.in/inf.v0"

	"github.com/datastax/data-views/db"
	"github.com/datastax/data-views/types"
)

func TestCassandraSourceLoad(t *testing.T) {
	name := "Tom"
	var department *string
	sessionMock := db.NewSessionMock().SetRows("hr", "employees", []map[string]interface{}{
		{"name": &name, "department": department, "salary": inf.NewDec(622809, 2)},
	})
	src := NewCassandraSourceWithDb(db.NewDbWithSession(sessionMock), "hr", "employees")

	records, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []types.Record{{"name": "Tom", "department": nil, "salary": 6228.09}}, records)
	sessionMock.AssertExpectations(t)

	sessionMock.On("Close").Return()
	assert.NoError(t, src.Close())
	sessionMock.AssertCalled(t, "Close")
}

func TestCassandraSourceConnectError(t *testing.T) {
	src := &CassandraSource{
		keyspace: "hr",
		table:    "employees",
		connect: func() (*db.Db, error) {
			return nil, errors.New("no hosts available")
		},
	}
	_, err := src.Load(context.Background())
	assert.EqualError(t, err, "unable to connect to cluster: no hosts available")
}

func TestCassandraSourceQueryError(t *testing.T) {
	sessionMock := db.NewSessionMock()
	sessionMock.On("ExecuteIter", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("timeout"))
	src := NewCassandraSourceWithDb(db.NewDbWithSession(sessionMock), "hr", "employees")

	_, err := src.Load(context.Background())
	assert.EqualError(t, err, "unable to read table hr.employees: timeout")
}
