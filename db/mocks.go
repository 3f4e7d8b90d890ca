package db

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type SessionMock struct {
	mock.Mock
}

func NewSessionMock() *SessionMock {
	return &SessionMock{}
}

func (o *SessionMock) ExecuteIter(
	ctx context.Context, query string, options *QueryOptions, values ...interface{},
) (ResultSet, error) {
	args := o.Called(query, options, values)
	rs, _ := args.Get(0).(ResultSet)
	return rs, args.Error(1)
}

func (o *SessionMock) Close() {
	o.Called()
}

// SetRows registers the rows returned when reading the whole table
func (o *SessionMock) SetRows(keyspace string, table string, rows []map[string]interface{}) *SessionMock {
	resultMock := &ResultMock{}
	resultMock.On("Values").Return(rows)
	o.On("ExecuteIter", `SELECT * FROM "`+keyspace+`"."`+table+`"`, mock.Anything, mock.Anything).
		Return(resultMock, nil)
	return o
}

type ResultMock struct {
	mock.Mock
}

func (o *ResultMock) Values() []map[string]interface{} {
	args := o.Called()
	return args.Get(0).([]map[string]interface{})
}
