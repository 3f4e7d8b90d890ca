package source

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/datastax/data-views/types"
)

type SourceMock struct {
	mock.Mock
}

func NewSourceMock() *SourceMock {
	return &SourceMock{}
}

func (o *SourceMock) Name() string {
	return "mock"
}

func (o *SourceMock) Load(ctx context.Context) ([]types.Record, error) {
	args := o.Called()
	records, _ := args.Get(0).([]types.Record)
	return records, args.Error(1)
}

func (o *SourceMock) Close() error {
	args := o.Called()
	return args.Error(0)
}

// StaticSource always returns the same records
type StaticSource struct {
	records []types.Record
}

func NewStaticSource(records []types.Record) *StaticSource {
	return &StaticSource{records: records}
}

func (s *StaticSource) Name() string {
	return "static"
}

func (s *StaticSource) Load(ctx context.Context) ([]types.Record, error) {
	return s.records, nil
}

func (s *StaticSource) Close() error {
	return nil
}
