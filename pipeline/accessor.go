package pipeline

import (
	"sort"

	"github.com/datastax/data-views/types"
)

// Accessor is the narrow capability the pipeline needs from a record type: reading a
// named field and, when no explicit search fields are declared, listing field names.
type Accessor[R any] interface {
	Get(record R, field string) (interface{}, bool)
	Fields(record R) []string
}

// MapAccessor reads fields of a types.Record
type MapAccessor struct{}

func (MapAccessor) Get(record types.Record, field string) (interface{}, bool) {
	value, ok := record[field]
	if !ok || value == nil {
		return nil, false
	}
	return value, true
}

// Fields returns the record field names sorted so search is deterministic
func (MapAccessor) Fields(record types.Record) []string {
	fields := make([]string, 0, len(record))
	for name := range record {
		fields = append(fields, name)
	}
	sort.Strings(fields)
	return fields
}

// AccessorFunc adapts a getter function into an Accessor with a fixed field list
type AccessorFunc[R any] struct {
	GetFn      func(record R, field string) (interface{}, bool)
	FieldNames []string
}

func (a AccessorFunc[R]) Get(record R, field string) (interface{}, bool) {
	return a.GetFn(record, field)
}

func (a AccessorFunc[R]) Fields(R) []string {
	return a.FieldNames
}
