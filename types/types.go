// types package contains the public API types
// that are shared between both REST and GraphQL
package types

import "net/http"

// Record is one row of a dataset: field name to primitive value
type Record map[string]interface{}

// Clone returns a shallow copy of the record
func (r Record) Clone() Record {
	result := make(Record, len(r))
	for k, v := range r {
		result[k] = v
	}
	return result
}

// SnapshotResult is the read-only projection of one pipeline recomputation
type SnapshotResult struct {
	Records      []Record `json:"records"`
	TotalMatches int      `json:"totalMatches"`
	CurrentPage  int      `json:"currentPage"`
	TotalPages   int      `json:"totalPages"`
	Empty        bool     `json:"empty"`
}

// QueryFilter is a discrete filter on a field, "all" disables it
type QueryFilter struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// QueryRange is a range filter on a numeric field. Bounds are kept as raw values
// so partially typed input can be treated as no constraint.
type QueryRange struct {
	Field string      `json:"field"`
	Min   interface{} `json:"min"`
	Max   interface{} `json:"max"`
}

// QueryOrder describes the requested ordering
type QueryOrder struct {
	Field     string `json:"field"`
	Direction string `json:"direction"`
}

// QueryOptions holds every control of a stateless query
type QueryOptions struct {
	Search   string        `json:"search"`
	Filters  []QueryFilter `json:"filters"`
	Ranges   []QueryRange  `json:"ranges"`
	OrderBy  *QueryOrder   `json:"orderBy"`
	Page     int           `json:"page"`
	PageSize int           `json:"pageSize"`
}

// Route represents a request route to be served
type Route struct {
	Method  string
	Pattern string
	Handler http.Handler
}
