package models

import "github.com/datastax/data-views/types"

// View describes the state of an interactive view along with its current page
type View struct {
	ID       string                 `json:"id"`
	Dataset  string                 `json:"dataset"`
	Search   string                 `json:"search"`
	Filters  map[string]string      `json:"filters"`
	Ranges   map[string]RangeBounds `json:"ranges"`
	OrderBy  *OrderBy               `json:"orderBy,omitempty"`
	PageSize int                    `json:"pageSize"`
	Snapshot types.SnapshotResult   `json:"snapshot"`
}

type RangeBounds struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}
