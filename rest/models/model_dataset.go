package models

import "time"

type DatasetSummary struct {
	Name    string `json:"name"`
	Count   int    `json:"count"`
	Version uint64 `json:"version"`
}

type Dataset struct {
	DatasetSummary
	Source           string    `json:"source"`
	Fields           []string  `json:"fields"`
	SortableFields   []string  `json:"sortableFields,omitempty"`
	FilterableFields []string  `json:"filterableFields,omitempty"`
	PageSize         int       `json:"pageSize"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

type Facets struct {
	Field  string   `json:"field"`
	Values []string `json:"values"`
}
