package models

// Query holds every control of a stateless query over a dataset
type Query struct {
	Search   string   `json:"search,omitempty"`
	Filters  []Filter `json:"filters,omitempty" validate:"dive"`
	Ranges   []Range  `json:"ranges,omitempty" validate:"dive"`
	OrderBy  *OrderBy `json:"orderBy,omitempty"`
	Page     int      `json:"page,omitempty" validate:"gte=0"`
	PageSize int      `json:"pageSize,omitempty" validate:"gte=0"`
}

// Filter keeps the records whose field equals the value, "all" disables it
type Filter struct {
	Field string `json:"field" validate:"required"`
	Value string `json:"value"`
}

// Range keeps the records whose numeric field is within the bounds. Bounds that can't be
// read as a number, including partially typed ones, are no constraint.
type Range struct {
	Field string      `json:"field" validate:"required"`
	Min   interface{} `json:"min,omitempty"`
	Max   interface{} `json:"max,omitempty"`
}

type OrderBy struct {
	Field     string `json:"field" validate:"required"`
	Direction string `json:"direction,omitempty" validate:"omitempty,oneof=asc desc ASC DESC"`
}
