package models

type SearchUpdate struct {
	Term string `json:"term"`
}

type FilterUpdate struct {
	Value string `json:"value"`
}

type RangeUpdate struct {
	Min interface{} `json:"min"`
	Max interface{} `json:"max"`
}

type SortUpdate struct {
	Field     string `json:"field" validate:"required"`
	Direction string `json:"direction,omitempty" validate:"omitempty,oneof=asc desc ASC DESC"`
}

type PageUpdate struct {
	Page     int `json:"page" validate:"gte=0"`
	PageSize int `json:"pageSize,omitempty" validate:"gte=0"`
}
