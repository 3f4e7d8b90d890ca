package dataset

import (
	"fmt"

	"github.com/datastax/data-views/pipeline"
	e "github.com/datastax/data-views/rest/errors"
	"github.com/datastax/data-views/types"
)

// Criteria builds the filter criteria of a query, rejecting fields the dataset doesn't allow to filter
func (d *Dataset) Criteria(options types.QueryOptions) (pipeline.Criteria, error) {
	criteria := pipeline.NewCriteria().WithSearchTerm(options.Search)

	for _, filter := range options.Filters {
		if err := d.CheckFilterable(filter.Field); err != nil {
			return criteria, err
		}
		criteria = criteria.WithDiscreteFilter(filter.Field, filter.Value)
	}

	for _, r := range options.Ranges {
		if err := d.CheckFilterable(r.Field); err != nil {
			return criteria, err
		}
		criteria = criteria.WithRangeFilter(r.Field, pipeline.ParseBound(r.Min), pipeline.ParseBound(r.Max))
	}

	return criteria, nil
}

// SortSpec converts the requested order, nil keeps the source order
func (d *Dataset) SortSpec(order *types.QueryOrder) (*pipeline.SortSpec, error) {
	if order == nil || order.Field == "" {
		return nil, nil
	}
	if err := d.CheckSortable(order.Field); err != nil {
		return nil, err
	}
	return &pipeline.SortSpec{Field: order.Field, Direction: pipeline.ParseDirection(order.Direction)}, nil
}

// Query runs a stateless query over the published records
func (d *Dataset) Query(options types.QueryOptions, defaultPageSize int, maxPageSize int) (
	pipeline.Result[types.Record], error,
) {
	var result pipeline.Result[types.Record]

	criteria, err := d.Criteria(options)
	if err != nil {
		return result, err
	}

	spec, err := d.SortSpec(options.OrderBy)
	if err != nil {
		return result, err
	}

	pageSize, err := d.CheckPageSize(options.PageSize, defaultPageSize, maxPageSize)
	if err != nil {
		return result, err
	}

	page := options.Page
	if page < 1 {
		page = 1
	}

	records, _ := d.Records()
	return d.pipeline.Recompute(records, criteria, spec, pipeline.PageState{CurrentPage: page, PageSize: pageSize}), nil
}

// Facets returns the distinct values of a field, sorted for display
func (d *Dataset) Facets(field string) ([]string, error) {
	if err := d.CheckFilterable(field); err != nil {
		return nil, err
	}
	records, _ := d.Records()
	return d.pipeline.Facets(records, field), nil
}

// NewView creates an interactive view over the current records
func (d *Dataset) NewView(pageSize int) (*pipeline.View[types.Record], uint64) {
	records, version := d.Records()
	return pipeline.NewView(d.pipeline, records, pageSize), version
}

// CheckPageSize returns the page size to use for a requested size, zero or less meaning the default
func (d *Dataset) CheckPageSize(requested int, defaultPageSize int, maxPageSize int) (int, error) {
	if requested <= 0 {
		return d.PageSize(defaultPageSize), nil
	}
	if maxPageSize > 0 && requested > maxPageSize {
		return 0, e.NewBadRequestError(fmt.Sprintf("page size must be at most %d", maxPageSize))
	}
	return requested, nil
}

// CheckSortable returns a BadRequestError when the field can't be used for ordering
func (d *Dataset) CheckSortable(field string) error {
	if field != "" && !d.cfg.IsSortable(field) {
		return e.NewBadRequestError(fmt.Sprintf("field '%s' is not sortable", field))
	}
	return nil
}

// CheckFilterable returns a BadRequestError when the field can't be filtered
func (d *Dataset) CheckFilterable(field string) error {
	if field == "" {
		return e.NewBadRequestError("filter field is required")
	}
	if !d.cfg.IsFilterable(field) {
		return e.NewBadRequestError(fmt.Sprintf("field '%s' is not filterable", field))
	}
	return nil
}
