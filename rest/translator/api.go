package translator

import (
	"encoding/csv"
	"io"

	"github.com/datastax/data-views/pipeline"
	m "github.com/datastax/data-views/rest/models"
	"github.com/datastax/data-views/types"
)

// ToQueryOptions converts a REST query into the options shared by the REST and GraphQL endpoints
func ToQueryOptions(query m.Query) types.QueryOptions {
	options := types.QueryOptions{
		Search:   query.Search,
		Page:     query.Page,
		PageSize: query.PageSize,
	}

	for _, f := range query.Filters {
		options.Filters = append(options.Filters, types.QueryFilter{Field: f.Field, Value: f.Value})
	}

	for _, r := range query.Ranges {
		options.Ranges = append(options.Ranges, types.QueryRange{Field: r.Field, Min: r.Min, Max: r.Max})
	}

	if query.OrderBy != nil {
		options.OrderBy = &types.QueryOrder{Field: query.OrderBy.Field, Direction: query.OrderBy.Direction}
	}

	return options
}

// ToSnapshotResult converts a matched page
func ToSnapshotResult(visible []types.Record, totalMatches int, currentPage int, totalPages int) types.SnapshotResult {
	if visible == nil {
		visible = []types.Record{}
	}
	return types.SnapshotResult{
		Records:      visible,
		TotalMatches: totalMatches,
		CurrentPage:  currentPage,
		TotalPages:   totalPages,
		Empty:        totalMatches == 0,
	}
}

func FromResult(result pipeline.Result[types.Record]) types.SnapshotResult {
	return ToSnapshotResult(result.Visible, result.TotalMatches, result.EffectivePage, result.TotalPages)
}

func FromSnapshot(snapshot pipeline.Snapshot[types.Record]) types.SnapshotResult {
	return ToSnapshotResult(snapshot.Visible, snapshot.TotalMatches, snapshot.CurrentPage, snapshot.TotalPages)
}

// ToView describes the state of a view
func ToView(id string, datasetName string, view *pipeline.View[types.Record]) m.View {
	criteria := view.Criteria()

	ranges := make(map[string]m.RangeBounds)
	for field, r := range criteria.RangeFilters() {
		ranges[field] = m.RangeBounds{Min: r.Min, Max: r.Max}
	}

	result := m.View{
		ID:       id,
		Dataset:  datasetName,
		Search:   criteria.SearchTerm(),
		Filters:  criteria.DiscreteFilters(),
		Ranges:   ranges,
		PageSize: view.PageState().PageSize,
		Snapshot: FromSnapshot(view.Snapshot()),
	}

	if spec := view.Sort(); spec != nil {
		result.OrderBy = &m.OrderBy{Field: spec.Field, Direction: spec.Direction.String()}
	}

	return result
}

// WriteCSV writes a header with the fields followed by one line per record, missing values are empty
func WriteCSV(w io.Writer, fields []string, records []types.Record) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(fields); err != nil {
		return err
	}

	line := make([]string, len(fields))
	for _, record := range records {
		for i, field := range fields {
			line[i] = pipeline.Text(record[field])
		}
		if err := writer.Write(line); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
