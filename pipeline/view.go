package pipeline

// Snapshot is the read-only output handed to the presentation layer
type Snapshot[R any] struct {
	Visible      []R
	TotalMatches int
	CurrentPage  int
	TotalPages   int
}

// Empty reports whether the "no results" affordance should be shown
func (s Snapshot[R]) Empty() bool {
	return s.TotalMatches == 0
}

// View owns the criteria, sort and page state of one tabular view. State is mutated
// only through its intent methods, each of which recomputes the snapshot. A View is not
// safe for concurrent use.
type View[R any] struct {
	pipeline   *Pipeline[R]
	records    []R
	criteria   Criteria
	sort       *SortSpec
	pagination *Pagination
	snapshot   Snapshot[R]
}

func NewView[R any](pipeline *Pipeline[R], records []R, pageSize int) *View[R] {
	v := &View[R]{
		pipeline:   pipeline,
		records:    records,
		criteria:   NewCriteria(),
		pagination: NewPagination(pageSize),
	}
	v.recompute()
	return v
}

func (v *View[R]) Snapshot() Snapshot[R] {
	return v.snapshot
}

func (v *View[R]) Criteria() Criteria {
	return v.criteria
}

// Sort returns a copy of the active sort spec, nil for input order
func (v *View[R]) Sort() *SortSpec {
	if v.sort == nil {
		return nil
	}
	spec := *v.sort
	return &spec
}

func (v *View[R]) PageState() PageState {
	return v.pagination.State()
}

// Matched returns every matching record in view order, ignoring pagination
func (v *View[R]) Matched() []R {
	return v.pipeline.Matched(v.records, v.criteria, v.sort)
}

// Records returns the full record set the view operates on
func (v *View[R]) Records() []R {
	return v.records
}

// SetRecords replaces the underlying record set and goes back to the first page
func (v *View[R]) SetRecords(records []R) {
	v.records = records
	v.pagination.OnCriteriaChanged()
	v.recompute()
}

func (v *View[R]) SetSearchTerm(term string) {
	v.setCriteria(v.criteria.WithSearchTerm(term))
}

func (v *View[R]) SetDiscreteFilter(field, value string) {
	v.setCriteria(v.criteria.WithDiscreteFilter(field, value))
}

func (v *View[R]) SetRangeFilter(field string, min, max *float64) {
	v.setCriteria(v.criteria.WithRangeFilter(field, min, max))
}

// SetRangeInput accepts raw bounds, malformed ones are treated as no constraint
func (v *View[R]) SetRangeInput(field string, min, max interface{}) {
	v.SetRangeFilter(field, ParseBound(min), ParseBound(max))
}

func (v *View[R]) ClearRangeFilter(field string) {
	v.setCriteria(v.criteria.WithoutRangeFilter(field))
}

// SetSort orders by field; an empty field restores input order. The page is kept.
func (v *View[R]) SetSort(field string, direction Direction) {
	if field == "" {
		v.sort = nil
	} else {
		v.sort = &SortSpec{Field: field, Direction: direction}
	}
	v.recompute()
}

func (v *View[R]) ClearSort() {
	v.SetSort("", Ascending)
}

func (v *View[R]) SetPage(n int) {
	v.pagination.SetPage(n)
	v.recompute()
}

// SetPageSize keeps the current page unless it falls out of range
func (v *View[R]) SetPageSize(n int) {
	v.pagination.SetPageSize(n)
	v.recompute()
}

// ResetFilters sets every discrete filter back to All, clears ranges and the search term
func (v *View[R]) ResetFilters() {
	v.criteria = NewCriteria()
	v.pagination.OnCriteriaChanged()
	v.recompute()
}

func (v *View[R]) setCriteria(criteria Criteria) {
	if criteria.Equal(v.criteria) {
		return
	}
	v.criteria = criteria
	v.pagination.OnCriteriaChanged()
	v.recompute()
}

func (v *View[R]) recompute() {
	result := v.pipeline.Recompute(v.records, v.criteria, v.sort, v.pagination.State())
	v.pagination.Observe(result.TotalPages)
	v.snapshot = Snapshot[R]{
		Visible:      result.Visible,
		TotalMatches: result.TotalMatches,
		CurrentPage:  v.pagination.CurrentPage(),
		TotalPages:   result.TotalPages,
	}
}
