package pipeline

// Pagination tracks the current page and page size. Total pages are computed by the
// pipeline and handed back through Observe.
type Pagination struct {
	currentPage int
	pageSize    int
	totalPages  int
}

func NewPagination(pageSize int) *Pagination {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Pagination{currentPage: 1, pageSize: pageSize, totalPages: 1}
}

func (p *Pagination) State() PageState {
	return PageState{CurrentPage: p.currentPage, PageSize: p.pageSize}
}

func (p *Pagination) CurrentPage() int {
	return p.currentPage
}

func (p *Pagination) PageSize() int {
	return p.pageSize
}

func (p *Pagination) TotalPages() int {
	return p.totalPages
}

// SetPage moves to page n, clamped into [1, TotalPages]
func (p *Pagination) SetPage(n int) {
	p.currentPage = clamp(n, 1, p.totalPages)
}

// SetPageSize changes the page size and keeps the current page; the next Observe clamps
// it when it falls out of range. Non-positive sizes are ignored.
func (p *Pagination) SetPageSize(n int) {
	if n <= 0 {
		return
	}
	p.pageSize = n
}

// OnCriteriaChanged goes back to the first page
func (p *Pagination) OnCriteriaChanged() {
	p.currentPage = 1
}

// Observe records the totals of the latest recomputation
func (p *Pagination) Observe(totalPages int) {
	if totalPages < 1 {
		totalPages = 1
	}
	p.totalPages = totalPages
	p.currentPage = clamp(p.currentPage, 1, totalPages)
}
