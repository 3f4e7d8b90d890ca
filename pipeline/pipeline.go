// Package pipeline implements the filter, sort and paginate pipeline behind tabular data
// views. Records are generic and reached only through an Accessor.
package pipeline

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const DefaultPageSize = 10

// PageState is the requested page and its size
type PageState struct {
	CurrentPage int `json:"currentPage"`
	PageSize    int `json:"pageSize"`
}

// Result is the output of one recomputation
type Result[R any] struct {
	Visible       []R
	TotalMatches  int
	TotalPages    int
	EffectivePage int
}

// Pipeline composes matching, ordering and slicing over a full record set
type Pipeline[R any] struct {
	accessor Accessor[R]
	matcher  *Matcher[R]
	language language.Tag
}

func New[R any](accessor Accessor[R], config MatcherConfig, lang language.Tag) *Pipeline[R] {
	return &Pipeline[R]{
		accessor: accessor,
		matcher:  NewMatcher(accessor, config),
		language: lang,
	}
}

func (p *Pipeline[R]) Matcher() *Matcher[R] {
	return p.matcher
}

func (p *Pipeline[R]) Accessor() Accessor[R] {
	return p.accessor
}

func (p *Pipeline[R]) Language() language.Tag {
	return p.language
}

// Recompute filters, sorts and slices the visible page. It does not modify its inputs
// and returns the same result for the same inputs.
func (p *Pipeline[R]) Recompute(all []R, criteria Criteria, spec *SortSpec, page PageState) Result[R] {
	matched := p.Matched(all, criteria, spec)

	pageSize := page.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	totalPages := TotalPages(len(matched), pageSize)
	effective := clamp(page.CurrentPage, 1, totalPages)

	start := (effective - 1) * pageSize
	end := start + pageSize
	if start > len(matched) {
		start = len(matched)
	}
	if end > len(matched) {
		end = len(matched)
	}

	return Result[R]{
		Visible:       matched[start:end:end],
		TotalMatches:  len(matched),
		TotalPages:    totalPages,
		EffectivePage: effective,
	}
}

// Matched returns every record satisfying the criteria, ordered by the sort spec
func (p *Pipeline[R]) Matched(all []R, criteria Criteria, spec *SortSpec) []R {
	matched := make([]R, 0, len(all))
	for _, record := range all {
		if p.matcher.Matches(record, criteria) {
			matched = append(matched, record)
		}
	}

	if cmp := BuildComparator(p.accessor, spec, p.language); cmp != nil {
		sort.SliceStable(matched, func(i, j int) bool {
			return cmp(matched[i], matched[j]) < 0
		})
	}

	return matched
}

// Facets returns the distinct values of a field across the record set, collated
func (p *Pipeline[R]) Facets(all []R, field string) []string {
	seen := make(map[string]struct{})
	values := make([]string, 0)
	for _, record := range all {
		value, ok := p.accessor.Get(record, field)
		if !ok {
			continue
		}
		text := toText(value)
		if text == "" {
			continue
		}
		if _, found := seen[text]; found {
			continue
		}
		seen[text] = struct{}{}
		values = append(values, text)
	}

	collate.New(p.language).SortStrings(values)
	return values
}

// TotalPages is ceil(matches / pageSize), never less than one
func TotalPages(matches, pageSize int) int {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	pages := (matches + pageSize - 1) / pageSize
	if pages < 1 {
		return 1
	}
	return pages
}

func clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
