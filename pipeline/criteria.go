package pipeline

import (
	"sort"
	"strings"
)

// All disables a discrete filter
const All = "all"

// Range bounds a numeric field. A nil bound is unbounded.
type Range struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// IsZero reports whether the range has no bounds at all
func (r Range) IsZero() bool {
	return r.Min == nil && r.Max == nil
}

func (r Range) contains(value float64) bool {
	if r.Min != nil && value < *r.Min {
		return false
	}
	if r.Max != nil && value > *r.Max {
		return false
	}
	return true
}

func (r Range) equal(other Range) bool {
	return boundEqual(r.Min, other.Min) && boundEqual(r.Max, other.Max)
}

func boundEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// Criteria is the combined search term, discrete filters and range filters. It is an
// immutable value: every With method returns a modified copy.
type Criteria struct {
	searchTerm string
	discrete   map[string]string
	ranges     map[string]Range
}

// NewCriteria returns criteria that match every record
func NewCriteria() Criteria {
	return Criteria{}
}

func (c Criteria) SearchTerm() string {
	return c.searchTerm
}

// DiscreteFilters returns a copy of the active discrete filters
func (c Criteria) DiscreteFilters() map[string]string {
	result := make(map[string]string, len(c.discrete))
	for k, v := range c.discrete {
		result[k] = v
	}
	return result
}

// RangeFilters returns a copy of the active range filters
func (c Criteria) RangeFilters() map[string]Range {
	result := make(map[string]Range, len(c.ranges))
	for k, v := range c.ranges {
		result[k] = v
	}
	return result
}

// DiscreteFilter returns the selected value for a field, All when unfiltered
func (c Criteria) DiscreteFilter(field string) string {
	if value, ok := c.discrete[field]; ok {
		return value
	}
	return All
}

func (c Criteria) WithSearchTerm(term string) Criteria {
	c.searchTerm = term
	return c
}

// WithDiscreteFilter selects a value for a field. All or an empty value clears it.
func (c Criteria) WithDiscreteFilter(field, value string) Criteria {
	discrete := c.DiscreteFilters()
	if isDisabled(value) {
		delete(discrete, field)
	} else {
		discrete[field] = value
	}
	c.discrete = discrete
	return c
}

// WithRangeFilter bounds a field. Two nil bounds clear it.
func (c Criteria) WithRangeFilter(field string, min, max *float64) Criteria {
	ranges := c.RangeFilters()
	r := Range{Min: copyBound(min), Max: copyBound(max)}
	if r.IsZero() {
		delete(ranges, field)
	} else {
		ranges[field] = r
	}
	c.ranges = ranges
	return c
}

func (c Criteria) WithoutRangeFilter(field string) Criteria {
	return c.WithRangeFilter(field, nil, nil)
}

// IsEmpty reports whether no predicate is active
func (c Criteria) IsEmpty() bool {
	return c.searchTerm == "" && len(c.discrete) == 0 && len(c.ranges) == 0
}

// Equal compares the criteria semantically
func (c Criteria) Equal(other Criteria) bool {
	if c.searchTerm != other.searchTerm ||
		len(c.discrete) != len(other.discrete) ||
		len(c.ranges) != len(other.ranges) {
		return false
	}
	for k, v := range c.discrete {
		if ov, ok := other.discrete[k]; !ok || ov != v {
			return false
		}
	}
	for k, v := range c.ranges {
		if ov, ok := other.ranges[k]; !ok || !v.equal(ov) {
			return false
		}
	}
	return true
}

// Fields returns the filtered field names in a stable order
func (c Criteria) Fields() []string {
	fields := make([]string, 0, len(c.discrete)+len(c.ranges))
	for k := range c.discrete {
		fields = append(fields, k)
	}
	for k := range c.ranges {
		if _, ok := c.discrete[k]; !ok {
			fields = append(fields, k)
		}
	}
	sort.Strings(fields)
	return fields
}

func isDisabled(value string) bool {
	value = strings.TrimSpace(value)
	return value == "" || strings.EqualFold(value, All)
}

func copyBound(b *float64) *float64 {
	if b == nil {
		return nil
	}
	v := *b
	return &v
}
