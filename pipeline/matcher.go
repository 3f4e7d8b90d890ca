package pipeline

import (
	"strings"
)

// MatcherConfig declares which fields the matcher operates on
type MatcherConfig struct {
	// SearchFields are the string fields tested against the search term. When empty every
	// string-valued field reported by the accessor is searched.
	SearchFields []string

	// CoercedSearchFields are non-string fields whose string form is also searched.
	CoercedSearchFields []string

	// TextMatchFields maps a discrete filter field to a free-text field. A record passes
	// the discrete filter when the text field contains the filter value, even if the
	// filtered field itself holds a different value.
	TextMatchFields map[string]string

	// MissingNumeric is the value used for range comparison when a record lacks the field.
	MissingNumeric float64

	// ExcludeMissingNumeric makes records lacking a range-filtered field fail the range.
	ExcludeMissingNumeric bool
}

// Matcher evaluates whether a record satisfies criteria
type Matcher[R any] struct {
	accessor Accessor[R]
	config   MatcherConfig
}

func NewMatcher[R any](accessor Accessor[R], config MatcherConfig) *Matcher[R] {
	return &Matcher[R]{accessor: accessor, config: config}
}

func (m *Matcher[R]) Config() MatcherConfig {
	return m.config
}

// Matches ANDs the search term, every discrete filter and every range filter
func (m *Matcher[R]) Matches(record R, criteria Criteria) bool {
	if !m.matchesSearch(record, criteria.searchTerm) {
		return false
	}

	for field, value := range criteria.discrete {
		if !m.matchesDiscrete(record, field, value) {
			return false
		}
	}

	for field, r := range criteria.ranges {
		if !m.matchesRange(record, field, r) {
			return false
		}
	}

	return true
}

func (m *Matcher[R]) matchesSearch(record R, term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)

	fields := m.config.SearchFields
	if len(fields) == 0 {
		fields = m.accessor.Fields(record)
	}

	for _, field := range fields {
		value, ok := m.accessor.Get(record, field)
		if !ok {
			continue
		}
		if s, isString := value.(string); isString && strings.Contains(strings.ToLower(s), term) {
			return true
		}
	}

	for _, field := range m.config.CoercedSearchFields {
		value, ok := m.accessor.Get(record, field)
		if !ok {
			continue
		}
		if strings.Contains(strings.ToLower(toText(value)), term) {
			return true
		}
	}

	return false
}

func (m *Matcher[R]) matchesDiscrete(record R, field, expected string) bool {
	if isDisabled(expected) {
		return true
	}

	if value, ok := m.accessor.Get(record, field); ok {
		if s, isString := value.(string); isString {
			if strings.EqualFold(s, expected) {
				return true
			}
		} else if strings.EqualFold(toText(value), expected) {
			return true
		}
	}

	if textField, ok := m.config.TextMatchFields[field]; ok {
		if value, ok := m.accessor.Get(record, textField); ok {
			if strings.Contains(strings.ToLower(toText(value)), strings.ToLower(expected)) {
				return true
			}
		}
	}

	return false
}

func (m *Matcher[R]) matchesRange(record R, field string, r Range) bool {
	if r.IsZero() {
		return true
	}

	number, ok := m.number(record, field)
	if !ok {
		if m.config.ExcludeMissingNumeric {
			return false
		}
		number = m.config.MissingNumeric
	}

	return r.contains(number)
}

func (m *Matcher[R]) number(record R, field string) (float64, bool) {
	value, ok := m.accessor.Get(record, field)
	if !ok {
		return 0, false
	}
	return toNumber(value)
}
