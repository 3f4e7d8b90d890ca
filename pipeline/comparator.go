package pipeline

import (
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type Direction int

const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// ParseDirection accepts asc/desc and their long forms, anything else is ascending
func ParseDirection(value string) Direction {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "desc", "descending":
		return Descending
	default:
		return Ascending
	}
}

// SortSpec orders matched records by one field
type SortSpec struct {
	Field     string
	Direction Direction
}

// Comparator orders two records, negative when a sorts before b
type Comparator[R any] func(a, b R) int

// BuildComparator returns nil when there is no sort spec, meaning input order is kept.
// Numbers and numeric strings compare numerically and sort before text, text compares
// with the collation rules of lang. Records lacking the field sort last in both
// directions. The returned comparator holds a collator and must not be shared between
// goroutines.
func BuildComparator[R any](accessor Accessor[R], spec *SortSpec, lang language.Tag) Comparator[R] {
	if spec == nil || spec.Field == "" {
		return nil
	}

	collator := collate.New(lang)
	field := spec.Field
	sign := 1
	if spec.Direction == Descending {
		sign = -1
	}

	return func(a, b R) int {
		ka := newSortKey(accessor, a, field)
		kb := newSortKey(accessor, b, field)
		if ka.kind == missingKey || kb.kind == missingKey {
			return int(ka.kind) - int(kb.kind)
		}
		return sign * compareKeys(collator, ka, kb)
	}
}

type sortKeyKind int

const (
	numberKey sortKeyKind = iota
	textKey
	missingKey
)

type sortKey struct {
	kind   sortKeyKind
	number float64
	text   string
}

func newSortKey[R any](accessor Accessor[R], record R, field string) sortKey {
	value, ok := accessor.Get(record, field)
	if !ok || value == nil {
		return sortKey{kind: missingKey}
	}
	if number, ok := toNumber(value); ok {
		return sortKey{kind: numberKey, number: number}
	}
	return sortKey{kind: textKey, text: toText(value)}
}

func compareKeys(collator *collate.Collator, a, b sortKey) int {
	if a.kind != b.kind {
		return int(a.kind) - int(b.kind)
	}
	if a.kind == textKey {
		return collator.CompareString(a.text, b.text)
	}
	switch {
	case a.number < b.number:
		return -1
	case a.number > b.number:
		return 1
	default:
		return 0
	}
}
