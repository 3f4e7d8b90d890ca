package pipeline

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// toNumber coerces a primitive field value into a float64. Numeric strings are parsed,
// times are expressed as Unix milliseconds.
func toNumber(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		if math.IsNaN(v) {
			return 0, false
		}
		return v, true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) {
			return 0, false
		}
		return f, true
	case time.Time:
		return float64(v.UnixNano() / int64(time.Millisecond)), true
	case *time.Time:
		if v == nil {
			return 0, false
		}
		return toNumber(*v)
	}
	return 0, false
}

// toText returns the canonical string form of a primitive value
func toText(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	case time.Time:
		return v.Format(time.RFC3339)
	case *time.Time:
		if v == nil {
			return ""
		}
		return v.Format(time.RFC3339)
	case fmt.Stringer:
		return v.String()
	case nil:
		return ""
	}
	return fmt.Sprint(value)
}

// ParseBound turns a raw range bound into a number. Anything that is not a number or a
// numeric string, such as partial input typed into a filter box, means no constraint.
func ParseBound(value interface{}) *float64 {
	switch value.(type) {
	case time.Time, *time.Time:
		return nil
	}
	f, ok := toNumber(value)
	if !ok || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// Bound is a helper to build an explicit range bound
func Bound(f float64) *float64 {
	return &f
}

// Text returns the form of a value used for search, discrete matching and facets
func Text(value interface{}) string {
	return toText(value)
}
