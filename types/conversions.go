package types

import (
	"encoding/base64"
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"time"

	"gopkg.in/inf.v0"
)

// ToRecords converts scanned rows into records holding plain values
func ToRecords(rows []map[string]interface{}) []Record {
	result := make([]Record, len(rows))
	for i, row := range rows {
		record := make(Record, len(row))
		for name, value := range row {
			record[name] = ToPrimitive(value)
		}
		result[i] = record
	}
	return result
}

// ToPrimitive dereferences pointers and converts driver specific values into strings, numbers,
// booleans, times or nil
func ToPrimitive(value interface{}) interface{} {
	if value == nil {
		return nil
	}

	switch value := value.(type) {
	case *inf.Dec:
		if value == nil {
			return nil
		}
		return DecimalToFloat(value)
	case *big.Int:
		if value == nil {
			return nil
		}
		return BigIntToFloat(value)
	case []byte:
		return base64.StdEncoding.EncodeToString(value)
	case time.Duration:
		return DurationToCqlFormattedString(value)
	case time.Time, string, bool, float64:
		return value
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil
		}
		return ToPrimitive(rv.Elem().Interface())
	}

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32:
		return value
	case reflect.Slice, reflect.Array:
		items := make([]interface{}, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			items[i] = ToPrimitive(rv.Index(i).Interface())
		}
		return items
	case reflect.Map:
		items := make(map[string]interface{}, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			items[fmt.Sprint(ToPrimitive(iter.Key().Interface()))] = ToPrimitive(iter.Value().Interface())
		}
		return items
	}

	return value
}

// DecimalToFloat returns the closest float64, precision beyond float64 is lost
func DecimalToFloat(value *inf.Dec) float64 {
	f, err := strconv.ParseFloat(value.String(), 64)
	if err != nil {
		return 0
	}
	return f
}

func BigIntToFloat(value *big.Int) float64 {
	f, _ := new(big.Float).SetInt(value).Float64()
	return f
}

// DurationToCqlFormattedString formats a time of day as hh:mm:ss[.fffffffff]
func DurationToCqlFormattedString(d time.Duration) string {
	totalSeconds := d.Truncate(time.Second)
	remainingNanos := d - totalSeconds

	secs := int(totalSeconds.Seconds())
	minutes := secs / 60
	secs = secs % 60
	hours := minutes / 60
	minutes = minutes % 60

	nanosStr := ""
	if remainingNanos > 0 {
		nanosStr = fmt.Sprintf(".%09d", remainingNanos.Nanoseconds())
	}
	return fmt.Sprintf("%02d:%02d:%02d%s", hours, minutes, secs, nanosStr)
}
