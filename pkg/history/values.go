package history

import (
	"fmt"
	"strconv"
	"time"
)

// stringify renders a raw payload or database value for the audit trail.
// Absent values become the empty string, dates are RFC 3339, and numbers use
// a locale-independent representation so re-diffing the same inputs is
// deterministic.
func stringify(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.FormatInt(int64(val), 10)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	case uint:
		return strconv.FormatUint(uint64(val), 10)
	case uint32:
		return strconv.FormatUint(uint64(val), 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case time.Time:
		return val.UTC().Format(time.RFC3339)
	case *time.Time:
		if val == nil {
			return ""
		}
		return val.UTC().Format(time.RFC3339)
	case []interface{}:
		out := ""
		for i, item := range val {
			if i > 0 {
				out += ","
			}
			out += stringify(item)
		}
		return out
	default:
		return fmt.Sprintf("%v", v)
	}
}

// asID coerces a payload or database value into a record id. JSON decoding
// hands us float64, gorm hands us int64.
func asID(v interface{}) uint {
	switch val := v.(type) {
	case nil:
		return 0
	case uint:
		return val
	case uint64:
		return uint(val)
	case int:
		if val < 0 {
			return 0
		}
		return uint(val)
	case int64:
		if val < 0 {
			return 0
		}
		return uint(val)
	case float64:
		if val < 0 {
			return 0
		}
		return uint(val)
	case string:
		parsed, err := strconv.ParseUint(val, 10, 64)
		if err != nil {
			return 0
		}
		return uint(parsed)
	default:
		return 0
	}
}

// asIDs coerces a payload value into an ordered id list, preserving the
// caller's ordering.
func asIDs(v interface{}) []uint {
	switch val := v.(type) {
	case nil:
		return nil
	case []uint:
		return val
	case []interface{}:
		ids := make([]uint, 0, len(val))
		for _, item := range val {
			ids = append(ids, asID(item))
		}
		return ids
	case []int:
		ids := make([]uint, 0, len(val))
		for _, item := range val {
			if item < 0 {
				item = 0
			}
			ids = append(ids, uint(item))
		}
		return ids
	case []float64:
		ids := make([]uint, 0, len(val))
		for _, item := range val {
			ids = append(ids, asID(item))
		}
		return ids
	default:
		return nil
	}
}
