package records

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006-01",
}

func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case []byte:
		return strings.TrimSpace(string(t))
	case int64:
		return strconv.FormatInt(t, 10)
	case int:
		return strconv.Itoa(t)
	case float64:
		if t == math.Trunc(t) && math.Abs(t) < 1e15 {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case time.Time:
		return t.Format("2006-01-02")
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

func asStringPtr(v any) *string {
	s := asString(v)
	if s == "" {
		return nil
	}
	return &s
}

// asDecimal parses any numeric representation. ok is false when v carries no number.
func asDecimal(v any) (decimal.Decimal, bool) {
	switch t := v.(type) {
	case nil:
		return decimal.Zero, false
	case decimal.Decimal:
		return t, true
	case int:
		return decimal.NewFromInt(int64(t)), true
	case int32:
		return decimal.NewFromInt32(t), true
	case int64:
		return decimal.NewFromInt(t), true
	case float32:
		return decimal.NewFromFloat32(t), true
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat(t), true
	case json.Number:
		d, err := decimal.NewFromString(t.String())
		return d, err == nil
	case bool:
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(asString(v))
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func asFloat(v any) float64 {
	d, ok := asDecimal(v)
	if !ok {
		return 0
	}
	return d.InexactFloat64()
}

func asInt64(v any) int64 {
	d, ok := asDecimal(v)
	if !ok {
		return 0
	}
	return d.Truncate(0).IntPart()
}

func asInt(v any) int {
	return int(asInt64(v))
}

func asTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case *time.Time:
		if t != nil {
			return *t
		}
		return time.Time{}
	}
	s := asString(v)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
