package table

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Kind is the inferred type of a value or column.
type Kind int

const (
	KindMissing Kind = iota
	KindString
	KindInt
	KindFloat
	KindBool
	KindTime
)

func (k Kind) String() string {
	switch k {
	case KindMissing:
		return "missing"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindTime:
		return "time"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// timeLayouts are tried in order by ToTime.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

var errNotNumeric = errors.New("not a number")

// KindOf reports the kind of a single Go value without parsing text.
func KindOf(v interface{}) Kind {
	switch v.(type) {
	case nil:
		return KindMissing
	case string:
		return KindString
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return KindInt
	case float32, float64:
		return KindFloat
	case bool:
		return KindBool
	case time.Time:
		return KindTime
	default:
		return KindString
	}
}

// ToFloat converts v to float64.
//
// Numeric values convert directly and text is parsed. Missing values and
// unparseable text return a *ParseError; nothing is silently coerced to zero.
func ToFloat(v interface{}) (float64, error) {
	switch val := v.(type) {
	case float64:
		return val, nil
	case float32:
		return float64(val), nil
	case int:
		return float64(val), nil
	case int8:
		return float64(val), nil
	case int16:
		return float64(val), nil
	case int32:
		return float64(val), nil
	case int64:
		return float64(val), nil
	case uint:
		return float64(val), nil
	case uint8:
		return float64(val), nil
	case uint16:
		return float64(val), nil
	case uint32:
		return float64(val), nil
	case uint64:
		return float64(val), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, &ParseError{Row: -1, Value: val, Kind: KindFloat, Err: err}
		}
		return f, nil
	case nil:
		return 0, &ParseError{Row: -1, Kind: KindFloat, Err: ErrMissingValue}
	default:
		return 0, &ParseError{Row: -1, Value: fmt.Sprintf("%v", val), Kind: KindFloat, Err: errNotNumeric}
	}
}

// ToInt converts v to int64. Floats must be whole numbers.
func ToInt(v interface{}) (int64, error) {
	switch val := v.(type) {
	case int:
		return int64(val), nil
	case int8:
		return int64(val), nil
	case int16:
		return int64(val), nil
	case int32:
		return int64(val), nil
	case int64:
		return val, nil
	case uint8:
		return int64(val), nil
	case uint16:
		return int64(val), nil
	case uint32:
		return int64(val), nil
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64)
		if err != nil {
			return 0, &ParseError{Row: -1, Value: val, Kind: KindInt, Err: err}
		}
		return i, nil
	case float64:
		if val != float64(int64(val)) {
			return 0, &ParseError{Row: -1, Value: strconv.FormatFloat(val, 'g', -1, 64), Kind: KindInt, Err: errNotNumeric}
		}
		return int64(val), nil
	case nil:
		return 0, &ParseError{Row: -1, Kind: KindInt, Err: ErrMissingValue}
	default:
		return 0, &ParseError{Row: -1, Value: fmt.Sprintf("%v", val), Kind: KindInt, Err: errNotNumeric}
	}
}

// ToTime converts v to a time.Time, parsing text with the supported layouts.
func ToTime(v interface{}) (time.Time, error) {
	switch val := v.(type) {
	case time.Time:
		return val, nil
	case string:
		s := strings.TrimSpace(val)
		var lastErr error
		for _, layout := range timeLayouts {
			t, err := time.Parse(layout, s)
			if err == nil {
				return t, nil
			}
			lastErr = err
		}
		return time.Time{}, &ParseError{Row: -1, Value: val, Kind: KindTime, Err: lastErr}
	case nil:
		return time.Time{}, &ParseError{Row: -1, Kind: KindTime, Err: ErrMissingValue}
	default:
		return time.Time{}, &ParseError{Row: -1, Value: fmt.Sprintf("%v", val), Kind: KindTime, Err: errors.New("not a time")}
	}
}

// Stringify returns the canonical text form of v. Missing values become "".
func Stringify(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		if val.Hour() == 0 && val.Minute() == 0 && val.Second() == 0 && val.Nanosecond() == 0 {
			return val.Format("2006-01-02")
		}
		return val.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// ConcatValues joins two text values.
//
// Only text may be concatenated. Mixing text with a number (or any other
// kind) is a *TypeError; convert explicitly with Stringify first.
func ConcatValues(a, b interface{}) (string, error) {
	as, aok := a.(string)
	bs, bok := b.(string)
	if !aok || !bok {
		return "", &TypeError{Op: "concat", Left: KindOf(a), Right: KindOf(b)}
	}
	return as + bs, nil
}

// ParseValue parses text as the given kind. Empty text is a missing value.
func ParseValue(s string, k Kind) (interface{}, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	switch k {
	case KindInt:
		return ToInt(s)
	case KindFloat:
		return ToFloat(s)
	case KindBool:
		b, err := strconv.ParseBool(strings.TrimSpace(s))
		if err != nil {
			return nil, &ParseError{Row: -1, Value: s, Kind: KindBool, Err: err}
		}
		return b, nil
	case KindTime:
		return ToTime(s)
	default:
		return s, nil
	}
}

// inferTextKind returns the narrowest kind that s parses as.
func inferTextKind(s string) Kind {
	s = strings.TrimSpace(s)
	if s == "" {
		return KindMissing
	}
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		return KindInt
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return KindFloat
	}
	if _, err := strconv.ParseBool(s); err == nil {
		return KindBool
	}
	if _, err := ToTime(s); err == nil {
		return KindTime
	}
	return KindString
}

// InferKind returns the kind shared by all non-missing values.
//
// Text values are parsed; an int column that also holds floats widens to
// float, any other disagreement falls back to string.
func InferKind(values []interface{}) Kind {
	kind := KindMissing
	for _, v := range values {
		k := KindOf(v)
		if s, ok := v.(string); ok {
			k = inferTextKind(s)
		}
		kind = widen(kind, k)
		if kind == KindString {
			return kind
		}
	}
	return kind
}

func widen(a, b Kind) Kind {
	switch {
	case a == b:
		return a
	case a == KindMissing:
		return b
	case b == KindMissing:
		return a
	case (a == KindInt && b == KindFloat) || (a == KindFloat && b == KindInt):
		return KindFloat
	default:
		return KindString
	}
}
