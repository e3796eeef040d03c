// Package timex turns the timestamp shapes the dashboard backend emits
// (epoch seconds, millis, micros or nanos, ISO strings with or without a
// zone, legacy [y, m, d, h, min, s, nanos] tuples) into time.Time.
//
// Decision table, keyed by the shape of the value:
//
//	nil, "", []                      ErrEmpty
//	time.Time                        returned as-is
//	number, json.Number, "123"       scaled by integer-digit count:
//	                                   <= 11  seconds
//	                                   12-14  milliseconds
//	                                   15-17  microseconds
//	                                   >= 18  nanoseconds
//	string                           RFC3339Nano, RFC3339, zoneless ISO,
//	                                 "2006-01-02 15:04:05", "2006-01-02";
//	                                 zoneless values use Normalizer.Location
//	array of 3-7 integers            [year, month, day, hour, min, sec, nanos]
//	anything else                    ErrUnsupported
package timex

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

var (
	ErrEmpty       = errors.New("timex: empty timestamp")
	ErrUnsupported = errors.New("timex: unsupported timestamp shape")
	ErrOutOfRange  = errors.New("timex: timestamp out of range")
)

// Digit-count boundaries for epoch values. 11 digits of seconds reaches
// year 5138, so anything longer is a finer unit.
const (
	maxSecondsDigits = 11
	maxMillisDigits  = 14
	maxMicrosDigits  = 17
)

var zonedLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999Z0700",
}

var zonelessLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// Normalizer converts loosely-typed timestamps. The zero value interprets
// zoneless strings and tuples as UTC.
type Normalizer struct {
	Location *time.Location
}

// Normalize uses a UTC Normalizer.
func Normalize(v any) (time.Time, error) {
	return Normalizer{}.Normalize(v)
}

func (n Normalizer) loc() *time.Location {
	if n.Location == nil {
		return time.UTC
	}
	return n.Location
}

// Normalize applies the package decision table to v.
func (n Normalizer) Normalize(v any) (time.Time, error) {
	switch x := v.(type) {
	case nil:
		return time.Time{}, ErrEmpty
	case time.Time:
		return x, nil
	case *time.Time:
		if x == nil {
			return time.Time{}, ErrEmpty
		}
		return *x, nil
	case int:
		return fromInt(int64(x)), nil
	case int32:
		return fromInt(int64(x)), nil
	case int64:
		return fromInt(x), nil
	case uint32:
		return fromInt(int64(x)), nil
	case uint64:
		if x > math.MaxInt64 {
			return time.Time{}, ErrOutOfRange
		}
		return fromInt(int64(x)), nil
	case float32:
		return fromFloat(float64(x))
	case float64:
		return fromFloat(x)
	case json.Number:
		return fromNumeric(string(x))
	case string:
		return n.fromString(x)
	case []any:
		return n.fromTuple(x)
	case []int:
		return n.fromTuple(toAny(x))
	case []int64:
		return n.fromTuple(toAny(x))
	case []float64:
		return n.fromTuple(toAny(x))
	default:
		return time.Time{}, fmt.Errorf("%w: %T", ErrUnsupported, v)
	}
}

func toAny[T any](xs []T) []any {
	out := make([]any, len(xs))
	for i, x := range xs {
		out[i] = x
	}
	return out
}

// digits counts the decimal digits of |i|.
func digits(i int64) int {
	u := uint64(i)
	if i < 0 {
		u = uint64(-(i + 1)) + 1
	}
	n := 1
	for u >= 10 {
		u /= 10
		n++
	}
	return n
}

func fromInt(i int64) time.Time {
	switch d := digits(i); {
	case d <= maxSecondsDigits:
		return time.Unix(i, 0).UTC()
	case d <= maxMillisDigits:
		return time.UnixMilli(i).UTC()
	case d <= maxMicrosDigits:
		return time.UnixMicro(i).UTC()
	default:
		return time.Unix(0, i).UTC()
	}
}

func fromFloat(f float64) (time.Time, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return time.Time{}, fmt.Errorf("%w: %v", ErrUnsupported, f)
	}
	if f == math.Trunc(f) && math.Abs(f) < math.MaxInt64 {
		return fromInt(int64(f)), nil
	}

	whole := math.Trunc(f)
	d := len(strconv.FormatFloat(math.Abs(whole), 'f', 0, 64))

	var nanos float64
	switch {
	case d <= maxSecondsDigits:
		sec := int64(whole)
		return time.Unix(sec, int64(math.Round((f-whole)*1e9))).UTC(), nil
	case d <= maxMillisDigits:
		nanos = f * 1e6
	case d <= maxMicrosDigits:
		nanos = f * 1e3
	default:
		nanos = f
	}
	if math.Abs(nanos) >= math.MaxInt64 {
		return time.Time{}, ErrOutOfRange
	}
	return time.Unix(0, int64(math.Round(nanos))).UTC(), nil
}

// isNumeric accepts [+-]digits[.digits] and nothing else, so "NaN", "1e9"
// and dates never take the numeric path.
func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	if s[0] == '+' || s[0] == '-' {
		s = s[1:]
	}
	intPart, frac, hasFrac := strings.Cut(s, ".")
	if intPart == "" || (hasFrac && frac == "") {
		return false
	}
	for _, part := range []string{intPart, frac} {
		for _, r := range part {
			if r < '0' || r > '9' {
				return false
			}
		}
	}
	return true
}

func fromNumeric(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if !isNumeric(s) {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnsupported, s)
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return fromInt(i), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrOutOfRange, s)
	}
	return fromFloat(f)
}

func (n Normalizer) fromString(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrEmpty
	}
	if isNumeric(s) {
		return fromNumeric(s)
	}
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	for _, layout := range zonelessLayouts {
		if t, err := time.ParseInLocation(layout, s, n.loc()); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrUnsupported, s)
}

func (n Normalizer) fromTuple(xs []any) (time.Time, error) {
	if len(xs) == 0 {
		return time.Time{}, ErrEmpty
	}
	if len(xs) < 3 || len(xs) > 7 {
		return time.Time{}, fmt.Errorf("%w: tuple of %d elements", ErrUnsupported, len(xs))
	}

	var parts [7]int
	for i, x := range xs {
		v, ok := tupleInt(x)
		if !ok {
			return time.Time{}, fmt.Errorf("%w: tuple element %d is %v", ErrUnsupported, i, x)
		}
		parts[i] = v
	}

	year, month, day := parts[0], parts[1], parts[2]
	hour, minute, sec, nanos := parts[3], parts[4], parts[5], parts[6]

	if month < 1 || month > 12 ||
		day < 1 || day > daysIn(year, time.Month(month)) ||
		hour < 0 || hour > 23 ||
		minute < 0 || minute > 59 ||
		sec < 0 || sec > 59 ||
		nanos < 0 || nanos > 999_999_999 {
		return time.Time{}, fmt.Errorf("%w: %v", ErrOutOfRange, xs)
	}
	return time.Date(year, time.Month(month), day, hour, minute, sec, nanos, n.loc()), nil
}

func tupleInt(x any) (int, bool) {
	switch v := x.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	case json.Number:
		i, err := v.Int64()
		return int(i), err == nil
	default:
		return 0, false
	}
}

func daysIn(year int, m time.Month) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
