// Package numeric holds the validated float primitives every geometry
// computation goes through.
package numeric

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	ErrInvalidNumber       = errors.New("invalid number")
	ErrInvalidArgumentType = errors.New("invalid argument type")
)

// Parse coerces value to a finite float64. Numeric kinds, json.Number and
// numeric strings are accepted; message prefixes the returned error.
func Parse(value any, message string) (float64, error) {
	var f float64
	switch v := value.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int8:
		f = float64(v)
	case int16:
		f = float64(v)
	case int32:
		f = float64(v)
	case int64:
		f = float64(v)
	case uint:
		f = float64(v)
	case uint8:
		f = float64(v)
	case uint16:
		f = float64(v)
	case uint32:
		f = float64(v)
	case uint64:
		f = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, fmt.Errorf("%s: %q: %w", describe(message), v.String(), ErrInvalidNumber)
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("%s: %q: %w", describe(message), v, ErrInvalidNumber)
		}
		f = parsed
	default:
		return 0, fmt.Errorf("%s: %T: %w", describe(message), value, ErrInvalidArgumentType)
	}
	return Finite(f, message)
}

// Finite returns f unchanged, or ErrInvalidNumber if it is NaN or infinite.
func Finite(f float64, message string) (float64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%s: %v: %w", describe(message), f, ErrInvalidNumber)
	}
	return f, nil
}

// Round rounds n to the nearest multiple of nearest.
func Round(n, nearest float64) (float64, error) {
	if _, err := Finite(n, "round value"); err != nil {
		return 0, err
	}
	if _, err := Finite(nearest, "round increment"); err != nil {
		return 0, err
	}
	if nearest == 0 {
		return 0, fmt.Errorf("round increment: 0: %w", ErrInvalidNumber)
	}
	return math.Round(n/nearest) * nearest, nil
}

// Clamp limits n to the range spanned by a and b, in either order.
func Clamp(n, a, b float64) float64 {
	lo, hi := math.Min(a, b), math.Max(a, b)
	return math.Max(lo, math.Min(n, hi))
}

func describe(message string) string {
	if message == "" {
		return "value"
	}
	return message
}
