package session

import (
	"math"
	"strconv"
	"strings"
)

// Value is a parsed form field. Valid is false when the raw text was absent
// or could not be read as a non-negative number.
type Value[T int | float64] struct {
	V     T
	Valid bool
}

// OrZero returns V when valid and 0 otherwise.
func (v Value[T]) OrZero() T {
	if !v.Valid {
		return 0
	}
	return v.V
}

// ParseWeight reads a weight field. Decimal commas are accepted ("37,5").
func ParseWeight(raw string) Value[float64] {
	f, ok := parseNumber(raw)
	if !ok {
		return Value[float64]{}
	}
	return Value[float64]{V: f, Valid: true}
}

// ParseReps reads a reps field. Fractions are truncated ("12.7" is 12).
func ParseReps(raw string) Value[int] {
	f, ok := parseNumber(raw)
	if !ok || f > math.MaxInt32 {
		return Value[int]{}
	}
	return Value[int]{V: int(f), Valid: true}
}

func parseNumber(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	s = strings.Replace(s, ",", ".", 1)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0, false
	}
	return f, true
}
