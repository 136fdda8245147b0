package cronexpr

import (
	"fmt"
	"strings"
)

// Expression is a compiled schedule: six ascending, duplicate-free value
// sequences. It is immutable after Parse and safe for concurrent use.
type Expression struct {
	raw string

	second     []int
	minute     []int
	hour       []int
	dayOfMonth []int
	month      []int
	dayOfWeek  []int
}

// Parse compiles a five- or six-field cron expression, or one of the
// @yearly/@monthly/@weekly/@daily/@hourly descriptors. Five-field input
// gets a wildcard seconds field.
func Parse(raw string) (*Expression, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, fmt.Errorf("empty expression")
	}
	if strings.HasPrefix(s, "@") {
		expanded, ok := descriptors[strings.ToLower(s)]
		if !ok {
			return nil, fmt.Errorf("unknown descriptor %q", s)
		}
		s = expanded
	}

	parts := strings.Fields(s)
	switch len(parts) {
	case 6:
	case 5:
		parts = append([]string{"*"}, parts...)
	default:
		return nil, fmt.Errorf("expression %q: want 5 or 6 fields, got %d", raw, len(parts))
	}

	e := &Expression{raw: raw}
	dst := [...]*[]int{&e.second, &e.minute, &e.hour, &e.dayOfMonth, &e.month, &e.dayOfWeek}
	for i, p := range parts {
		f := field(i)
		vals, err := compileField(f, p, fieldBounds[f])
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", raw, err)
		}
		*dst[i] = vals
	}
	return e, nil
}

// MustParse is like Parse, except it panics if the expression is malformed.
func MustParse(raw string) *Expression {
	e, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return e
}

// String returns the raw expression text.
func (e *Expression) String() string { return e.raw }

func (e *Expression) Seconds() []int     { return copyInts(e.second) }
func (e *Expression) Minutes() []int     { return copyInts(e.minute) }
func (e *Expression) Hours() []int       { return copyInts(e.hour) }
func (e *Expression) DaysOfMonth() []int { return copyInts(e.dayOfMonth) }
func (e *Expression) Months() []int      { return copyInts(e.month) }
func (e *Expression) DaysOfWeek() []int  { return copyInts(e.dayOfWeek) }

func copyInts(v []int) []int {
	if len(v) == 0 {
		return nil
	}
	out := make([]int, len(v))
	copy(out, v)
	return out
}
