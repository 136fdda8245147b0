package cronexpr

import (
	"errors"
	"reflect"
	"testing"
)

func seq(lo, hi int) []int {
	out := make([]int, 0, hi-lo+1)
	for v := lo; v <= hi; v++ {
		out = append(out, v)
	}
	return out
}

func TestCompileFieldWildcard(t *testing.T) {
	t.Parallel()
	tests := []struct {
		f    field
		want []int
	}{
		{fieldSecond, seq(0, 59)},
		{fieldMinute, seq(0, 59)},
		{fieldHour, seq(0, 23)},
		{fieldDayOfMonth, seq(1, 31)},
		{fieldMonth, seq(1, 12)},
		// 0-7 with the trailing 7 folded to 0 and dropped.
		{fieldDayOfWeek, seq(0, 6)},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.f.String(), func(t *testing.T) {
			got, err := compileField(tt.f, "*", fieldBounds[tt.f])
			if err != nil {
				t.Fatalf("compileField(*) error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("compileField(*) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCompileFieldVariants(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		f    field
		raw  string
		want []int
	}{
		{name: "scalar", f: fieldMinute, raw: "30", want: []int{30}},
		{name: "sunday alias fold", f: fieldDayOfWeek, raw: "7", want: []int{0}},
		{name: "plain range", f: fieldHour, raw: "9-17", want: seq(9, 17)},
		{name: "list", f: fieldMinute, raw: "15,0,45,30", want: []int{0, 15, 30, 45}},
		{name: "month names", f: fieldMonth, raw: "jan-mar", want: []int{1, 2, 3}},
		{name: "month names upper", f: fieldMonth, raw: "DEC", want: []int{12}},
		{name: "weekday name", f: fieldDayOfWeek, raw: "fri", want: []int{5}},
		{name: "mixed name list", f: fieldMonth, raw: "dec,mar", want: []int{3, 12}},

		// The step counter starts at 1 and resets on emission, so 0-9/3
		// emits 2,5,8 rather than 0,3,6,9.
		{name: "step cadence", f: fieldMinute, raw: "0-9/3", want: []int{2, 5, 8}},
		{name: "step from value", f: fieldHour, raw: "20/2", want: []int{21, 23}},
		{name: "wildcard step", f: fieldMinute, raw: "*/15", want: []int{14, 29, 44, 59}},
		{name: "step of one", f: fieldHour, raw: "4-6/1", want: []int{4, 5, 6}},
		{name: "step wider than range", f: fieldMinute, raw: "0-9/15", want: nil},

		// Values at or below the running maximum are dropped, so an
		// overlapping list collapses into the first range.
		{name: "overlap dropped", f: fieldMinute, raw: "1-20,5-10", want: seq(1, 20)},
		{name: "duplicate dropped", f: fieldMinute, raw: "5,5", want: []int{5}},
		// A single range ending at 7 loses its folded Sunday.
		{name: "folded sunday dropped", f: fieldDayOfWeek, raw: "5-7", want: []int{5, 6}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := compileField(tt.f, tt.raw, fieldBounds[tt.f])
			if err != nil {
				t.Fatalf("compileField(%q) error: %v", tt.raw, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("compileField(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestCompileFieldErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		f    field
		raw  string
		want error
	}{
		{name: "reversed range", f: fieldMinute, raw: "10-5", want: ErrInvalidRange},
		{name: "equal bounds", f: fieldMinute, raw: "5-5", want: ErrInvalidRange},
		{name: "missing upper bound", f: fieldMinute, raw: "5-", want: ErrInvalidRange},
		{name: "zero step", f: fieldMinute, raw: "1-10/0", want: ErrInvalidStep},
		{name: "negative step", f: fieldMinute, raw: "1-10/-2", want: ErrInvalidStep},
		{name: "empty step", f: fieldMinute, raw: "1-10/", want: ErrInvalidStep},
		{name: "unknown month name", f: fieldMonth, raw: "foo", want: ErrInvalidAlias},
		{name: "unknown weekday name", f: fieldDayOfWeek, raw: "xyz", want: ErrInvalidAlias},
		{name: "letters in numeric field", f: fieldMinute, raw: "5a", want: ErrInvalidCharacter},
		{name: "whitespace", f: fieldMinute, raw: "1, 2", want: ErrInvalidCharacter},
		{name: "scalar too large", f: fieldHour, raw: "24", want: ErrValueOutOfRange},
		{name: "range past maximum", f: fieldMinute, raw: "50-70", want: ErrValueOutOfRange},
		{name: "day-of-month zero", f: fieldDayOfMonth, raw: "0", want: ErrValueOutOfRange},
		// "-5" has no lower bound, degenerates to the scalar -5.
		{name: "negative scalar", f: fieldMinute, raw: "-5", want: ErrValueOutOfRange},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := compileField(tt.f, tt.raw, fieldBounds[tt.f])
			if err == nil {
				t.Fatalf("compileField(%q): expected error", tt.raw)
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("compileField(%q) error = %v, want %v", tt.raw, err, tt.want)
			}
		})
	}
}
