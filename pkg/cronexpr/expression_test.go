package cronexpr

import (
	"reflect"
	"testing"
)

func TestParseFieldCount(t *testing.T) {
	t.Parallel()

	// Five fields get a wildcard seconds field.
	e, err := Parse("5 4 * * *")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if got := e.Seconds(); !reflect.DeepEqual(got, seq(0, 59)) {
		t.Fatalf("Seconds() = %v, want full range", got)
	}
	if got := e.Minutes(); !reflect.DeepEqual(got, []int{5}) {
		t.Fatalf("Minutes() = %v, want [5]", got)
	}

	for _, raw := range []string{"", "* * *", "* * * * * * *"} {
		if _, err := Parse(raw); err == nil {
			t.Fatalf("Parse(%q): expected error", raw)
		}
	}
}

func TestParseDescriptors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		descriptor string
		equivalent string
	}{
		{"@hourly", "0 * * * * *"},
		{"@daily", "0 0 0 * * *"},
		{"@weekly", "0 0 0 * * 0"},
		{"@monthly", "0 0 0 1 * *"},
		{"@yearly", "0 0 0 1 1 *"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.descriptor, func(t *testing.T) {
			got, err := Parse(tt.descriptor)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.descriptor, err)
			}
			want := MustParse(tt.equivalent)
			if !sameFields(got, want) {
				t.Fatalf("Parse(%q) differs from %q", tt.descriptor, tt.equivalent)
			}
		})
	}

	if _, err := Parse("@fortnightly"); err == nil {
		t.Fatal("expected error for unknown descriptor")
	}
}

func TestParseDeterministic(t *testing.T) {
	t.Parallel()
	const raw = "*/10 0-9,23 * * mon-fri"
	a := MustParse(raw)
	b := MustParse(raw)
	if !sameFields(a, b) {
		t.Fatalf("repeated Parse(%q) produced different fields", raw)
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	t.Parallel()
	e := MustParse("0 30 12 1,15 * *")
	got := e.DaysOfMonth()
	got[0] = 99
	if again := e.DaysOfMonth(); again[0] != 1 {
		t.Fatalf("DaysOfMonth() shares state: %v", again)
	}
}

func sameFields(a, b *Expression) bool {
	return reflect.DeepEqual(a.second, b.second) &&
		reflect.DeepEqual(a.minute, b.minute) &&
		reflect.DeepEqual(a.hour, b.hour) &&
		reflect.DeepEqual(a.dayOfMonth, b.dayOfMonth) &&
		reflect.DeepEqual(a.month, b.month) &&
		reflect.DeepEqual(a.dayOfWeek, b.dayOfWeek)
}
