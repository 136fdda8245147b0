package cronexpr

import (
	"fmt"
	"strings"
	"time"
)

// Components are the discrete calendar parts of an instant.
type Components struct {
	Year        int
	MonthIndex  int // 0-11, January = 0
	Day         int // 1-31
	Weekday     int // 0-6, Sunday = 0
	Hour        int
	Minute      int
	Second      int
	Millisecond int
}

// Calendar resolves an instant, plus an optional IANA time zone name, into
// calendar components. An empty tz keeps the instant's own location.
type Calendar interface {
	Components(t time.Time, tz string) (Components, error)
}

type stdCalendar struct{}

// StdCalendar returns a Calendar backed by the time package and the system
// tz database.
func StdCalendar() Calendar { return stdCalendar{} }

func (stdCalendar) Components(t time.Time, tz string) (Components, error) {
	if name := strings.TrimSpace(tz); name != "" {
		loc, err := time.LoadLocation(name)
		if err != nil {
			return Components{}, fmt.Errorf("timezone %q: %w", tz, err)
		}
		t = t.In(loc)
	}
	return Components{
		Year:        t.Year(),
		MonthIndex:  int(t.Month()) - 1,
		Day:         t.Day(),
		Weekday:     int(t.Weekday()),
		Hour:        t.Hour(),
		Minute:      t.Minute(),
		Second:      t.Second(),
		Millisecond: t.Nanosecond() / int(time.Millisecond),
	}, nil
}

// Match reports whether the instant described by c satisfies the
// expression. It returns ErrImpossibleDayOfMonth when the expression pins a
// month that can never reach its highest day-of-month; that is a hard
// failure, not a false.
func (e *Expression) Match(c Components) (bool, error) {
	month := c.MonthIndex + 1

	domMatch := fieldMatches(e.dayOfMonth, c.Day)
	dowMatch := fieldMatches(e.dayOfWeek, c.Weekday)
	domWild := wildcardSpan(e.dayOfMonth, fieldBounds[fieldDayOfMonth])
	monWild := wildcardSpan(e.month, fieldBounds[fieldMonth])
	dowWild := wildcardSpan(e.dayOfWeek, fieldBounds[fieldDayOfWeek])

	switch {
	case !domMatch && !dowMatch:
		return false, nil
	case !domWild && dowWild && !domMatch:
		return false, nil
	case domWild && !dowWild && !dowMatch:
		return false, nil
	case !domWild && !dowWild && !domMatch && !dowMatch:
		// Both restricted, neither matched.
		return false, nil
	}

	if !monWild {
		if err := e.checkDayOfMonth(month, c.Year); err != nil {
			return false, err
		}
	}

	if !fieldMatches(e.month, month) {
		return false, nil
	}
	if !fieldMatches(e.hour, c.Hour) {
		return false, nil
	}
	if !fieldMatches(e.minute, c.Minute) {
		return false, nil
	}
	if !fieldMatches(e.second, c.Second) {
		return false, nil
	}
	return true, nil
}

// MatchInstant resolves t in the named time zone via cal and evaluates the
// expression against the result. A nil cal uses StdCalendar.
func (e *Expression) MatchInstant(t time.Time, tz string, cal Calendar) (bool, error) {
	if cal == nil {
		cal = StdCalendar()
	}
	c, err := cal.Components(t, tz)
	if err != nil {
		return false, err
	}
	return e.Match(c)
}

// MatchTime evaluates the expression against t in t's own location.
func (e *Expression) MatchTime(t time.Time) (bool, error) {
	return e.MatchInstant(t, "", nil)
}

// fieldMatches reports whether v equals the smallest element of set that is
// >= v. When every element is below v, the first element is compared
// instead (wrap check).
func fieldMatches(set []int, v int) bool {
	for _, x := range set {
		if x >= v {
			return x == v
		}
	}
	return len(set) > 0 && set[0] == v
}

// wildcardSpan tells an unrestricted field apart from an explicit
// enumeration. The length test counts max-min slots, plus one only for
// fields whose range starts below 1.
func wildcardSpan(set []int, b bounds) bool {
	if len(set) == 0 {
		return false
	}
	span := b.max - b.min
	if b.min < 1 {
		span++
	}
	return len(set) == span
}

// checkDayOfMonth guards the one calendar shape the engine validates: the
// expression's first month is the month right before the instant's, and its
// last day-of-month exceeds that month's length (leap-adjusted for
// February). Other impossible day/month pairs, like April 31, are left to
// match false naturally.
func (e *Expression) checkDayOfMonth(month, year int) error {
	if len(e.month) == 0 || len(e.dayOfMonth) == 0 {
		return nil
	}
	prev := month - 1
	if prev < 1 {
		prev = 11
	}
	days := daysInMonth[prev]
	if prev == 2 && isLeapYear(year) {
		days = 29
	}
	last := e.dayOfMonth[len(e.dayOfMonth)-1]
	if e.month[0] == prev && last > days {
		return fmt.Errorf("%w: %s has %d days, expression wants day %d",
			ErrImpossibleDayOfMonth, time.Month(prev), days, last)
	}
	return nil
}
