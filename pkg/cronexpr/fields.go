package cronexpr

// field identifies one of the six expression slots.
type field int

const (
	fieldSecond field = iota
	fieldMinute
	fieldHour
	fieldDayOfMonth
	fieldMonth
	fieldDayOfWeek
)

func (f field) String() string {
	switch f {
	case fieldSecond:
		return "second"
	case fieldMinute:
		return "minute"
	case fieldHour:
		return "hour"
	case fieldDayOfMonth:
		return "day-of-month"
	case fieldMonth:
		return "month"
	case fieldDayOfWeek:
		return "day-of-week"
	}
	return "unknown"
}

// bounds is the inclusive value range accepted by a field.
type bounds struct {
	min, max int
}

var fieldBounds = [...]bounds{
	fieldSecond:     {0, 59},
	fieldMinute:     {0, 59},
	fieldHour:       {0, 23},
	fieldDayOfMonth: {1, 31},
	fieldMonth:      {1, 12},
	// 7 is accepted as an alias for Sunday and folded to 0.
	fieldDayOfWeek: {0, 7},
}

var monthAliases = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

var dowAliases = map[string]int{
	"sun": 0, "mon": 1, "tue": 2, "wed": 3, "thu": 4, "fri": 5, "sat": 6,
}

func (f field) aliases() map[string]int {
	switch f {
	case fieldMonth:
		return monthAliases
	case fieldDayOfWeek:
		return dowAliases
	}
	return nil
}

// Descriptor expressions, six-field form. Unlike plain five-field input,
// which gets a wildcard seconds field, descriptors pin the second to 0.
var descriptors = map[string]string{
	"@yearly":  "0 0 0 1 1 *",
	"@monthly": "0 0 0 1 * *",
	"@weekly":  "0 0 0 * * 0",
	"@daily":   "0 0 0 * * *",
	"@hourly":  "0 * * * * *",
}

// Month lengths, January at index 1. Index 0 is unused; the previous-month
// wrap in the calendar check maps January to index 11.
var daysInMonth = [...]int{0, 31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
