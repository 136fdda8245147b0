package cronexpr

import "errors"

// Compile-time failures. Parse wraps these with the field name and the
// offending text, so callers should test with errors.Is.
var (
	ErrInvalidAlias     = errors.New("unknown alias")
	ErrInvalidCharacter = errors.New("invalid character")
	ErrValueOutOfRange  = errors.New("value out of range")
	ErrInvalidRange     = errors.New("invalid range")
	ErrInvalidStep      = errors.New("invalid step")
)

// ErrImpossibleDayOfMonth is a match-time failure: the expression pins a
// month whose length can never reach the expression's highest day-of-month.
// Match surfaces it as a hard error rather than a silent false.
var ErrImpossibleDayOfMonth = errors.New("day-of-month exceeds days in scheduled month")
