// Package cronexpr compiles six-field cron expressions and tests whether a
// given instant satisfies them.
//
// # Overview
//
// An expression has the classic crontab shape with an optional leading
// seconds field:
//
//	<second> <minute> <hour> <day-of-month> <month> <day-of-week>
//
// Five-field input is accepted and gets a wildcard seconds field. Month and
// day-of-week accept three-letter names (jan..dec, sun..sat, case
// insensitive); day-of-week 7 is folded to 0 (Sunday). The descriptors
// @yearly, @monthly, @weekly, @daily and @hourly expand to their usual
// five-field forms.
//
// Each field supports "*", scalars, "a-b" ranges, "a/n" and "a-b/n" stepped
// forms, and comma lists of any of those.
//
// # Matching, not scheduling
//
// This package is a point-in-time predicate: it answers "does instant X
// match expression E". It never computes the next or previous fire time.
// Day-of-month and day-of-week combine with the POSIX crontab rule: when
// both are restricted, a day matches if either field matches.
//
// A compiled Expression is immutable and safe for concurrent use; compile
// it once and reuse it across match calls.
package cronexpr
