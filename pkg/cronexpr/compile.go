package cronexpr

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	reAliasRun  = regexp.MustCompile(`(?i)[a-z]{1,3}`)
	reFieldText = regexp.MustCompile(`^[0-9|/*,-]+$`)
)

// compileField turns one raw field into its ascending, duplicate-free value
// sequence. It never returns a partial result alongside an error.
func compileField(f field, raw string, b bounds) ([]int, error) {
	text, err := substituteAliases(f, raw)
	if err != nil {
		return nil, err
	}
	if !reFieldText.MatchString(text) {
		return nil, fmt.Errorf("%s: %w: %q", f, ErrInvalidCharacter, raw)
	}

	// A wildcard is just the full range spelled out.
	text = strings.ReplaceAll(text, "*", fmt.Sprintf("%d-%d", b.min, b.max))

	atoms := strings.Split(text, ",")
	if len(atoms) > 1 {
		sortAtoms(atoms)
	}

	var out []int
	for _, atom := range atoms {
		out, err = resolveAtom(f, atom, b, out)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// substituteAliases replaces every 1-3 letter run with its numeric value
// from the field's alias table. Fields without a table pass through.
func substituteAliases(f field, raw string) (string, error) {
	table := f.aliases()
	if table == nil {
		return raw, nil
	}
	var badAlias string
	out := reAliasRun.ReplaceAllStringFunc(raw, func(m string) string {
		v, ok := table[strings.ToLower(m)]
		if !ok {
			if badAlias == "" {
				badAlias = m
			}
			return m
		}
		return strconv.Itoa(v)
	})
	if badAlias != "" {
		return "", fmt.Errorf("%s: %w: %q", f, ErrInvalidAlias, badAlias)
	}
	return out, nil
}

// sortAtoms orders comma-list atoms by the numeric value of their leading
// digit run. The merge step drops anything at or below the running maximum,
// so presentation order decides what survives.
func sortAtoms(atoms []string) {
	sort.SliceStable(atoms, func(i, j int) bool {
		return atomKey(atoms[i]) < atomKey(atoms[j])
	})
}

// atomKey reads the atom's leading digits; atoms without any sort as 0.
func atomKey(s string) int {
	n := 0
	for i := 0; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		n = n*10 + int(s[i]-'0')
	}
	return n
}

// resolveAtom appends the values of a single atom (scalar, range, or
// stepped range) onto acc under the running-maximum rule.
func resolveAtom(f field, atom string, b bounds, acc []int) ([]int, error) {
	base, stepText, hasStep := strings.Cut(atom, "/")
	step := 1
	if hasStep {
		n, err := strconv.Atoi(stepText)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("%s: %w: %q", f, ErrInvalidStep, atom)
		}
		step = n
	}

	loText, hiText, hasRange := strings.Cut(base, "-")
	switch {
	case hasRange && loText == "":
		// Missing lower bound: the whole atom degenerates to a scalar.
		return appendScalar(f, atom, b, acc)
	case !hasRange && !hasStep:
		return appendScalar(f, atom, b, acc)
	case !hasRange:
		// "a/n" runs from a to the field maximum.
		hiText = strconv.Itoa(b.max)
	}
	return emitRange(f, loText, hiText, step, b, acc)
}

func appendScalar(f field, atom string, b bounds, acc []int) ([]int, error) {
	v, ok := leadingInt(atom)
	if !ok {
		return nil, fmt.Errorf("%s: %w: %q", f, ErrInvalidCharacter, atom)
	}
	if v < b.min || v > b.max {
		return nil, fmt.Errorf("%s: %w: %d not in %d-%d", f, ErrValueOutOfRange, v, b.min, b.max)
	}
	return appendAscending(acc, fold(f, v)), nil
}

// emitRange walks [lo,hi] with the step counter and appends every emitted
// value. The counter starts at 1 and resets to 1 on each emission, so a
// step of n emits lo+n-1, lo+2n-1, ... rather than lo, lo+n, ...
func emitRange(f field, loText, hiText string, step int, b bounds, acc []int) ([]int, error) {
	lo, okLo := leadingInt(loText)
	hi, okHi := leadingInt(hiText)
	if !okLo || !okHi {
		return nil, fmt.Errorf("%s: %w: %q-%q", f, ErrInvalidRange, loText, hiText)
	}
	if lo < b.min || hi > b.max {
		return nil, fmt.Errorf("%s: %w: %d-%d not in %d-%d", f, ErrValueOutOfRange, lo, hi, b.min, b.max)
	}
	if lo >= hi {
		return nil, fmt.Errorf("%s: %w: %d-%d", f, ErrInvalidRange, lo, hi)
	}

	counter := 1
	for v := lo; v <= hi; v++ {
		if counter%step == 0 {
			acc = appendAscending(acc, fold(f, v))
			counter = 1
		} else {
			counter++
		}
	}
	return acc, nil
}

// appendAscending keeps the result strictly ascending: a value at or below
// the running maximum is dropped silently.
func appendAscending(acc []int, v int) []int {
	if len(acc) > 0 && v <= acc[len(acc)-1] {
		return acc
	}
	return append(acc, v)
}

// fold maps day-of-week 7 onto 0 (both mean Sunday).
func fold(f field, v int) int {
	if f == fieldDayOfWeek && v == 7 {
		return 0
	}
	return v
}

// leadingInt reads an optional sign and a leading digit run, ignoring any
// trailing characters. ok is false when no digits are present.
func leadingInt(s string) (int, bool) {
	i := 0
	neg := false
	if i < len(s) && s[i] == '-' {
		neg = true
		i++
	}
	start := i
	n := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		n = n*10 + int(s[i]-'0')
		i++
	}
	if i == start {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}
