// Package form holds product drafts and the lenient numeric coercion applied
// to raw form input.
//
// Numeric fields never reject input. The longest numeric prefix of the raw
// text is used ("12abc" is 12, " 3.5kg" is 3.5) and anything that does not
// start with a number, or is not finite, becomes zero.
package form

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// ParseFloat coerces raw input to a finite float. Unparseable input is 0.
func ParseFloat(raw string) float64 {
	prefix := floatPrefix(strings.TrimLeftFunc(raw, unicode.IsSpace))
	if prefix == "" {
		return 0
	}
	v, err := strconv.ParseFloat(prefix, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// ParseInt coerces raw input to an integer using its leading digits.
// "3.7" is 3, "abc" is 0. Values that overflow an int are 0.
func ParseInt(raw string) int {
	prefix := intPrefix(strings.TrimLeftFunc(raw, unicode.IsSpace))
	if prefix == "" {
		return 0
	}
	v, err := strconv.Atoi(prefix)
	if err != nil {
		return 0
	}
	return v
}

func intPrefix(s string) string {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	start := i
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	if i == start {
		return ""
	}
	return s[:i]
}

func floatPrefix(s string) string {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		j := i + 1
		frac := 0
		for j < len(s) && isDigit(s[j]) {
			j++
			frac++
		}
		if digits > 0 || frac > 0 {
			i = j
			digits += frac
		}
	}
	if digits == 0 {
		return ""
	}
	// exponent only counts when digits follow it
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		expStart := j
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		if j > expStart {
			i = j
		}
	}
	return s[:i]
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
