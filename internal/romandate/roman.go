// Package romandate handles the Roman-numeral POD markers and the
// Indonesian calendar arithmetic used for follow-up scheduling.
package romandate

import (
	"regexp"
	"strings"
)

var (
	nonRoman = regexp.MustCompile(`[^IVXLC]`)

	romanValues = map[byte]int{'I': 1, 'V': 5, 'X': 10, 'L': 50, 'C': 100}
)

// RomanToInt decodes a Roman numeral using subtractive notation. Any
// character outside I, V, X, L, C is ignored; an empty result decodes
// to 0. Values beyond C are not needed for POD markers.
func RomanToInt(s string) int {
	s = nonRoman.ReplaceAllString(strings.ToUpper(s), "")
	if s == "" {
		return 0
	}
	total, prev := 0, 0
	for i := len(s) - 1; i >= 0; i-- {
		val := romanValues[s[i]]
		if val < prev {
			total -= val
		} else {
			total += val
			prev = val
		}
	}
	return total
}
