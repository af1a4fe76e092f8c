// Package price converts between display-formatted peso amounts ("$5.000")
// and integer amounts. Amounts carry no decimal places.
package price

import (
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

var (
	stripper = strings.NewReplacer("$", "", ".", "")
	// humanize groups with ","; the shop prints es-AR amounts with ".".
	regroup = strings.NewReplacer(",", ".")
)

// Parse converts a display price such as "$5.000" into 5000.
// Empty, unparseable, negative or out-of-range input yields 0.
func Parse(s string) int64 {
	if s == "" {
		return 0
	}

	digits := leadingInteger(stripper.Replace(s))
	if digits == "" {
		return 0
	}

	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// Format renders amount as "$" followed by the amount grouped in thousands,
// e.g. 5000 -> "$5.000".
func Format(amount int64) string {
	return "$" + regroup.Replace(humanize.Comma(amount))
}

// leadingInteger returns the optional sign and the run of digits at the start
// of s after leading whitespace, ignoring anything that follows.
func leadingInteger(s string) string {
	s = strings.TrimLeft(s, " \t\r\n")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return ""
	}
	return s[:end]
}
