// Package price holds the numeric parsing shared by extraction and classification.
package price

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var numberRe = regexp.MustCompile(`[\d.]+`)

// FirstNumber returns the first run of digits and dots in s, e.g. "10.00" from "Was $10.00".
func FirstNumber(s string) (string, bool) {
	m := numberRe.FindString(s)
	if m == "" {
		return "", false
	}
	return m, true
}

// Parse returns the first numeric substring of s as a float
func Parse(s string) (float64, error) {
	m, ok := FirstNumber(s)
	if !ok {
		return 0, fmt.Errorf("no number in %q", s)
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", m, err)
	}
	return v, nil
}

// StripCurrency removes dollar signs and surrounding whitespace from a rendered price
func StripCurrency(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "$", ""))
}
