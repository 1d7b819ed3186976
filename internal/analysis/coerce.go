package analysis

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// missingTokens are treated as missing values in addition to the empty
// string. The set mirrors the default NA markers of common spreadsheet
// tooling, so cells like "N/A" are excluded from every computation
// rather than breaking a column's numeric classification.
var missingTokens = map[string]struct{}{
	"n/a":  {},
	"na":   {},
	"#n/a": {},
	"null": {},
	"nan":  {},
	"none": {},
	"-":    {},
}

// IsMissing reports whether a raw cell value counts as missing.
func IsMissing(value string) bool {
	v := strings.TrimSpace(value)
	if v == "" {
		return true
	}
	_, ok := missingTokens[strings.ToLower(v)]
	return ok
}

// ParseNumber coerces a raw cell value to a float64. Thousands
// separators and a leading currency-style dollar sign are stripped
// before parsing. Missing values never parse.
func ParseNumber(value string) (float64, bool) {
	v := strings.TrimSpace(value)
	if IsMissing(v) {
		return 0, false
	}
	v = strings.ReplaceAll(v, ",", "")
	v = strings.TrimPrefix(v, "$")
	if strings.HasSuffix(v, "%") {
		v = strings.TrimSuffix(v, "%")
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// IsInteger reports whether f has no fractional part.
func IsInteger(f float64) bool {
	return f == math.Trunc(f)
}

// dateLayouts are tried in order by ParseDate. Excel cells arrive as
// display strings, so both ISO and common locale formats are covered.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
	"2006/01/02",
	"02-01-2006",
	"01-02-06",
	"02-Jan-06",
	"02-Jan-2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
}

// ParseDate coerces a raw cell value to a timestamp. Missing values
// never parse.
func ParseDate(value string) (time.Time, bool) {
	v := strings.TrimSpace(value)
	if IsMissing(v) {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
