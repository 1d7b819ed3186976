package analysis

import "strings"

// Keyword sets driving the name-based classification hints.
var (
	dateNameKeywords       = []string{"date", "time", "created", "updated", "birth", "hire", "start", "end"}
	identifierNameKeywords = []string{"id", "code", "number"}
)

const (
	// dateHintSampleSize is how many leading non-missing values the
	// name-based date hint attempts to parse.
	dateHintSampleSize = 10

	// identifierUniqueRatio is the distinct/total ratio above which an
	// all-integer column with an id-like name becomes an identifier.
	identifierUniqueRatio = 0.8

	// categoricalMaxDistinct and categoricalMaxRatio bound step 4 of
	// the classification. Both thresholds are inclusive: exactly 20
	// distinct values or exactly a 0.5 ratio still classify as
	// categorical.
	categoricalMaxDistinct = 20
	categoricalMaxRatio    = 0.5
)

// Classify assigns exactly one semantic type to a column given its raw
// values and its name. Rules apply in strict priority order, first
// match wins:
//
//  1. all values missing -> empty
//  2. date-like column name whose leading values all parse as dates -> date
//  3. every value numeric -> identifier (all integers, high uniqueness,
//     id-like name) or numeric
//  4. few distinct values -> categorical
//  5. otherwise -> text
//
// The type decision requires every non-missing raw value to parse for
// step 3; aggregation re-coerces values independently and drops
// individual failures (see Aggregate). Keep the two passes separate.
func Classify(values []string, name string) ColumnType {
	clean := dropMissing(values)
	if len(clean) == 0 {
		return TypeEmpty
	}

	nameLower := strings.ToLower(strings.TrimSpace(name))

	// Name hint alone is not sufficient: the sampled values must all
	// parse as dates, otherwise fall through to the value-based rules.
	if containsAny(nameLower, dateNameKeywords) && leadingValuesAreDates(clean) {
		return TypeDate
	}

	if numbers, allNumeric := parseAll(clean); allNumeric {
		if allIntegers(numbers) {
			ratio := float64(distinctCount(clean)) / float64(len(clean))
			if ratio > identifierUniqueRatio && containsAny(nameLower, identifierNameKeywords) {
				return TypeIdentifier
			}
		}
		return TypeNumeric
	}

	distinct := distinctCount(clean)
	if distinct <= categoricalMaxDistinct || float64(distinct)/float64(len(clean)) <= categoricalMaxRatio {
		return TypeCategorical
	}

	return TypeText
}

func dropMissing(values []string) []string {
	clean := make([]string, 0, len(values))
	for _, v := range values {
		if !IsMissing(v) {
			clean = append(clean, v)
		}
	}
	return clean
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func leadingValuesAreDates(clean []string) bool {
	sample := clean
	if len(sample) > dateHintSampleSize {
		sample = sample[:dateHintSampleSize]
	}
	for _, v := range sample {
		if _, ok := ParseDate(v); !ok {
			return false
		}
	}
	return true
}

func parseAll(clean []string) ([]float64, bool) {
	numbers := make([]float64, 0, len(clean))
	for _, v := range clean {
		f, ok := ParseNumber(v)
		if !ok {
			return nil, false
		}
		numbers = append(numbers, f)
	}
	return numbers, true
}

func allIntegers(numbers []float64) bool {
	for _, f := range numbers {
		if !IsInteger(f) {
			return false
		}
	}
	return true
}

func distinctCount(clean []string) int {
	seen := make(map[string]struct{}, len(clean))
	for _, v := range clean {
		seen[strings.TrimSpace(v)] = struct{}{}
	}
	return len(seen)
}
