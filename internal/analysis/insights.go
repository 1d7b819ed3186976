package analysis

import (
	"fmt"
	"sort"
)

// Synthesize derives the ordered insight strings from a merged Result.
// Output is deterministic for a given Result: column keys are sorted
// alphabetically before emission and ties between equally frequent
// categories resolve to the lexicographically smallest value.
//
// Emission order is fixed: corpus summary, numeric column count,
// categorical column count, date column count (only when at least one
// date column exists), one line per numeric key with two or more pooled
// values, one line per categorical key with at least one category.
func Synthesize(result *Result) []string {
	insights := make([]string, 0, 4+len(result.ChartsData.Numeric)+len(result.ChartsData.Categorical))

	insights = append(insights,
		fmt.Sprintf("📊 Analyzed %d files containing %d total data records",
			result.Summary.TotalFiles, result.Summary.TotalRows),
		fmt.Sprintf("📈 Found %d numeric columns for quantitative analysis",
			result.Summary.NumericColumns),
		fmt.Sprintf("📋 Identified %d categorical columns for distribution analysis",
			result.Summary.CategoricalColumns),
	)

	if result.Summary.DateColumns > 0 {
		insights = append(insights,
			fmt.Sprintf("📅 Detected %d date columns for temporal analysis",
				result.Summary.DateColumns))
	}

	for _, key := range sortedKeys(result.ChartsData.Numeric) {
		values := result.ChartsData.Numeric[key]
		if len(values) < 2 {
			continue
		}
		stats := ComputeStats(values)
		insights = append(insights,
			fmt.Sprintf("📊 %s: Mean = %.2f, Std Dev = %.2f, Range = %.2f - %.2f",
				key, stats.Mean, stats.StdDev, stats.Min, stats.Max))
	}

	for _, key := range sortedKeys(result.ChartsData.Categorical) {
		categories := result.ChartsData.Categorical[key]
		if len(categories) == 0 {
			continue
		}
		top, total := topCategory(categories)
		percentage := 100 * float64(categories[top]) / float64(total)
		insights = append(insights,
			fmt.Sprintf("📋 %s: Most frequent value is '%s' (%.1f%% of data, %d records)",
				key, top, percentage, categories[top]))
	}

	return insights
}

// topCategory returns the most frequent category and the total pooled
// count. Ties resolve to the lexicographically smallest value.
func topCategory(categories map[string]int64) (string, int64) {
	var top string
	var topCount, total int64
	first := true
	for value, count := range categories {
		total += count
		if first || count > topCount || (count == topCount && value < top) {
			top, topCount = value, count
			first = false
		}
	}
	return top, total
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
