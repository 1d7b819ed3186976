package analysis

import (
	"math"
	"sort"
	"strings"
	"time"
)

// ColumnAggregate is the per-instance aggregation output. Exactly one
// of the three payloads is populated depending on Type; identifier,
// text and empty columns produce none of them.
type ColumnAggregate struct {
	Type       ColumnType
	Numbers    []float64
	Stats      *NumericStats
	Categories map[string]int64
	Dates      []time.Time
	Quality    DataQuality
}

// Aggregate computes the statistical or distributional summary for one
// classified column instance. Individual values that fail coercion are
// dropped from that statistic; they never abort the column.
func Aggregate(columnType ColumnType, values []string) ColumnAggregate {
	agg := ColumnAggregate{
		Type:    columnType,
		Quality: computeQuality(values),
	}

	switch columnType {
	case TypeNumeric:
		numbers := coerceNumbers(values)
		if len(numbers) > 0 {
			agg.Numbers = numbers
			stats := ComputeStats(numbers)
			agg.Stats = &stats
		}
	case TypeCategorical:
		agg.Categories = countCategories(values)
	case TypeDate:
		agg.Dates = coerceDates(values)
	}

	return agg
}

func coerceNumbers(values []string) []float64 {
	numbers := make([]float64, 0, len(values))
	for _, v := range values {
		if f, ok := ParseNumber(v); ok {
			numbers = append(numbers, f)
		}
	}
	return numbers
}

func coerceDates(values []string) []time.Time {
	dates := make([]time.Time, 0, len(values))
	for _, v := range values {
		if t, ok := ParseDate(v); ok {
			dates = append(dates, t)
		}
	}
	return dates
}

// countCategories counts occurrences of each trimmed string
// representation of the non-missing values. Numeric-looking categories
// stay strings; they are never binned.
func countCategories(values []string) map[string]int64 {
	counts := make(map[string]int64)
	for _, v := range values {
		if IsMissing(v) {
			continue
		}
		counts[strings.TrimSpace(v)]++
	}
	return counts
}

func computeQuality(values []string) DataQuality {
	q := DataQuality{}
	distinct := make(map[string]struct{})
	for _, v := range values {
		if IsMissing(v) {
			q.NullCount++
			continue
		}
		distinct[strings.TrimSpace(v)] = struct{}{}
	}
	q.UniqueCount = len(distinct)
	if n := len(values); n > 0 {
		q.NullPercentage = 100 * float64(q.NullCount) / float64(n)
	}
	return q
}

// ComputeStats computes mean, median, sample standard deviation, min,
// max and count over the coerced values. An empty slice yields zero
// stats.
func ComputeStats(numbers []float64) NumericStats {
	if len(numbers) == 0 {
		return NumericStats{}
	}

	stats := NumericStats{
		Count: len(numbers),
		Min:   numbers[0],
		Max:   numbers[0],
	}

	var sum float64
	for _, f := range numbers {
		sum += f
		if f < stats.Min {
			stats.Min = f
		}
		if f > stats.Max {
			stats.Max = f
		}
	}
	stats.Mean = sum / float64(len(numbers))

	// Sample standard deviation (n-1), matching the convention of the
	// upstream report tooling. A single value has zero deviation.
	if len(numbers) > 1 {
		var sq float64
		for _, f := range numbers {
			d := f - stats.Mean
			sq += d * d
		}
		stats.StdDev = math.Sqrt(sq / float64(len(numbers)-1))
	}

	stats.Median = median(numbers)
	return stats
}

func median(numbers []float64) float64 {
	sorted := make([]float64, len(numbers))
	copy(sorted, numbers)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
