package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateNumeric(t *testing.T) {
	// N/A is excluded from the statistic without disqualifying the column.
	values := []string{"50000", "60000", "70000", "N/A", "80000"}
	agg := Aggregate(TypeNumeric, values)

	require.NotNil(t, agg.Stats)
	assert.Equal(t, 4, agg.Stats.Count)
	assert.InDelta(t, 65000, agg.Stats.Mean, 1e-9)
	assert.InDelta(t, 65000, agg.Stats.Median, 1e-9)
	assert.InDelta(t, 50000, agg.Stats.Min, 1e-9)
	assert.InDelta(t, 80000, agg.Stats.Max, 1e-9)
	// Sample standard deviation over {50000, 60000, 70000, 80000}.
	assert.InDelta(t, 12909.944487, agg.Stats.StdDev, 1e-4)
	assert.Equal(t, []float64{50000, 60000, 70000, 80000}, agg.Numbers)
}

func TestAggregateNumericMedianEvenOdd(t *testing.T) {
	odd := Aggregate(TypeNumeric, []string{"3", "1", "2"})
	require.NotNil(t, odd.Stats)
	assert.InDelta(t, 2, odd.Stats.Median, 1e-9)

	even := Aggregate(TypeNumeric, []string{"4", "1", "3", "2"})
	require.NotNil(t, even.Stats)
	assert.InDelta(t, 2.5, even.Stats.Median, 1e-9)
}

func TestAggregateNumericSingleValue(t *testing.T) {
	agg := Aggregate(TypeNumeric, []string{"5"})
	require.NotNil(t, agg.Stats)
	assert.Equal(t, 1, agg.Stats.Count)
	assert.Zero(t, agg.Stats.StdDev)
}

func TestAggregateNumericNothingSurvives(t *testing.T) {
	// If zero values survive coercion no statistics are recorded.
	agg := Aggregate(TypeNumeric, []string{"N/A", ""})
	assert.Nil(t, agg.Stats)
	assert.Empty(t, agg.Numbers)
}

func TestAggregateCategorical(t *testing.T) {
	agg := Aggregate(TypeCategorical, []string{" Eng ", "Eng", "Sales", "", "N/A", "42"})

	assert.Equal(t, map[string]int64{
		"Eng":   2,
		"Sales": 1,
		"42":    1, // numeric-looking categories stay strings
	}, agg.Categories)
}

func TestAggregateDate(t *testing.T) {
	agg := Aggregate(TypeDate, []string{"2023-01-01", "garbage", "2023-02-01", ""})
	assert.Len(t, agg.Dates, 2)
}

func TestAggregateIdentifierAndTextProduceNoAggregate(t *testing.T) {
	for _, typ := range []ColumnType{TypeIdentifier, TypeText, TypeEmpty} {
		agg := Aggregate(typ, []string{"a", "b", ""})
		assert.Nil(t, agg.Stats)
		assert.Nil(t, agg.Categories)
		assert.Empty(t, agg.Dates)
		// The data quality record is still computed.
		assert.Equal(t, 1, agg.Quality.NullCount)
	}
}

func TestDataQuality(t *testing.T) {
	agg := Aggregate(TypeText, []string{"a", "", "b", "N/A", "a"})
	assert.Equal(t, 2, agg.Quality.NullCount)
	assert.InDelta(t, 40, agg.Quality.NullPercentage, 1e-9)
	assert.Equal(t, 2, agg.Quality.UniqueCount)
}

func TestDataQualityZeroRows(t *testing.T) {
	agg := Aggregate(TypeEmpty, nil)
	assert.Zero(t, agg.Quality.NullCount)
	assert.Zero(t, agg.Quality.NullPercentage)
	assert.Zero(t, agg.Quality.UniqueCount)
}
