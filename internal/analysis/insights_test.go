package analysis

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynthesizeEmissionOrder(t *testing.T) {
	analyzer := NewAnalyzer(slog.Default())
	sources := deptSources()
	sources = append(sources, Source{
		Name: "dates.xlsx",
		Sheets: []Sheet{{
			Name:    "S",
			Columns: []string{"Hire Date"},
			Rows:    [][]string{{"2023-01-15"}, {"2023-02-20"}},
		}},
	})

	result, err := analyzer.Analyze(context.Background(), sources)
	require.NoError(t, err)

	insights := result.Insights
	require.Len(t, insights, 6)

	assert.Equal(t, "📊 Analyzed 3 files containing 7 total data records", insights[0])
	assert.Equal(t, "📈 Found 1 numeric columns for quantitative analysis", insights[1])
	assert.Equal(t, "📋 Identified 1 categorical columns for distribution analysis", insights[2])
	assert.Equal(t, "📅 Detected 1 date columns for temporal analysis", insights[3])
	assert.True(t, strings.HasPrefix(insights[4], "📊 Salary: Mean = 65000.00"), insights[4])
	assert.Equal(t, "📋 Department: Most frequent value is 'Eng' (60.0% of data, 3 records)", insights[5])
}

func TestSynthesizeOmitsDateLineWithoutDateColumns(t *testing.T) {
	analyzer := NewAnalyzer(slog.Default())
	result, err := analyzer.Analyze(context.Background(), deptSources())
	require.NoError(t, err)

	for _, line := range result.Insights {
		assert.NotContains(t, line, "temporal analysis")
	}
}

func TestSynthesizeSkipsSparseKeys(t *testing.T) {
	result := &Result{
		Summary: Summary{TotalFiles: 1, TotalRows: 1, NumericColumns: 1, CategoricalColumns: 1},
		ChartsData: ChartsData{
			Numeric:     map[string][]float64{"Lonely": {42}},
			Categorical: map[string]map[string]int64{"Void": {}},
		},
	}

	insights := Synthesize(result)
	// Numeric keys need two pooled values; categorical keys need at
	// least one category. Only the three header lines remain.
	require.Len(t, insights, 3)
}

func TestSynthesizeSortsKeysAlphabetically(t *testing.T) {
	result := &Result{
		Summary: Summary{TotalFiles: 1, TotalRows: 4, NumericColumns: 2},
		ChartsData: ChartsData{
			Numeric: map[string][]float64{
				"Zeta":  {1, 2},
				"Alpha": {3, 4},
			},
			Categorical: map[string]map[string]int64{},
		},
	}

	insights := Synthesize(result)
	require.Len(t, insights, 5)
	assert.True(t, strings.HasPrefix(insights[3], "📊 Alpha:"))
	assert.True(t, strings.HasPrefix(insights[4], "📊 Zeta:"))
}

func TestSynthesizeTieBreaksByValue(t *testing.T) {
	result := &Result{
		Summary: Summary{TotalFiles: 1, TotalRows: 4, CategoricalColumns: 1},
		ChartsData: ChartsData{
			Numeric: map[string][]float64{},
			Categorical: map[string]map[string]int64{
				"Status": {"Open": 2, "Closed": 2},
			},
		},
	}

	// Deterministic across re-runs: equal counts resolve to the
	// lexicographically smallest value.
	for i := 0; i < 10; i++ {
		insights := Synthesize(result)
		require.Len(t, insights, 4)
		assert.Contains(t, insights[3], "'Closed' (50.0% of data, 2 records)")
	}
}

func TestSynthesizeIsDeterministic(t *testing.T) {
	analyzer := NewAnalyzer(slog.Default())
	result, err := analyzer.Analyze(context.Background(), deptSources())
	require.NoError(t, err)

	first := Synthesize(result)
	second := Synthesize(result)
	assert.Equal(t, first, second)
}
