package exporter

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrpulse/internal/analysis"
	"hrpulse/internal/config"
)

func testWriter(t *testing.T) *ReportWriter {
	t.Helper()
	paths := config.PathsConfig{ReportsDir: t.TempDir()}
	return NewReportWriter(paths, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func testResult() *analysis.Result {
	return &analysis.Result{
		Summary: analysis.Summary{
			TotalFiles:         2,
			TotalRows:          8,
			TotalColumns:       3,
			NumericColumns:     1,
			CategoricalColumns: 1,
		},
		ChartsData: analysis.ChartsData{
			Numeric: map[string][]float64{
				"Salary": {50000, 60000, 70000, 80000},
			},
			Categorical: map[string]map[string]int64{
				"Department": {"Engineering": 3, "Sales": 1},
			},
		},
		Insights: []string{"📊 Analyzed 2 files containing 8 total data records"},
	}
}

func TestWriteJSON(t *testing.T) {
	w := testWriter(t)

	path, err := w.WriteJSON(context.Background(), "sess-1", testResult())
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "sess-1/report.json"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded analysis.Result
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, 2, decoded.Summary.TotalFiles)
	assert.Equal(t, []float64{50000, 60000, 70000, 80000}, decoded.ChartsData.Numeric["Salary"])
}

func TestWriteCSV(t *testing.T) {
	w := testWriter(t)

	path, err := w.WriteCSV(context.Background(), "sess-2", testResult(), Metadata{
		Title:   "Quarterly Analysis",
		Company: "Acme",
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	// BOM prefix for Excel.
	require.True(t, strings.HasPrefix(string(data), "\xef\xbb\xbf"))

	reader := csv.NewReader(strings.NewReader(strings.TrimPrefix(string(data), "\xef\xbb\xbf")))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	require.NoError(t, err)

	assert.Equal(t, []string{"Title", "Quarterly Analysis"}, records[0])
	assert.Equal(t, []string{"Company", "Acme"}, records[1])

	joined := string(data)
	assert.Contains(t, joined, "Total Files,2")
	assert.Contains(t, joined, "Salary,4,65000.00")
	assert.Contains(t, joined, "Department,Engineering,3")
	assert.Contains(t, joined, "Analyzed 2 files")
}

func TestWriteCSVDeterministic(t *testing.T) {
	w := testWriter(t)

	path1, err := w.WriteCSV(context.Background(), "a", testResult(), Metadata{})
	require.NoError(t, err)
	path2, err := w.WriteCSV(context.Background(), "b", testResult(), Metadata{})
	require.NoError(t, err)

	d1, err := os.ReadFile(path1)
	require.NoError(t, err)
	d2, err := os.ReadFile(path2)
	require.NoError(t, err)
	assert.Equal(t, d1, d2)
}
