// Package exporter writes analysis results to report files on disk.
// Two formats are produced: a CSV report readable in Excel and a full
// JSON dump of the result for downstream tooling.
package exporter

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"hrpulse/internal/analysis"
	"hrpulse/internal/config"
	apperrors "hrpulse/internal/errors"
)

// ReportWriter writes report files into the configured reports
// directory, namespaced by session id.
type ReportWriter struct {
	reportsDir string
	logger     *slog.Logger
}

// NewReportWriter creates a report writer
func NewReportWriter(paths config.PathsConfig, logger *slog.Logger) *ReportWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportWriter{
		reportsDir: paths.ReportsDir,
		logger:     logger.With("component", "exporter"),
	}
}

// Metadata carries the caller-supplied report header fields.
type Metadata struct {
	Title   string
	Company string
}

// WriteJSON writes the full result as a JSON file and returns its
// path.
func (w *ReportWriter) WriteJSON(ctx context.Context, sessionID string, result *analysis.Result) (string, error) {
	path, err := w.reportPath(sessionID, "report.json")
	if err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", apperrors.NewStorageError("failed to encode report", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", apperrors.NewStorageError("failed to write report file", err)
	}

	w.logger.InfoContext(ctx, "JSON report written",
		"session_id", sessionID,
		"path", path,
		"bytes", len(data))

	return path, nil
}

// WriteCSV writes a human-readable CSV report: header metadata, the
// summary block, per-column numeric statistics and the top categorical
// values. Rows are emitted in sorted column-key order so repeated
// exports of the same result are identical.
func (w *ReportWriter) WriteCSV(ctx context.Context, sessionID string, result *analysis.Result, meta Metadata) (string, error) {
	path, err := w.reportPath(sessionID, "report.csv")
	if err != nil {
		return "", err
	}

	file, err := os.Create(path)
	if err != nil {
		return "", apperrors.NewStorageError("failed to create report file", err)
	}
	defer file.Close()

	// UTF-8 BOM so Excel opens the file with the right encoding.
	if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return "", apperrors.NewStorageError("failed to write report file", err)
	}

	cw := csv.NewWriter(file)

	records := buildCSVRecords(result, meta)
	for _, record := range records {
		if err := cw.Write(record); err != nil {
			return "", apperrors.NewStorageError("failed to write report row", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", apperrors.NewStorageError("failed to flush report", err)
	}

	w.logger.InfoContext(ctx, "CSV report written",
		"session_id", sessionID,
		"path", path,
		"rows", len(records))

	return path, nil
}

func (w *ReportWriter) reportPath(sessionID, filename string) (string, error) {
	dir := filepath.Join(w.reportsDir, sessionID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", apperrors.NewStorageError("failed to create report directory", err)
	}
	return filepath.Join(dir, filename), nil
}

func buildCSVRecords(result *analysis.Result, meta Metadata) [][]string {
	var records [][]string
	add := func(fields ...string) { records = append(records, fields) }

	if meta.Title != "" {
		add("Title", meta.Title)
	}
	if meta.Company != "" {
		add("Company", meta.Company)
	}

	add("Section", "Summary")
	add("Total Files", strconv.Itoa(result.Summary.TotalFiles))
	add("Total Rows", strconv.Itoa(result.Summary.TotalRows))
	add("Total Columns", strconv.Itoa(result.Summary.TotalColumns))
	add("Numeric Columns", strconv.Itoa(result.Summary.NumericColumns))
	add("Categorical Columns", strconv.Itoa(result.Summary.CategoricalColumns))
	add("Date Columns", strconv.Itoa(result.Summary.DateColumns))

	if len(result.ChartsData.Numeric) > 0 {
		add("Section", "Numeric Columns")
		add("Column", "Count", "Mean", "Median", "Std Dev", "Min", "Max")
		for _, key := range sortedKeys(result.ChartsData.Numeric) {
			stats := analysis.ComputeStats(result.ChartsData.Numeric[key])
			add(key,
				strconv.Itoa(stats.Count),
				formatFloat(stats.Mean),
				formatFloat(stats.Median),
				formatFloat(stats.StdDev),
				formatFloat(stats.Min),
				formatFloat(stats.Max))
		}
	}

	if len(result.ChartsData.Categorical) > 0 {
		add("Section", "Categorical Columns")
		add("Column", "Value", "Count")
		for _, key := range sortedKeys(result.ChartsData.Categorical) {
			counts := result.ChartsData.Categorical[key]
			for _, value := range sortedKeys(counts) {
				add(key, value, strconv.FormatInt(counts[value], 10))
			}
		}
	}

	if len(result.Insights) > 0 {
		add("Section", "Insights")
		for _, insight := range result.Insights {
			add(insight)
		}
	}

	return records
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
