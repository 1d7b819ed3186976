package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// ErrNoData is returned when merging yields zero usable column
// instances. Callers must treat this as a distinguishable "no data"
// condition rather than receiving a Result full of zeroed statistics.
var ErrNoData = errors.New("no usable data in any source")

const tracerName = "hrpulse/analysis"

// Analyzer runs the full classify/aggregate/merge/synthesize pipeline.
// It is stateless and safe for concurrent use; every call to Analyze
// produces an independent Result.
type Analyzer struct {
	logger *slog.Logger
}

// NewAnalyzer creates an analyzer. A nil logger falls back to
// slog.Default.
func NewAnalyzer(logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{
		logger: logger.With(slog.String("component", "analyzer")),
	}
}

// Analyze classifies and aggregates every column instance across all
// sources and merges them, keyed by trimmed column name, into one
// Result. Merging is purely name-based: two different real-world
// fields that share a trimmed name are pooled together.
//
// When a column key is classified differently across sources, each
// instance contributes only to the aggregate bucket matching its own
// classification; the key fragments across buckets rather than being
// re-resolved to a single type.
func (a *Analyzer) Analyze(ctx context.Context, sources []Source) (*Result, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "analysis.Analyze")
	defer span.End()

	start := time.Now()
	result := &Result{
		DataOverview: make([]FileOverview, 0, len(sources)),
		ChartsData: ChartsData{
			Numeric:     make(map[string][]float64),
			Categorical: make(map[string]map[string]int64),
			Dates:       make(map[string][]time.Time),
		},
		DetailedAnalysis: make(map[string]FileAnalysis),
	}

	totalRows := 0
	columnKeys := make(map[string]struct{})
	instances := 0

	for _, source := range sources {
		overview := FileOverview{
			Filename: source.Name,
			Sheets:   make(map[string]SheetShape),
		}
		fileAnalysis := FileAnalysis{
			NumericStats: make(map[string]NumericStats),
			DataQuality:  make(map[string]DataQuality),
		}

		for _, sheet := range source.Sheets {
			if len(sheet.Columns) == 0 || len(sheet.Rows) == 0 {
				continue
			}

			rows := len(sheet.Rows)
			totalRows += rows
			overview.Sheets[sheet.Name] = SheetShape{
				Rows:        rows,
				Columns:     len(sheet.Columns),
				ColumnNames: sheet.Columns,
			}
			overview.TotalRows += rows
			if len(sheet.Columns) > overview.TotalColumns {
				overview.TotalColumns = len(sheet.Columns)
			}

			for i, name := range sheet.Columns {
				key := strings.TrimSpace(name)
				values := sheet.Column(i)

				columnType := Classify(values, name)
				agg := Aggregate(columnType, values)
				a.fold(result, fileAnalysis, key, agg)

				columnKeys[key] = struct{}{}
				instances++
			}
		}

		result.DataOverview = append(result.DataOverview, overview)
		result.DetailedAnalysis[source.Name] = fileAnalysis
	}

	if instances == 0 {
		a.logger.WarnContext(ctx, "analysis produced no usable column instances",
			slog.Int("source_count", len(sources)))
		return nil, fmt.Errorf("analyze %d sources: %w", len(sources), ErrNoData)
	}

	// Totals are computed once from the final merged state; column
	// counts reflect distinct column keys across the whole corpus.
	result.Summary = Summary{
		TotalFiles:         len(sources),
		TotalRows:          totalRows,
		TotalColumns:       len(columnKeys),
		NumericColumns:     len(result.ChartsData.Numeric),
		CategoricalColumns: len(result.ChartsData.Categorical),
		DateColumns:        len(result.ChartsData.Dates),
	}
	result.Insights = Synthesize(result)

	span.SetAttributes(
		attribute.Int("analysis.sources", len(sources)),
		attribute.Int("analysis.rows", totalRows),
		attribute.Int("analysis.columns", len(columnKeys)),
	)
	a.logger.InfoContext(ctx, "analysis complete",
		slog.Int("files", len(sources)),
		slog.Int("rows", totalRows),
		slog.Int("columns", len(columnKeys)),
		slog.Duration("elapsed", time.Since(start)))

	return result, nil
}

// fold merges one per-instance aggregate into the result under its
// column key. Numeric value lists are concatenated so that the merged
// mean and median stay exact; categorical counts are summed per value;
// date lists are concatenated.
func (a *Analyzer) fold(result *Result, fileAnalysis FileAnalysis, key string, agg ColumnAggregate) {
	switch agg.Type {
	case TypeNumeric:
		if len(agg.Numbers) > 0 {
			result.ChartsData.Numeric[key] = append(result.ChartsData.Numeric[key], agg.Numbers...)
			fileAnalysis.NumericStats[key] = *agg.Stats
		}
	case TypeCategorical:
		if len(agg.Categories) > 0 {
			merged, ok := result.ChartsData.Categorical[key]
			if !ok {
				merged = make(map[string]int64, len(agg.Categories))
				result.ChartsData.Categorical[key] = merged
			}
			for value, count := range agg.Categories {
				merged[value] += count
			}
		}
	case TypeDate:
		if len(agg.Dates) > 0 {
			result.ChartsData.Dates[key] = append(result.ChartsData.Dates[key], agg.Dates...)
		}
	}

	fileAnalysis.DataQuality[key] = agg.Quality
}
