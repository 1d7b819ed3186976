package analysis

import "time"

// ColumnType is the semantic type assigned to a column instance.
// Exactly one type is assigned per instance.
type ColumnType string

const (
	TypeEmpty       ColumnType = "empty"
	TypeIdentifier  ColumnType = "identifier"
	TypeNumeric     ColumnType = "numeric"
	TypeCategorical ColumnType = "categorical"
	TypeDate        ColumnType = "date"
	TypeText        ColumnType = "text"
)

// Sheet is one decoded worksheet: an ordered sequence of rows sharing a
// set of named columns. Rows are aligned with Columns; the ingestion
// layer pads short rows so len(row) == len(Columns).
type Sheet struct {
	Name    string     `json:"name"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Source is one named file containing one or more sheets. Sources are
// immutable once handed to the engine.
type Source struct {
	Name   string  `json:"name"`
	Sheets []Sheet `json:"sheets"`
}

// Column returns the values of column i as an ordered slice.
func (s *Sheet) Column(i int) []string {
	values := make([]string, len(s.Rows))
	for r, row := range s.Rows {
		if i < len(row) {
			values[r] = row[i]
		}
	}
	return values
}

// NumericStats holds the statistics computed for one numeric column
// instance. StdDev uses the sample convention (n-1 denominator); a
// single surviving value yields a standard deviation of zero.
type NumericStats struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Count  int     `json:"count"`
}

// DataQuality holds per-instance null and uniqueness metrics. These are
// computed independently per column instance and never merged across
// sources.
type DataQuality struct {
	NullCount      int     `json:"null_count"`
	NullPercentage float64 `json:"null_percentage"`
	UniqueCount    int     `json:"unique_count"`
}

// SheetShape records the dimensions of one sheet within a source.
type SheetShape struct {
	Rows        int      `json:"rows"`
	Columns     int      `json:"columns"`
	ColumnNames []string `json:"column_names"`
}

// FileOverview summarizes the shape of one source. TotalColumns is the
// widest sheet in the file, not the sum across sheets.
type FileOverview struct {
	Filename     string                `json:"filename"`
	Sheets       map[string]SheetShape `json:"sheets"`
	TotalRows    int                   `json:"total_rows"`
	TotalColumns int                   `json:"total_columns"`
}

// FileAnalysis holds the per-source numeric statistics and data quality
// records, keyed by column key.
type FileAnalysis struct {
	NumericStats map[string]NumericStats `json:"numeric_stats"`
	DataQuality  map[string]DataQuality  `json:"data_quality"`
}

// ChartsData holds the three merged aggregate mappings keyed by column
// key. Values are pooled raw data suitable for direct visualization:
// the rendering layer must not re-derive statistics from them.
type ChartsData struct {
	Numeric     map[string][]float64        `json:"numeric"`
	Categorical map[string]map[string]int64 `json:"categorical"`
	Dates       map[string][]time.Time      `json:"dates"`
}

// Summary holds the corpus-level counts computed once from the final
// merged state. TotalColumns counts distinct column keys across the
// whole corpus, not the sum of per-file column counts.
type Summary struct {
	TotalFiles         int `json:"total_files"`
	TotalRows          int `json:"total_rows"`
	TotalColumns       int `json:"total_columns"`
	NumericColumns     int `json:"numeric_columns"`
	CategoricalColumns int `json:"categorical_columns"`
	DateColumns        int `json:"date_columns"`
}

// Result is the root analysis aggregate: the sole object handed to
// downstream reporting collaborators.
type Result struct {
	Summary          Summary                 `json:"summary"`
	DataOverview     []FileOverview          `json:"data_overview"`
	ChartsData       ChartsData              `json:"charts_data"`
	DetailedAnalysis map[string]FileAnalysis `json:"detailed_analysis"`
	Insights         []string                `json:"insights"`
}
