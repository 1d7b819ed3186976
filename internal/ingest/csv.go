package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"hrpulse/internal/analysis"
)

// LoadCSV reads a CSV file from disk as a single-sheet source. The
// sheet is named after the file.
func LoadCSV(filePath, displayName string) (*analysis.Source, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv: %w", err)
	}
	defer f.Close()

	return LoadCSVReader(f, displayName)
}

// LoadCSVReader decodes CSV data from a stream as a single-sheet
// source. Short records are padded by the sheet builder, so ragged
// input is accepted.
func LoadCSVReader(r io.Reader, displayName string) (*analysis.Source, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}

	sheet, ok := buildSheet(displayName, rows)
	if !ok {
		return nil, fmt.Errorf("no usable data in %s", displayName)
	}

	return &analysis.Source{Name: displayName, Sheets: []analysis.Sheet{sheet}}, nil
}
