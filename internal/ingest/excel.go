// Package ingest decodes uploaded spreadsheet files into the engine's
// input shape. Excel workbooks are read sheet by sheet; CSV files
// become single-sheet sources. Decoding normalizes headers and strips
// fully empty rows and columns so the engine never sees padding.
package ingest

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"hrpulse/internal/analysis"
	"hrpulse/internal/infrastructure"
)

// LoadExcel reads an .xlsx workbook from disk and decodes every
// readable sheet. Sheets that cannot be read or contain no usable data
// are skipped with a warning; the file fails only when no sheet at all
// survives.
func LoadExcel(filePath, displayName string) (*analysis.Source, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return decodeWorkbook(f, displayName)
}

// LoadExcelReader decodes an .xlsx workbook from a stream, such as an
// uploaded multipart file part.
func LoadExcelReader(r io.Reader, displayName string) (*analysis.Source, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return decodeWorkbook(f, displayName)
}

func decodeWorkbook(f *excelize.File, displayName string) (*analysis.Source, error) {
	logger := infrastructure.GetLogger().With("component", "ingest", "file", displayName)

	source := &analysis.Source{Name: displayName}

	for _, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			logger.Warn("skipping unreadable sheet",
				"sheet", sheetName,
				"error", err)
			continue
		}

		sheet, ok := buildSheet(sheetName, rows)
		if !ok {
			logger.Warn("skipping sheet with no usable data", "sheet", sheetName)
			continue
		}

		source.Sheets = append(source.Sheets, sheet)
	}

	if len(source.Sheets) == 0 {
		return nil, fmt.Errorf("no readable sheets in %s", displayName)
	}

	return source, nil
}

// buildSheet turns raw cell rows into a normalized Sheet. The header is
// the first row with any non-blank cell; column names are trimmed and
// blank headers are named by position. Returns false when no header or
// no data rows remain.
func buildSheet(name string, rows [][]string) (analysis.Sheet, bool) {
	headerIdx := -1
	for i, row := range rows {
		if !rowIsEmpty(row) {
			headerIdx = i
			break
		}
	}
	if headerIdx == -1 || headerIdx == len(rows)-1 {
		return analysis.Sheet{}, false
	}

	header := rows[headerIdx]
	width := len(header)
	for _, row := range rows[headerIdx+1:] {
		if len(row) > width {
			width = len(row)
		}
	}

	columns := make([]string, width)
	for i := range columns {
		var raw string
		if i < len(header) {
			raw = strings.TrimSpace(header[i])
		}
		if raw == "" {
			raw = fmt.Sprintf("Column %d", i+1)
		}
		columns[i] = raw
	}

	var data [][]string
	for _, row := range rows[headerIdx+1:] {
		if rowIsEmpty(row) {
			continue
		}
		padded := make([]string, width)
		for i := 0; i < len(row) && i < width; i++ {
			padded[i] = strings.TrimSpace(row[i])
		}
		data = append(data, padded)
	}
	if len(data) == 0 {
		return analysis.Sheet{}, false
	}

	columns, data = dropEmptyColumns(columns, data)
	if len(columns) == 0 {
		return analysis.Sheet{}, false
	}

	return analysis.Sheet{Name: name, Columns: columns, Rows: data}, true
}

// dropEmptyColumns removes columns whose every cell is blank. Column
// order is otherwise preserved.
func dropEmptyColumns(columns []string, rows [][]string) ([]string, [][]string) {
	keep := make([]bool, len(columns))
	for _, row := range rows {
		for i, cell := range row {
			if i < len(keep) && cell != "" {
				keep[i] = true
			}
		}
	}

	var outCols []string
	for i, col := range columns {
		if keep[i] {
			outCols = append(outCols, col)
		}
	}
	if len(outCols) == len(columns) {
		return columns, rows
	}

	outRows := make([][]string, len(rows))
	for r, row := range rows {
		out := make([]string, 0, len(outCols))
		for i, cell := range row {
			if keep[i] {
				out = append(out, cell)
			}
		}
		outRows[r] = out
	}
	return outCols, outRows
}

func rowIsEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
