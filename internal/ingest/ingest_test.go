package ingest

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// writeWorkbook creates an .xlsx fixture and returns its path.
func writeWorkbook(t *testing.T, sheets map[string][][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	first := true
	for name, rows := range sheets {
		if first {
			require.NoError(t, f.SetSheetName("Sheet1", name))
			first = false
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(name, cell, &row))
		}
	}

	path := filepath.Join(t.TempDir(), "fixture.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

func TestLoadExcel(t *testing.T) {
	path := writeWorkbook(t, map[string][][]interface{}{
		"Employees": {
			{"Name", "Department", "Salary"},
			{"Alice", "Engineering", 50000},
			{"Bob", "Sales", 60000},
		},
	})

	source, err := LoadExcel(path, "employees.xlsx")
	require.NoError(t, err)

	assert.Equal(t, "employees.xlsx", source.Name)
	require.Len(t, source.Sheets, 1)

	sheet := source.Sheets[0]
	assert.Equal(t, "Employees", sheet.Name)
	assert.Equal(t, []string{"Name", "Department", "Salary"}, sheet.Columns)
	require.Len(t, sheet.Rows, 2)
	assert.Equal(t, []string{"Alice", "Engineering", "50000"}, sheet.Rows[0])
}

func TestLoadExcelSkipsLeadingEmptyRows(t *testing.T) {
	path := writeWorkbook(t, map[string][][]interface{}{
		"Data": {
			{"", "", ""},
			{"  Name  ", "Score"},
			{"Alice", 10},
			{"", ""},
			{"Bob", 20},
		},
	})

	source, err := LoadExcel(path, "data.xlsx")
	require.NoError(t, err)
	require.Len(t, source.Sheets, 1)

	sheet := source.Sheets[0]
	assert.Equal(t, []string{"Name", "Score"}, sheet.Columns)
	assert.Len(t, sheet.Rows, 2)
}

func TestLoadExcelFailsWithoutUsableSheets(t *testing.T) {
	path := writeWorkbook(t, map[string][][]interface{}{
		"Blank": {{"Header only"}},
	})

	_, err := LoadExcel(path, "blank.xlsx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no readable sheets")
}

func TestLoadCSVReader(t *testing.T) {
	data := "Name,Department\nAlice,Engineering\nBob,Sales\n"

	source, err := LoadCSVReader(strings.NewReader(data), "staff.csv")
	require.NoError(t, err)

	require.Len(t, source.Sheets, 1)
	sheet := source.Sheets[0]
	assert.Equal(t, "staff.csv", sheet.Name)
	assert.Equal(t, []string{"Name", "Department"}, sheet.Columns)
	assert.Len(t, sheet.Rows, 2)
}

func TestLoadCSVReaderPadsRaggedRows(t *testing.T) {
	data := "A,B,C\n1,2\n4,5,6\n"

	source, err := LoadCSVReader(strings.NewReader(data), "ragged.csv")
	require.NoError(t, err)

	sheet := source.Sheets[0]
	assert.Equal(t, []string{"1", "2", ""}, sheet.Rows[0])
	assert.Equal(t, []string{"4", "5", "6"}, sheet.Rows[1])
}

func TestBuildSheetDropsEmptyColumns(t *testing.T) {
	// A header alone does not keep a column alive; only cell data does.
	rows := [][]string{
		{"Name", "Unused", "Score"},
		{"Alice", "", "10"},
		{"Bob", "", "20"},
	}

	sheet, ok := buildSheet("s", rows)
	require.True(t, ok)
	assert.Equal(t, []string{"Name", "Score"}, sheet.Columns)
	assert.Equal(t, []string{"Alice", "10"}, sheet.Rows[0])
	assert.Equal(t, []string{"Bob", "20"}, sheet.Rows[1])
}

func TestBuildSheetNamesBlankHeadersByPosition(t *testing.T) {
	rows := [][]string{
		{"Name", ""},
		{"Alice", "x"},
	}

	sheet, ok := buildSheet("s", rows)
	require.True(t, ok)
	assert.Equal(t, []string{"Name", "Column 2"}, sheet.Columns)
}

func TestLoadFileRejectsUnknownExtension(t *testing.T) {
	_, err := LoadFile("whatever.pdf", "whatever.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file type")
}

func TestLoadSourcesSkipsFailedFiles(t *testing.T) {
	good := writeWorkbook(t, map[string][][]interface{}{
		"Data": {
			{"Name"},
			{"Alice"},
		},
	})

	sources := LoadSources(context.Background(), map[string]string{
		"good.xlsx":    good,
		"missing.xlsx": filepath.Join(t.TempDir(), "missing.xlsx"),
	})

	require.Len(t, sources, 1)
	assert.Equal(t, "good.xlsx", sources[0].Name)
}

func TestLoadSourcesPreservesNameOrder(t *testing.T) {
	a := writeWorkbook(t, map[string][][]interface{}{
		"S": {{"X"}, {"1"}},
	})
	b := writeWorkbook(t, map[string][][]interface{}{
		"S": {{"Y"}, {"2"}},
	})

	sources := LoadSources(context.Background(), map[string]string{
		"b.xlsx": b,
		"a.xlsx": a,
	})

	require.Len(t, sources, 2)
	assert.Equal(t, "a.xlsx", sources[0].Name)
	assert.Equal(t, "b.xlsx", sources[1].Name)
}
