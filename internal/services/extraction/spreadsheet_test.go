package extraction

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ternarybob/lectio/internal/models"
)

func xlsxFixture(t *testing.T, sheets map[string][][]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

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

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestXLSXExtraction(t *testing.T) {
	s := testService()

	data := xlsxFixture(t, map[string][][]interface{}{
		"Orders": {
			{"id", "total"},
			{"1", "9.50"},
			{"2", "120.00"},
		},
	})

	result := s.Process(context.Background(), data,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "orders.xlsx")

	require.True(t, result.Success, "error: %s", result.Error)
	assert.Equal(t, 1, result.Metadata.SheetCount)
	assert.Contains(t, result.Content, "=== Sheet: Orders ===")
	assert.Contains(t, result.Content, "Rows: 3, Columns: 2")
	assert.Contains(t, result.Content, "id,total")
	assert.Contains(t, result.Content, "2,120.00")
}

func TestXLSXCorrupted(t *testing.T) {
	s := testService()

	result := s.Process(context.Background(), []byte("these are not xlsx bytes"),
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "broken.xlsx")

	require.False(t, result.Success)
	assert.Equal(t, models.ErrKindSpreadsheetProcessing, result.Kind)
}

func TestCSVWindowsLineEndings(t *testing.T) {
	s := testService()

	result := s.Process(context.Background(), []byte("a,b\r\n1,2\r\n"), "text/csv", "data.csv")
	require.True(t, result.Success)
	assert.Contains(t, result.Content, "Rows: 2, Columns: 2")
	assert.Contains(t, result.Content, "a,b\n1,2")
}

func TestCSVRaggedRows(t *testing.T) {
	s := testService()

	result := s.Process(context.Background(), []byte("a,b,c\n1\n2,3\n"), "text/csv", "ragged.csv")
	require.True(t, result.Success)
	assert.Contains(t, result.Content, "Rows: 3, Columns: 3")
}

func TestCSVMalformed(t *testing.T) {
	s := testService()

	result := s.Process(context.Background(), []byte("a,\"unterminated\n1,2\n"), "text/csv", "bad.csv")
	require.False(t, result.Success)
	assert.Equal(t, models.ErrKindSpreadsheetProcessing, result.Kind)
	assert.True(t, strings.Contains(result.Error, "bad.csv"))
}
