package extraction

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ternarybob/lectio/internal/interfaces"
	"github.com/ternarybob/lectio/internal/models"
)

// spreadsheetPipeline parses the workbook and linearizes its sheets. CSV is
// treated as a single-sheet workbook named after the file.
func (s *Service) spreadsheetPipeline(data []byte, formatType, fileName string, meta *models.Metadata) (string, *models.ExtractionError) {
	var sheets []models.Sheet
	var err error

	if formatType == "csv" {
		sheets, err = parseCSVSheet(data, fileName)
	} else {
		sheets, err = s.workbook.Parse(data)
	}
	if err != nil {
		return "", models.WrapExtractionError(models.ErrKindSpreadsheetProcessing, err,
			"failed to parse workbook %s", fileName)
	}

	meta.SheetCount = len(sheets)
	return LinearizeSheets(sheets), nil
}

// parseCSVSheet reads CSV bytes into one Sheet. Ragged rows are accepted.
func parseCSVSheet(data []byte, fileName string) ([]models.Sheet, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	name := strings.TrimSuffix(filepath.Base(fileName), filepath.Ext(fileName))
	if name == "" {
		name = "Sheet1"
	}
	return []models.Sheet{models.NewSheet(name, rows)}, nil
}

// ExcelWorkbookParser parses XLSX workbooks with excelize.
type ExcelWorkbookParser struct{}

// Compile-time interface assertion
var _ interfaces.WorkbookParser = (*ExcelWorkbookParser)(nil)

// Parse implements interfaces.WorkbookParser. Sheets come back in declared
// workbook order.
func (p *ExcelWorkbookParser) Parse(data []byte) ([]models.Sheet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	names := f.GetSheetList()
	sheets := make([]models.Sheet, 0, len(names))
	for _, name := range names {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("read sheet %s: %w", name, err)
		}
		sheets = append(sheets, models.NewSheet(name, rows))
	}
	return sheets, nil
}
