package interfaces

import "github.com/ternarybob/lectio/internal/models"

// WorkbookParser is the spreadsheet collaborator boundary: it turns workbook
// bytes into named sheets of stringified cell grids.
type WorkbookParser interface {
	Parse(data []byte) ([]models.Sheet, error)
}
