package extraction

import (
	"fmt"
	"strings"

	"github.com/ternarybob/lectio/internal/models"
)

// LinearizeSheets renders a workbook as ordered text, one banner and metrics
// line per sheet in declared order, rows comma-joined. Cell values holding
// the delimiter are not escaped; downstream consumers treat the output as
// prose, not as parseable CSV. Sheets are separated by a blank line, not by
// a page-style separator banner.
func LinearizeSheets(sheets []models.Sheet) string {
	var sb strings.Builder
	for i, sheet := range sheets {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(fmt.Sprintf("=== Sheet: %s ===\n", sheet.Name))
		sb.WriteString(fmt.Sprintf("Rows: %d, Columns: %d\n", sheet.RowCount, sheet.ColumnCount))
		for _, row := range sheet.Rows {
			sb.WriteString(strings.Join(row, ","))
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
