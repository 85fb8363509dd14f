// -----------------------------------------------------------------------
// Extraction Models - positioned text tokens and tabular sheets
// -----------------------------------------------------------------------

package models

// Token is one positioned text run from a page. Coordinates use the PDF
// convention: X grows rightward, Y grows upward, so the top of the page
// has the largest Y.
type Token struct {
	Text   string  `json:"text"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Page   int     `json:"page"`
}

// Sheet is one parsed worksheet. ColumnCount reflects the first row only;
// ragged rows keep whatever length they came with.
type Sheet struct {
	Name        string     `json:"name"`
	Rows        [][]string `json:"rows"`
	RowCount    int        `json:"row_count"`
	ColumnCount int        `json:"column_count"`
}

// NewSheet builds a Sheet with its metrics derived from the row data.
func NewSheet(name string, rows [][]string) Sheet {
	s := Sheet{
		Name:     name,
		Rows:     rows,
		RowCount: len(rows),
	}
	if len(rows) > 0 {
		s.ColumnCount = len(rows[0])
	}
	return s
}
