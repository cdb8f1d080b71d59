package model

// Table is a body table with cell text already flattened to plain strings.
// Rich formatting inside cells is not preserved.
type Table struct {
	Rows [][]string
}

// Type implements Block.
func (t *Table) Type() BlockType { return BlockTypeTable }

// ColCount returns the width of the widest row.
func (t *Table) ColCount() int {
	count := 0
	for _, row := range t.Rows {
		if len(row) > count {
			count = len(row)
		}
	}
	return count
}

// RowCount returns the number of rows.
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// Cell returns the text at row, col, or "" when the row is shorter.
func (t *Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) {
		return ""
	}
	if col < 0 || col >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][col]
}
