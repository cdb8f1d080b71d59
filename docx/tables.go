package docx

import (
	"strings"

	"github.com/acmerocket/wikinator/model"
)

// tableCell is a cell placed on the table grid before merges are resolved.
type tableCell struct {
	Text                 string
	ColSpan              int  // number of grid columns spanned (gridSpan)
	IsMergedContinuation bool // continues a vertical merge from the row above
}

// parseTable flattens a <w:tbl> into rows of plain cell text. Horizontally
// spanned cells repeat their text in every covered column and vertically
// merged continuation cells take the text of the cell above.
func (b *bodyParser) parseTable(tbl *node) *model.Table {
	var grid [][]tableCell
	for _, tr := range unwrapContent(tbl.Nodes, "tr") {
		row := b.parseRow(tr)
		grid = append(grid, row)
	}

	table := &model.Table{Rows: make([][]string, 0, len(grid))}
	for rowIdx, row := range grid {
		var cells []string
		for _, cell := range row {
			text := cell.Text
			if cell.IsMergedContinuation {
				text = cellAbove(table.Rows, rowIdx, len(cells))
			}
			for i := 0; i < cell.ColSpan; i++ {
				cells = append(cells, text)
			}
		}
		table.Rows = append(table.Rows, cells)
	}
	return table
}

func (b *bodyParser) parseRow(tr *node) []tableCell {
	var cells []tableCell
	for _, tc := range unwrapContent(tr.Nodes, "tc") {
		cells = append(cells, b.parseCell(tc))
	}
	return cells
}

func (b *bodyParser) parseCell(tc *node) tableCell {
	cell := tableCell{ColSpan: 1}

	if props := tc.child("tcPr"); props != nil {
		if span := props.child("gridSpan"); span != nil {
			if n := atoiDefault(span.attr("val"), 1); n > 1 {
				cell.ColSpan = n
			}
		}
		// an empty val continues the merge; "restart" begins one
		if vMerge := props.child("vMerge"); vMerge != nil && vMerge.attr("val") != "restart" {
			cell.IsMergedContinuation = true
		}
	}

	var paragraphs []string
	for _, p := range unwrapContent(tc.Nodes, "p") {
		para := b.parseParagraph(p)
		paragraphs = append(paragraphs, para.PlainText())
	}
	cell.Text = strings.Join(paragraphs, "\n")
	return cell
}

// cellAbove returns the already resolved text at col in the previous row.
func cellAbove(rows [][]string, rowIdx, col int) string {
	if rowIdx == 0 || rowIdx-1 >= len(rows) {
		return ""
	}
	above := rows[rowIdx-1]
	if col >= len(above) {
		return ""
	}
	return above[col]
}

// unwrapContent returns the children named local, looking through content
// controls (<w:sdt><w:sdtContent>) and custom XML wrappers.
func unwrapContent(nodes []node, local string) []*node {
	var out []*node
	for i := range nodes {
		n := &nodes[i]
		switch n.XMLName.Local {
		case local:
			out = append(out, n)
		case "sdt":
			if content := n.child("sdtContent"); content != nil {
				out = append(out, unwrapContent(content.Nodes, local)...)
			}
		case "customXml":
			out = append(out, unwrapContent(n.Nodes, local)...)
		}
	}
	return out
}
