// Package markdown renders the document model as wiki markdown: styled
// inline runs, headings, list items, pipe tables and comment footnotes.
package markdown

import (
	"fmt"
	"strings"

	"github.com/acmerocket/wikinator/diag"
	"github.com/acmerocket/wikinator/model"
)

// Renderer converts blocks to markdown fragments. It is not safe for
// concurrent use when sharing a Collector.
type Renderer struct {
	monospace map[string]bool
	warn      *diag.Collector
}

// NewRenderer returns a renderer reporting to warn. Fonts replace
// DefaultMonospaceFonts when given.
func NewRenderer(warn *diag.Collector, fonts ...string) *Renderer {
	if len(fonts) == 0 {
		fonts = DefaultMonospaceFonts
	}
	r := &Renderer{
		monospace: make(map[string]bool, len(fonts)),
		warn:      warn,
	}
	for _, f := range fonts {
		r.monospace[strings.ToLower(strings.TrimSpace(f))] = true
	}
	return r
}

// RenderBlocks renders blocks in order, dropping those that produce nothing.
func (r *Renderer) RenderBlocks(blocks []model.Block) []string {
	fragments := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if fragment, ok := r.RenderBlock(b); ok {
			fragments = append(fragments, fragment)
		}
	}
	return fragments
}

// RenderBlock renders one block. It reports false when the block produces no
// fragment: empty paragraphs and tables, ignored structure, and unsupported
// elements.
func (r *Renderer) RenderBlock(b model.Block) (string, bool) {
	switch v := b.(type) {
	case *model.Paragraph:
		return r.renderParagraph(v)
	case *model.Table:
		table := RenderTable(v)
		return table, table != ""
	case *model.Ignored:
		return "", false
	case *model.Unsupported:
		r.warn.Warn(diag.UnsupportedBlock, "unsupported block", "tag", v.Tag)
		return "", false
	default:
		r.warn.Warn(diag.UnsupportedBlock, "unsupported block", "tag", fmt.Sprintf("%T", b))
		return "", false
	}
}

func (r *Renderer) renderParagraph(p *model.Paragraph) (string, bool) {
	prefix := ""
	switch p.Style {
	case model.StyleHeading:
		prefix = strings.Repeat("#", p.HeadingLevel) + " "
	case model.StyleBody, model.StyleList:
		prefix = ListPrefix(p.Numbering, r.warn)
	default:
		r.warn.Warn(diag.UnsupportedStyle, "unsupported style", "style", p.StyleName)
	}

	text := strings.TrimSpace(prefix + r.RenderInline(p.Content))
	if text == "" {
		return "", false
	}
	// nested list items keep their indentation
	indent := prefix[:len(prefix)-len(strings.TrimLeft(prefix, " "))]
	return indent + text, true
}

// RenderTable renders a pipe table whose first row is the header. Rows are
// padded to the widest row; cell text is trimmed, line breaks become spaces
// and pipes are escaped. An empty table renders as "".
func RenderTable(t *model.Table) string {
	cols := t.ColCount()
	if cols == 0 {
		return ""
	}

	lines := make([]string, 0, t.RowCount()+1)
	for i := range t.Rows {
		cells := make([]string, cols)
		for c := range cells {
			cells[c] = tableCell(t.Cell(i, c))
		}
		lines = append(lines, "| "+strings.Join(cells, " | ")+" |")

		if i == 0 {
			lines = append(lines, "|"+strings.Repeat(" --- |", cols))
		}
	}
	return strings.Join(lines, "\n")
}

var cellReplacer = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "|", `\|`)

func tableCell(text string) string {
	return cellReplacer.Replace(strings.TrimSpace(text))
}
