package docx

import (
	"strconv"
	"strings"

	"github.com/acmerocket/wikinator/diag"
	"github.com/acmerocket/wikinator/model"
)

// bodyParser turns the element tree of word/document.xml into model blocks.
type bodyParser struct {
	styles    *StyleTable
	numbering *NumberingResolver
	rels      map[string]relationshipXML
	warn      *diag.Collector
}

// ignoredBlocks are body children that carry no renderable content.
var ignoredBlocks = map[string]bool{
	"sectPr": true,
	"sdt":    true,
}

// silentInlines are paragraph and run children that produce no output.
var silentInlines = map[string]bool{
	"pPr":                   true,
	"rPr":                   true,
	"bookmarkStart":         true,
	"bookmarkEnd":           true,
	"proofErr":              true,
	"commentRangeStart":     true,
	"commentRangeEnd":       true,
	"permStart":             true,
	"permEnd":               true,
	"moveFromRangeStart":    true,
	"moveFromRangeEnd":      true,
	"moveToRangeStart":      true,
	"moveToRangeEnd":        true,
	"lastRenderedPageBreak": true,
	"fldChar":               true,
	"instrText":             true,
	"delText":               true,
	"softHyphen":            true,
	"annotationRef":         true,
	"footnoteReference":     true,
	"endnoteReference":      true,
	"separator":             true,
	"continuationSeparator": true,
}

// wrapperInlines contain runs and are loaded as style-less nested runs.
var wrapperInlines = map[string]bool{
	"ins":       true,
	"moveTo":    true,
	"smartTag":  true,
	"fldSimple": true,
	"customXml": true,
}

// parseBody returns the body children as one ordered block sequence.
func (b *bodyParser) parseBody(body *node) []model.Block {
	if body == nil {
		return nil
	}

	blocks := make([]model.Block, 0, len(body.Nodes))
	for i := range body.Nodes {
		n := &body.Nodes[i]
		tag := n.XMLName.Local
		switch {
		case tag == "p":
			blocks = append(blocks, b.parseParagraph(n))
		case tag == "tbl":
			blocks = append(blocks, b.parseTable(n))
		case ignoredBlocks[tag]:
			blocks = append(blocks, &model.Ignored{Tag: tag})
		default:
			blocks = append(blocks, &model.Unsupported{Tag: tag})
		}
	}
	return blocks
}

// parseParagraph resolves the paragraph style and numbering and loads its
// inline content.
func (b *bodyParser) parseParagraph(p *node) *model.Paragraph {
	pPr := p.child("pPr")

	styleID := ""
	if pPr != nil {
		if ps := pPr.child("pStyle"); ps != nil {
			styleID = ps.attr("val")
		}
	}

	name := b.styles.Name(styleID)
	para := &model.Paragraph{
		StyleName: name,
		Numbering: b.numbering.numberingRef(pPr),
	}
	para.Style, para.HeadingLevel = ClassifyStyle(name, b.styles.IsDefault(name), para.Numbering != nil)
	para.Content = b.parseInlines(p.Nodes)
	return para
}

// parseInlines loads paragraph-level content: runs, hyperlinks and wrappers.
func (b *bodyParser) parseInlines(nodes []node) []model.Inline {
	var items []model.Inline
	for i := range nodes {
		n := &nodes[i]
		tag := n.XMLName.Local
		switch {
		case tag == "r":
			items = append(items, b.parseRun(n))
		case tag == "hyperlink":
			items = append(items, b.parseHyperlink(n))
		case tag == "sdt":
			if content := n.child("sdtContent"); content != nil {
				items = append(items, &model.Run{Content: b.parseInlines(content.Nodes)})
			}
		case wrapperInlines[tag]:
			items = append(items, &model.Run{Content: b.parseInlines(n.Nodes)})
		case tag == "del" || tag == "moveFrom":
			// deleted revisions are not part of the text
		case silentInlines[tag]:
		default:
			b.warn.Warn(diag.UnsupportedInline, "unsupported inline element", "element", tag)
		}
	}
	return items
}

// parseRun reads the run's direct formatting and its content in order.
func (b *bodyParser) parseRun(r *node) *model.Run {
	run := &model.Run{}
	if rPr := r.child("rPr"); rPr != nil {
		run.Bold = rPr.child("b").toggle()
		run.Italic = rPr.child("i").toggle()
		run.Underline = rPr.child("u").toggle()
		run.Strike = rPr.child("strike").toggle()
		if fonts := rPr.child("rFonts"); fonts != nil {
			run.Font = fonts.attr("ascii")
		}
	}
	run.Content = b.parseRunContent(r.Nodes, run)
	return run
}

func (b *bodyParser) parseRunContent(nodes []node, run *model.Run) []model.Inline {
	var items []model.Inline
	for i := range nodes {
		n := &nodes[i]
		tag := n.XMLName.Local
		switch tag {
		case "t":
			items = append(items, model.Text(n.Text))
		case "tab":
			items = append(items, model.Text("\t"))
		case "br":
			switch n.attr("type") {
			case "page", "column":
			default:
				items = append(items, model.Text("\n"))
			}
		case "cr":
			items = append(items, model.Text("\n"))
		case "noBreakHyphen":
			items = append(items, model.Text("-"))
		case "sym":
			if s := symbolText(n.attr("char")); s != "" {
				items = append(items, model.Text(s))
			}
		case "drawing":
			if d := b.parseDrawing(n); d != nil {
				items = append(items, d)
			}
		case "pict":
			if d := b.parseVMLImage(n); d != nil {
				items = append(items, d)
			}
		case "commentReference":
			if id, err := strconv.Atoi(strings.TrimSpace(n.attr("id"))); err == nil {
				run.CommentID = &id
			}
		case "AlternateContent":
			if fallback := n.child("Fallback"); fallback != nil {
				items = append(items, b.parseRunContent(fallback.Nodes, run)...)
			}
		default:
			if !silentInlines[tag] {
				b.warn.Warn(diag.UnsupportedInline, "unsupported run element", "element", tag)
			}
		}
	}
	return items
}

// parseHyperlink resolves the link target from the relationship part and
// appends the in-document anchor when present.
func (b *bodyParser) parseHyperlink(h *node) *model.Hyperlink {
	runs := b.parseInlines(h.Nodes)
	link := &model.Hyperlink{
		Text: (&model.Run{Content: runs}).PlainText(),
	}

	relID := h.attrNS(nsR, "id")
	if relID == "" {
		relID = h.attr("id")
	}
	if rel, ok := b.rels[relID]; ok && relID != "" {
		link.Address = rel.Target
	}
	if anchor := h.attr("anchor"); anchor != "" {
		link.Address += "#" + anchor
	}
	return link
}

// parseDrawing finds the picture's embedded image relationship.
func (b *bodyParser) parseDrawing(d *node) *model.Drawing {
	blip := d.find("blip")
	if blip == nil {
		b.warn.Warn(diag.UnsupportedInline, "drawing without picture", "element", "drawing")
		return nil
	}
	relID := blip.attrNS(nsR, "embed")
	if relID == "" {
		b.warn.Warn(diag.MissingImage, "linked image is not embedded", "link", blip.attrNS(nsR, "link"))
		return nil
	}
	return &model.Drawing{RelID: relID}
}

// parseVMLImage handles legacy <w:pict> images.
func (b *bodyParser) parseVMLImage(p *node) *model.Drawing {
	data := p.find("imagedata")
	if data == nil {
		b.warn.Warn(diag.UnsupportedInline, "picture without image data", "element", "pict")
		return nil
	}
	relID := data.attrNS(nsR, "id")
	if relID == "" {
		b.warn.Warn(diag.MissingImage, "picture has no image relationship", "element", "imagedata")
		return nil
	}
	return &model.Drawing{RelID: relID}
}

// symbolText converts a <w:sym w:char> code to text. Symbol fonts map most
// glyphs into the Private Use Area, which renders as nothing useful.
func symbolText(char string) string {
	code, err := strconv.ParseUint(char, 16, 32)
	if err != nil {
		return ""
	}
	r := rune(code)
	if r < 0x20 || (r >= 0xE000 && r <= 0xF8FF) {
		return ""
	}
	return string(r)
}
