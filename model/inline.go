package model

import "strings"

// Inline is an item of paragraph or run content.
type Inline interface {
	isInline()
}

// Text is a plain text fragment.
type Text string

func (Text) isInline() {}

// Run is a span of inline content sharing one set of style flags.
// Wrapper elements such as tracked insertions load as runs with no flags set.
type Run struct {
	Content   []Inline
	Bold      bool
	Italic    bool
	Underline bool
	Strike    bool
	Font      string
	CommentID *int // comment anchor carried by the run, if any
}

func (*Run) isInline() {}

// PlainText returns the run's text without styling, including nested runs.
func (r *Run) PlainText() string {
	return plainText(r.Content)
}

// Hyperlink is a link with plain display text.
type Hyperlink struct {
	Text    string
	Address string
}

func (*Hyperlink) isInline() {}

// Drawing is an inline reference to an embedded image.
type Drawing struct {
	RelID string
}

func (*Drawing) isInline() {}

// Anchor returns the markdown reference label of the referenced image.
func (d *Drawing) Anchor() string {
	return AnchorName(d.RelID)
}

func plainText(items []Inline) string {
	var sb strings.Builder
	writePlainText(&sb, items)
	return sb.String()
}

func writePlainText(sb *strings.Builder, items []Inline) {
	for _, item := range items {
		switch v := item.(type) {
		case Text:
			sb.WriteString(string(v))
		case *Run:
			writePlainText(sb, v.Content)
		case *Hyperlink:
			sb.WriteString(v.Text)
		}
	}
}
