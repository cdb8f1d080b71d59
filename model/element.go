package model

// BlockType identifies the concrete type of a Block.
type BlockType int

const (
	BlockTypeUnsupported BlockType = iota
	BlockTypeParagraph
	BlockTypeTable
	BlockTypeIgnored
)

func (bt BlockType) String() string {
	switch bt {
	case BlockTypeParagraph:
		return "Paragraph"
	case BlockTypeTable:
		return "Table"
	case BlockTypeIgnored:
		return "Ignored"
	default:
		return "Unsupported"
	}
}

// Block is one top-level element of a document body.
type Block interface {
	Type() BlockType
}

// StyleClass is the rendering class of a paragraph style, decided once when
// the document is loaded.
type StyleClass int

const (
	StyleUnknown StyleClass = iota
	StyleBody
	StyleList
	StyleHeading
)

func (sc StyleClass) String() string {
	switch sc {
	case StyleBody:
		return "Body"
	case StyleList:
		return "List"
	case StyleHeading:
		return "Heading"
	default:
		return "Unknown"
	}
}

// MaxHeadingLevel is the deepest heading level rendered with a prefix.
const MaxHeadingLevel = 5

// Paragraph is a body paragraph.
type Paragraph struct {
	StyleName    string
	Style        StyleClass
	HeadingLevel int // 1..MaxHeadingLevel when Style is StyleHeading
	Content      []Inline
	Numbering    *NumberingRef
}

// Type implements Block.
func (p *Paragraph) Type() BlockType { return BlockTypeParagraph }

// IsList reports whether the paragraph carries a numbering reference.
func (p *Paragraph) IsList() bool { return p.Numbering != nil }

// PlainText returns the paragraph text without styling.
func (p *Paragraph) PlainText() string { return plainText(p.Content) }

// NumberingRef points a paragraph at a numbering definition.
type NumberingRef struct {
	NumID int
	Level int

	// Format is the numbering format the document defines for this level
	// ("decimal", "bullet", ...), or empty when the numbering part does not
	// define one.
	Format string
}

// Ordered reports whether Format describes a counted list.
func (n *NumberingRef) Ordered() bool {
	switch n.Format {
	case "", "bullet", "none":
		return false
	}
	return true
}

// Ignored is a structural body element that produces no output, such as
// section properties or a block-level content control.
type Ignored struct {
	Tag string
}

// Type implements Block.
func (b *Ignored) Type() BlockType { return BlockTypeIgnored }

// Unsupported is a body element outside the known taxonomy.
type Unsupported struct {
	Tag string
}

// Type implements Block.
func (b *Unsupported) Type() BlockType { return BlockTypeUnsupported }
