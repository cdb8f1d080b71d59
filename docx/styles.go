package docx

import (
	"encoding/xml"
	"strconv"
	"strings"

	"github.com/acmerocket/wikinator/model"
)

// stylesXML represents the structure of word/styles.xml
type stylesXML struct {
	XMLName xml.Name      `xml:"styles"`
	Styles  []styleDefXML `xml:"style"`
}

// styleDefXML represents a style definition.
type styleDefXML struct {
	Type    string       `xml:"type,attr"` // paragraph, character, table, numbering
	StyleID string       `xml:"styleId,attr"`
	Default string       `xml:"default,attr"` // "1" if default style
	Name    styleNameXML `xml:"name"`
}

// styleNameXML represents a style name.
type styleNameXML struct {
	Val string `xml:"val,attr"`
}

// defaultStyleName is used when a document carries no usable style part.
const defaultStyleName = "Normal"

// builtinNames maps the lowercase names Word stores for some built-in styles
// to the names shown in its user interface.
var builtinNames = map[string]string{
	"caption":   "Caption",
	"footer":    "Footer",
	"header":    "Header",
	"heading 1": "Heading 1",
	"heading 2": "Heading 2",
	"heading 3": "Heading 3",
	"heading 4": "Heading 4",
	"heading 5": "Heading 5",
	"heading 6": "Heading 6",
	"heading 7": "Heading 7",
	"heading 8": "Heading 8",
	"heading 9": "Heading 9",
	"title":     "Title",
	"subtitle":  "Subtitle",
}

// StyleTable resolves paragraph style ids to display names.
type StyleTable struct {
	names        map[string]string // styleId -> display name
	defaultStyle string
}

// NewStyleTable builds a table from parsed styles.xml. A nil argument yields
// a table where every paragraph resolves to "Normal".
func NewStyleTable(styles *stylesXML) *StyleTable {
	st := &StyleTable{
		names:        make(map[string]string),
		defaultStyle: defaultStyleName,
	}
	if styles == nil {
		return st
	}

	for _, s := range styles.Styles {
		if s.Type != "" && s.Type != "paragraph" {
			continue
		}
		name := displayName(s.Name.Val)
		if name == "" {
			name = s.StyleID
		}
		st.names[s.StyleID] = name
		if s.Default == "1" || strings.EqualFold(s.Default, "true") {
			st.defaultStyle = name
		}
	}
	return st
}

// Name returns the display name for styleID. Unknown or empty ids resolve to
// the default paragraph style.
func (st *StyleTable) Name(styleID string) string {
	if name, ok := st.names[styleID]; ok && styleID != "" {
		return name
	}
	return st.defaultStyle
}

// IsDefault reports whether name is the default paragraph style.
func (st *StyleTable) IsDefault(name string) bool {
	return name == st.defaultStyle
}

func displayName(name string) string {
	if alias, ok := builtinNames[strings.ToLower(name)]; ok && name == strings.ToLower(name) {
		return alias
	}
	return name
}

// ClassifyStyle decides how a paragraph with the given style name renders.
// Headings match "Heading N" for N in 1..5, lowest level first. Styles whose
// name mentions "List", or paragraphs carrying numbering, are list items.
// The default style and any "Normal" variant are body text; everything else
// is unknown.
func ClassifyStyle(name string, isDefault, numbered bool) (model.StyleClass, int) {
	for level := 1; level <= model.MaxHeadingLevel; level++ {
		if strings.Contains(name, "Heading "+strconv.Itoa(level)) {
			return model.StyleHeading, level
		}
	}
	if numbered || strings.Contains(name, "List") {
		return model.StyleList, 0
	}
	if isDefault || name == "" || strings.Contains(name, "Normal") || strings.Contains(name, "normal") {
		return model.StyleBody, 0
	}
	return model.StyleUnknown, 0
}
