package docx

import (
	"encoding/xml"
	"strings"
)

// XML namespaces used in DOCX files
const (
	nsW = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsR = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
)

// Relationship types resolved by the reader.
const (
	relTypeImage     = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
	relTypeHyperlink = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink"
)

// node is a generic element tree. The body is decoded into nodes rather than
// typed structs so that paragraphs, tables and everything between them keep
// their document order.
type node struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Text    string     `xml:",chardata"`
	Nodes   []node     `xml:",any"`
}

// documentXML represents the structure of word/document.xml
type documentXML struct {
	XMLName xml.Name `xml:"document"`
	Body    *node    `xml:"body"`
}

// attr returns the value of the attribute with the given local name,
// preferring the WordprocessingML namespace when several share the name.
func (n *node) attr(local string) string {
	value := ""
	for _, a := range n.Attrs {
		if a.Name.Local != local {
			continue
		}
		if a.Name.Space == nsW {
			return a.Value
		}
		if value == "" {
			value = a.Value
		}
	}
	return value
}

// attrNS returns the value of the attribute in namespace space.
func (n *node) attrNS(space, local string) string {
	for _, a := range n.Attrs {
		if a.Name.Space == space && a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// hasAttr reports whether the attribute is present at all.
func (n *node) hasAttr(local string) bool {
	for _, a := range n.Attrs {
		if a.Name.Local == local {
			return true
		}
	}
	return false
}

// child returns the first direct child with the given local name.
func (n *node) child(local string) *node {
	for i := range n.Nodes {
		if n.Nodes[i].XMLName.Local == local {
			return &n.Nodes[i]
		}
	}
	return nil
}

// find returns the first descendant with the given local name, depth first.
func (n *node) find(local string) *node {
	for i := range n.Nodes {
		c := &n.Nodes[i]
		if c.XMLName.Local == local {
			return c
		}
		if found := c.find(local); found != nil {
			return found
		}
	}
	return nil
}

// toggle interprets an OOXML on/off property such as <w:b/> or <w:b w:val="0"/>.
func (n *node) toggle() bool {
	if n == nil {
		return false
	}
	switch strings.ToLower(n.attr("val")) {
	case "false", "0", "off", "none":
		return false
	}
	return true
}

// relationshipsXML represents _rels/*.rels files
type relationshipsXML struct {
	XMLName       xml.Name          `xml:"Relationships"`
	Relationships []relationshipXML `xml:"Relationship"`
}

// relationshipXML represents a single relationship.
type relationshipXML struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr"` // External or empty (internal)
}

func (r relationshipXML) external() bool {
	return strings.EqualFold(r.TargetMode, "External")
}

// contentTypesXML represents [Content_Types].xml
type contentTypesXML struct {
	XMLName   xml.Name          `xml:"Types"`
	Defaults  []defaultTypeXML  `xml:"Default"`
	Overrides []overrideTypeXML `xml:"Override"`
}

type defaultTypeXML struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type overrideTypeXML struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

// corePropertiesXML represents docProps/core.xml (Dublin Core metadata)
type corePropertiesXML struct {
	XMLName     xml.Name `xml:"coreProperties"`
	Title       string   `xml:"title"`
	Subject     string   `xml:"subject"`
	Creator     string   `xml:"creator"`
	Keywords    string   `xml:"keywords"`
	Description string   `xml:"description"`
	Created     string   `xml:"created"`
	Modified    string   `xml:"modified"`
}

// commentsXML represents word/comments.xml
type commentsXML struct {
	XMLName  xml.Name `xml:"comments"`
	Comments []node   `xml:"comment"`
}
