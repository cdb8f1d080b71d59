package docx

import (
	"encoding/xml"
	"strconv"
	"strings"

	"github.com/acmerocket/wikinator/model"
)

// numberingXML represents word/numbering.xml
type numberingXML struct {
	XMLName      xml.Name         `xml:"numbering"`
	AbstractNums []abstractNumXML `xml:"abstractNum"`
	Nums         []numXML         `xml:"num"`
}

// abstractNumXML represents an abstract numbering definition.
type abstractNumXML struct {
	AbstractNumID string   `xml:"abstractNumId,attr"`
	Levels        []lvlXML `xml:"lvl"`
}

// lvlXML represents a numbering level.
type lvlXML struct {
	ILvl   string    `xml:"ilvl,attr"`
	NumFmt numFmtXML `xml:"numFmt"`
}

// numFmtXML represents number format.
type numFmtXML struct {
	Val string `xml:"val,attr"` // decimal, bullet, lowerLetter, upperLetter, lowerRoman, upperRoman
}

// numXML represents a numbering instance.
type numXML struct {
	NumID         string           `xml:"numId,attr"`
	AbstractNumID abstractRefXML   `xml:"abstractNumId"`
	Overrides     []lvlOverrideXML `xml:"lvlOverride"`
}

// abstractRefXML represents reference to abstract numbering.
type abstractRefXML struct {
	Val string `xml:"val,attr"`
}

// lvlOverrideXML replaces a level of the abstract definition for one instance.
type lvlOverrideXML struct {
	ILvl string  `xml:"ilvl,attr"`
	Lvl  *lvlXML `xml:"lvl"`
}

// NumberingResolver resolves numbering definitions from numbering.xml.
type NumberingResolver struct {
	abstractNums map[string]*abstractNumXML // abstractNumId -> definition
	nums         map[string]*numXML         // numId -> instance
}

// NewNumberingResolver creates a resolver from parsed numbering.xml.
func NewNumberingResolver(numbering *numberingXML) *NumberingResolver {
	nr := &NumberingResolver{
		abstractNums: make(map[string]*abstractNumXML),
		nums:         make(map[string]*numXML),
	}

	if numbering == nil {
		return nr
	}

	for i := range numbering.AbstractNums {
		an := &numbering.AbstractNums[i]
		nr.abstractNums[an.AbstractNumID] = an
	}
	for i := range numbering.Nums {
		num := &numbering.Nums[i]
		nr.nums[num.NumID] = num
	}

	return nr
}

// ResolveFormat returns the numFmt value for a numId and level, or "" when
// the numbering part does not define it.
func (nr *NumberingResolver) ResolveFormat(numID string, level int) string {
	num, ok := nr.nums[numID]
	if !ok {
		return ""
	}

	levelStr := strconv.Itoa(level)
	for _, o := range num.Overrides {
		if o.ILvl == levelStr && o.Lvl != nil && o.Lvl.NumFmt.Val != "" {
			return o.Lvl.NumFmt.Val
		}
	}

	abstractNum, ok := nr.abstractNums[num.AbstractNumID.Val]
	if !ok {
		return ""
	}
	for _, lvl := range abstractNum.Levels {
		if lvl.ILvl == levelStr {
			return lvl.NumFmt.Val
		}
	}
	return ""
}

// numberingRef reads a paragraph's numPr. A missing numPr, or numId 0 which
// OOXML uses to switch numbering off, yields nil.
func (nr *NumberingResolver) numberingRef(pPr *node) *model.NumberingRef {
	if pPr == nil {
		return nil
	}
	numPr := pPr.child("numPr")
	if numPr == nil {
		return nil
	}

	ref := &model.NumberingRef{}
	if numID := numPr.child("numId"); numID != nil {
		ref.NumID = atoiDefault(numID.attr("val"), 0)
	}
	if ref.NumID == 0 {
		return nil
	}
	if ilvl := numPr.child("ilvl"); ilvl != nil {
		ref.Level = atoiDefault(ilvl.attr("val"), 0)
	}
	if ref.Level < 0 {
		ref.Level = 0
	}
	ref.Format = nr.ResolveFormat(strconv.Itoa(ref.NumID), ref.Level)
	return ref
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}
