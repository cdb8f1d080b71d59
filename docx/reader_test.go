package docx

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/acmerocket/wikinator/diag"
	"github.com/acmerocket/wikinator/model"
)

const testContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Default Extension="png" ContentType="image/png"/>
  <Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
  <Override PartName="/word/media/photo.bin" ContentType="image/jpeg"/>
</Types>`

const testDocumentHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"
  xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"
  xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"
  xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture"
  xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"
  xmlns:v="urn:schemas-microsoft-com:vml"
  xmlns:mc="http://schemas.openxmlformats.org/markup-compatibility/2006">
  <w:body>`

const testDocumentFooter = `</w:body>
</w:document>`

// createTestDOCX creates a DOCX whose body is content. parts adds or
// replaces further package parts by name.
func createTestDOCX(t *testing.T, content string, parts map[string]string) string {
	t.Helper()

	files := map[string][]byte{
		"[Content_Types].xml": []byte(testContentTypes),
		"_rels/.rels": []byte(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`),
		"word/document.xml": []byte(testDocumentHeader + content + testDocumentFooter),
	}
	for name, data := range parts {
		files[name] = []byte(data)
	}
	return writeTestPackage(t, files)
}

// writeTestPackage zips files into a temporary .docx.
func writeTestPackage(t *testing.T, files map[string][]byte) string {
	t.Helper()

	docxPath := filepath.Join(t.TempDir(), "test.docx")
	f, err := os.Create(docxPath)
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, data := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("failed to add %s: %v", name, err)
		}
		if _, err := w.Write(data); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close zip: %v", err)
	}
	return docxPath
}

func relsPart(rels string) string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` + rels + `</Relationships>`
}

func loadTestDocument(t *testing.T, path string) (*model.SourceDocument, *diag.Collector) {
	t.Helper()

	warn := diag.NewCollector(nil)
	doc, err := Load(path, warn)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return doc, warn
}

func TestOpen(t *testing.T) {
	docxPath := createTestDOCX(t, `<w:p><w:r><w:t>Hello World</w:t></w:r></w:p>`, nil)

	r, err := Open(docxPath)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer r.Close()

	if r.document == nil || r.document.Body == nil {
		t.Error("document body should be parsed")
	}
}

func TestOpen_NotFound(t *testing.T) {
	if _, err := Open("/nonexistent/file.docx"); err == nil {
		t.Error("Open() should return error for nonexistent file")
	}
}

func TestOpen_InvalidZip(t *testing.T) {
	invalidPath := filepath.Join(t.TempDir(), "invalid.docx")
	if err := os.WriteFile(invalidPath, []byte("not a zip file"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Open(invalidPath); err == nil {
		t.Error("Open() should return error for invalid ZIP")
	}
}

func TestOpen_MissingDocumentXML(t *testing.T) {
	docxPath := writeTestPackage(t, map[string][]byte{
		"[Content_Types].xml": []byte(testContentTypes),
	})

	if _, err := Open(docxPath); err == nil {
		t.Error("Open() should return error when document.xml is missing")
	}
}

func TestOpen_MalformedDocumentXML(t *testing.T) {
	docxPath := writeTestPackage(t, map[string][]byte{
		"[Content_Types].xml": []byte(testContentTypes),
		"word/document.xml":   []byte("<w:document><w:body><w:p>"),
	})

	if _, err := Open(docxPath); err == nil {
		t.Error("Open() should return error for malformed document.xml")
	}
}

func TestReader_DocumentAfterClose(t *testing.T) {
	r, err := Open(createTestDOCX(t, `<w:p/>`, nil))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if _, err := r.Document(nil); err == nil {
		t.Error("Document() should fail on a closed reader")
	}
}

func TestReader_BlockOrder(t *testing.T) {
	content := `<w:p><w:r><w:t>first</w:t></w:r></w:p>
<w:tbl><w:tr><w:tc><w:p><w:r><w:t>cell</w:t></w:r></w:p></w:tc></w:tr></w:tbl>
<w:p><w:r><w:t>second</w:t></w:r></w:p>
<w:sdt><w:sdtContent><w:p><w:r><w:t>toc</w:t></w:r></w:p></w:sdtContent></w:sdt>
<w:bookmarkStart w:id="0" w:name="x"/>
<w:sectPr/>`

	doc, _ := loadTestDocument(t, createTestDOCX(t, content, nil))

	want := []model.BlockType{
		model.BlockTypeParagraph,
		model.BlockTypeTable,
		model.BlockTypeParagraph,
		model.BlockTypeIgnored,
		model.BlockTypeUnsupported,
		model.BlockTypeIgnored,
	}
	if len(doc.Blocks) != len(want) {
		t.Fatalf("expected %d blocks, got %d", len(want), len(doc.Blocks))
	}
	for i, bt := range want {
		if doc.Blocks[i].Type() != bt {
			t.Errorf("block %d: expected %s, got %s", i, bt, doc.Blocks[i].Type())
		}
	}

	if p := doc.Blocks[2].(*model.Paragraph); p.PlainText() != "second" {
		t.Errorf("expected second paragraph text, got %q", p.PlainText())
	}
	if u := doc.Blocks[4].(*model.Unsupported); u.Tag != "bookmarkStart" {
		t.Errorf("expected bookmarkStart tag, got %q", u.Tag)
	}
}

func TestReader_RunFormatting(t *testing.T) {
	content := `<w:p>
  <w:r><w:rPr><w:b/><w:i w:val="0"/><w:u w:val="single"/><w:strike/></w:rPr><w:t>styled</w:t></w:r>
  <w:r><w:rPr><w:b w:val="false"/><w:u w:val="none"/><w:rFonts w:ascii="Courier New" w:hAnsi="Courier New"/></w:rPr><w:t>code</w:t></w:r>
</w:p>`

	doc, _ := loadTestDocument(t, createTestDOCX(t, content, nil))
	p := doc.Blocks[0].(*model.Paragraph)
	if len(p.Content) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(p.Content))
	}

	first := p.Content[0].(*model.Run)
	if !first.Bold || first.Italic || !first.Underline || !first.Strike {
		t.Errorf("unexpected flags on first run: %+v", first)
	}

	second := p.Content[1].(*model.Run)
	if second.Bold || second.Underline {
		t.Errorf("explicitly disabled flags should be false: %+v", second)
	}
	if second.Font != "Courier New" {
		t.Errorf("expected Courier New, got %q", second.Font)
	}
}

func TestReader_RunContent(t *testing.T) {
	content := `<w:p><w:r>
  <w:t xml:space="preserve">a </w:t><w:tab/><w:t>b</w:t><w:br/><w:t>c</w:t>
  <w:br w:type="page"/><w:t>d</w:t><w:cr/><w:noBreakHyphen/><w:sym w:font="Symbol" w:char="03B1"/>
  <w:sym w:font="Wingdings" w:char="F04A"/><w:lastRenderedPageBreak/>
</w:r></w:p>`

	doc, warn := loadTestDocument(t, createTestDOCX(t, content, nil))
	p := doc.Blocks[0].(*model.Paragraph)

	if got, want := p.PlainText(), "a \tb\ncd\n-α"; got != want {
		t.Errorf("PlainText() = %q, want %q", got, want)
	}
	if warn.Len() != 0 {
		t.Errorf("unexpected warnings: %v", warn.Warnings())
	}
}

func TestReader_WrappersAndRevisions(t *testing.T) {
	content := `<w:p>
  <w:r><w:t>kept </w:t></w:r>
  <w:ins w:id="1" w:author="a"><w:r><w:t>inserted </w:t></w:r></w:ins>
  <w:del w:id="2" w:author="a"><w:r><w:delText>deleted</w:delText></w:r></w:del>
  <w:smartTag><w:r><w:t>tagged</w:t></w:r></w:smartTag>
  <w:proofErr w:type="spellStart"/>
  <m:oMath xmlns:m="http://schemas.openxmlformats.org/officeDocument/2006/math"/>
</w:p>`

	doc, warn := loadTestDocument(t, createTestDOCX(t, content, nil))
	p := doc.Blocks[0].(*model.Paragraph)

	if got := p.PlainText(); got != "kept inserted tagged" {
		t.Errorf("PlainText() = %q", got)
	}
	if len(p.Content) != 3 {
		t.Fatalf("expected 3 inline items, got %d", len(p.Content))
	}
	if nested, ok := p.Content[1].(*model.Run); !ok || nested.Bold || nested.Font != "" {
		t.Errorf("insertion should load as a style-less run: %#v", p.Content[1])
	}
	if !warn.Has(diag.UnsupportedInline) {
		t.Error("expected unknown inline warning for oMath")
	}
}

func TestReader_HyperlinksAndDrawings(t *testing.T) {
	content := `<w:p>
  <w:hyperlink r:id="rId5"><w:r><w:t>site</w:t></w:r></w:hyperlink>
  <w:hyperlink r:id="rId5" w:anchor="intro"><w:r><w:t>section</w:t></w:r></w:hyperlink>
  <w:hyperlink w:anchor="top"><w:r><w:t>top</w:t></w:r></w:hyperlink>
  <w:r><w:drawing><wp:inline><a:graphic><a:graphicData><pic:pic><pic:blipFill>
    <a:blip r:embed="rId7"/>
  </pic:blipFill></pic:pic></a:graphicData></a:graphic></wp:inline></w:drawing></w:r>
  <w:r><w:pict><v:shape><v:imagedata r:id="rId8"/></v:shape></w:pict></w:r>
</w:p>`
	rels := relsPart(`
  <Relationship Id="rId5" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink" Target="https://example.com/page" TargetMode="External"/>`)

	doc, _ := loadTestDocument(t, createTestDOCX(t, content, map[string]string{
		"word/_rels/document.xml.rels": rels,
	}))
	p := doc.Blocks[0].(*model.Paragraph)
	if len(p.Content) != 5 {
		t.Fatalf("expected 5 inline items, got %d", len(p.Content))
	}

	links := []struct{ text, address string }{
		{"site", "https://example.com/page"},
		{"section", "https://example.com/page#intro"},
		{"top", "#top"},
	}
	for i, want := range links {
		link, ok := p.Content[i].(*model.Hyperlink)
		if !ok {
			t.Fatalf("item %d: expected hyperlink, got %T", i, p.Content[i])
		}
		if link.Text != want.text || link.Address != want.address {
			t.Errorf("item %d: got [%s](%s), want [%s](%s)", i, link.Text, link.Address, want.text, want.address)
		}
	}

	drawing := p.Content[3].(*model.Run).Content[0].(*model.Drawing)
	if drawing.RelID != "rId7" || drawing.Anchor() != "image7" {
		t.Errorf("unexpected drawing: %+v", drawing)
	}
	vml := p.Content[4].(*model.Run).Content[0].(*model.Drawing)
	if vml.RelID != "rId8" {
		t.Errorf("unexpected VML drawing: %+v", vml)
	}
}

func TestReader_Images(t *testing.T) {
	rels := relsPart(`
  <Relationship Id="rId9" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="media/image2.png"/>
  <Relationship Id="rId3" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>
  <Relationship Id="rId4" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="/word/media/photo.bin"/>
  <Relationship Id="rId6" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="https://example.com/a.png" TargetMode="External"/>
  <Relationship Id="rId10" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="media/missing.png"/>`)

	doc, warn := loadTestDocument(t, createTestDOCX(t, `<w:p/>`, map[string]string{
		"word/_rels/document.xml.rels": rels,
		"word/media/image2.png":        "png-bytes",
		"word/media/photo.bin":         "jpeg-bytes",
	}))

	if len(doc.Images) != 2 {
		t.Fatalf("expected 2 images, got %d", len(doc.Images))
	}

	first, second := doc.Images[0], doc.Images[1]
	if first.RelID != "rId9" || first.PartName != "word/media/image2.png" || first.ContentType != "image/png" {
		t.Errorf("unexpected first image: %+v", first)
	}
	if string(first.Data) != "png-bytes" {
		t.Errorf("unexpected first image data: %q", first.Data)
	}
	if second.RelID != "rId4" || second.PartName != "word/media/photo.bin" || second.ContentType != "image/jpeg" {
		t.Errorf("unexpected second image: %+v", second)
	}

	if n := diag.Count(warn.Warnings(), diag.MissingImage); n != 2 {
		t.Errorf("expected 2 missing-image warnings, got %d", n)
	}
}

func TestReader_Comments(t *testing.T) {
	content := `<w:p>
  <w:commentRangeStart w:id="0"/>
  <w:r><w:t>noted</w:t></w:r>
  <w:commentRangeEnd w:id="0"/>
  <w:r><w:commentReference w:id="0"/></w:r>
</w:p>`
	comments := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:comments xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:comment w:id="0" w:author="Ada" w:date="2024-03-05T14:07:00Z">
    <w:p><w:r><w:annotationRef/></w:r><w:r><w:t>First line</w:t></w:r></w:p>
    <w:p><w:r><w:t>second line</w:t></w:r></w:p>
  </w:comment>
  <w:comment w:id="4" w:author="Grace">
    <w:p><w:r><w:t>undated</w:t></w:r></w:p>
  </w:comment>
</w:comments>`

	doc, _ := loadTestDocument(t, createTestDOCX(t, content, map[string]string{
		"word/comments.xml": comments,
	}))

	p := doc.Blocks[0].(*model.Paragraph)
	anchor := p.Content[1].(*model.Run)
	if anchor.CommentID == nil || *anchor.CommentID != 0 {
		t.Errorf("expected comment anchor 0, got %v", anchor.CommentID)
	}

	if len(doc.Comments) != 2 {
		t.Fatalf("expected 2 comments, got %d", len(doc.Comments))
	}
	c := doc.Comments[0]
	if c.ID != 0 || c.Author != "Ada" || c.Text != "First line\nsecond line" {
		t.Errorf("unexpected comment: %+v", c)
	}
	if want := time.Date(2024, 3, 5, 14, 7, 0, 0, time.UTC); !c.Date.Equal(want) {
		t.Errorf("expected date %v, got %v", want, c.Date)
	}
	if !doc.Comments[1].Date.IsZero() {
		t.Error("undated comment should have zero date")
	}
}

func TestReader_Metadata(t *testing.T) {
	core := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties"
  xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/">
  <dc:title> Quarterly Plan </dc:title>
  <dc:subject>Planning</dc:subject>
  <dc:creator>Ada</dc:creator>
  <cp:keywords>plan, q3; budget ,,</cp:keywords>
  <dc:description>Notes</dc:description>
  <dcterms:created>2024-01-02T03:04:05Z</dcterms:created>
</cp:coreProperties>`

	doc, _ := loadTestDocument(t, createTestDOCX(t, `<w:p/>`, map[string]string{
		"docProps/core.xml": core,
	}))

	meta := doc.Metadata
	if meta.Title != "Quarterly Plan" || meta.Subject != "Planning" || meta.Author != "Ada" || meta.Description != "Notes" {
		t.Errorf("unexpected metadata: %+v", meta)
	}
	want := []string{"plan", "q3", "budget"}
	if len(meta.Keywords) != len(want) {
		t.Fatalf("expected keywords %v, got %v", want, meta.Keywords)
	}
	for i := range want {
		if meta.Keywords[i] != want[i] {
			t.Errorf("keyword %d: expected %q, got %q", i, want[i], meta.Keywords[i])
		}
	}
	if meta.Created.Year() != 2024 {
		t.Errorf("unexpected created time: %v", meta.Created)
	}
}

func TestReader_MetadataMissing(t *testing.T) {
	doc, _ := loadTestDocument(t, createTestDOCX(t, `<w:p/>`, nil))

	if doc.Metadata.Title != "" {
		t.Errorf("expected empty title, got %q", doc.Metadata.Title)
	}
	if doc.Metadata.Keywords == nil {
		t.Error("keywords should never be nil")
	}
}

func TestReader_MalformedOptionalPart(t *testing.T) {
	doc, warn := loadTestDocument(t, createTestDOCX(t, `<w:p><w:r><w:t>text</w:t></w:r></w:p>`, map[string]string{
		"word/styles.xml": "<w:styles><broken",
	}))

	if len(doc.Blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(doc.Blocks))
	}
	if p := doc.Blocks[0].(*model.Paragraph); p.StyleName != "Normal" {
		t.Errorf("expected Normal fallback, got %q", p.StyleName)
	}
	if !warn.Has(diag.MissingPart) {
		t.Error("expected a missing-part warning")
	}
}

func TestSplitKeywords(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"", 0},
		{"one", 1},
		{"a,b;c", 3},
		{" , ; ", 0},
	}
	for _, tt := range tests {
		got := splitKeywords(tt.input)
		if got == nil {
			t.Errorf("splitKeywords(%q) returned nil", tt.input)
		}
		if len(got) != tt.want {
			t.Errorf("splitKeywords(%q) = %v, want %d items", tt.input, got, tt.want)
		}
	}
}

func TestResolvePart(t *testing.T) {
	tests := []struct {
		target string
		want   string
	}{
		{"media/image1.png", "word/media/image1.png"},
		{"/word/media/image1.png", "word/media/image1.png"},
		{"../media/image1.png", "media/image1.png"},
	}
	for _, tt := range tests {
		if got := resolvePart("word", tt.target); got != tt.want {
			t.Errorf("resolvePart(%q) = %q, want %q", tt.target, got, tt.want)
		}
	}
}
