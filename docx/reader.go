// Package docx loads DOCX (Office Open XML) documents into the document model.
package docx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"maps"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/acmerocket/wikinator/diag"
	"github.com/acmerocket/wikinator/model"
)

// Part names read by the reader.
const (
	partContentTypes = "[Content_Types].xml"
	partDocument     = "word/document.xml"
	partDocumentRels = "word/_rels/document.xml.rels"
	partStyles       = "word/styles.xml"
	partNumbering    = "word/numbering.xml"
	partComments     = "word/comments.xml"
	partCoreProps    = "docProps/core.xml"
)

// Reader provides access to DOCX document content.
type Reader struct {
	path         string
	zipReader    *zip.ReadCloser
	files        map[string]*zip.File
	document     *documentXML
	styles       *stylesXML
	numbering    *numberingXML
	rels         *relationshipsXML
	contentTypes *contentTypesXML
	coreProps    *corePropertiesXML
	comments     *commentsXML
	partErrors   map[string]error // optional parts that exist but failed to parse
}

// Open opens a DOCX file for reading. It fails only when the archive or its
// main document part cannot be read.
func Open(filename string) (*Reader, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}

	r := &Reader{
		path:       filename,
		zipReader:  zr,
		files:      make(map[string]*zip.File, len(zr.File)),
		partErrors: make(map[string]error),
	}
	for _, f := range zr.File {
		r.files[f.Name] = f
	}

	if err := r.validate(); err != nil {
		zr.Close()
		return nil, err
	}

	if err := r.parseDocument(); err != nil {
		zr.Close()
		return nil, fmt.Errorf("parsing document: %w", err)
	}

	r.rels = &relationshipsXML{}
	r.parseOptional(partDocumentRels, r.rels)
	r.contentTypes = &contentTypesXML{}
	r.parseOptional(partContentTypes, r.contentTypes)

	r.styles = &stylesXML{}
	if !r.parseOptional(partStyles, r.styles) {
		r.styles = nil
	}
	r.numbering = &numberingXML{}
	if !r.parseOptional(partNumbering, r.numbering) {
		r.numbering = nil
	}
	r.comments = &commentsXML{}
	if !r.parseOptional(partComments, r.comments) {
		r.comments = nil
	}
	r.coreProps = &corePropertiesXML{}
	if !r.parseOptional(partCoreProps, r.coreProps) {
		r.coreProps = nil
	}

	return r, nil
}

// Load opens filename, reads it into a SourceDocument and closes it.
func Load(filename string, warn *diag.Collector) (*model.SourceDocument, error) {
	r, err := Open(filename)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return r.Document(warn)
}

// Close releases resources associated with the Reader.
func (r *Reader) Close() error {
	if r.zipReader != nil {
		err := r.zipReader.Close()
		r.zipReader = nil
		return err
	}
	return nil
}

// validate checks that required DOCX files exist.
func (r *Reader) validate() error {
	required := []string{
		partContentTypes,
		partDocument,
	}

	for _, name := range required {
		if _, ok := r.files[name]; !ok {
			return fmt.Errorf("missing required file: %s", name)
		}
	}

	return nil
}

// getFileContent reads the content of a file from the ZIP archive.
func (r *Reader) getFileContent(name string) ([]byte, error) {
	f, ok := r.files[name]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// parseOptional unmarshals an optional part into v. It reports whether the
// part was present and parsed.
func (r *Reader) parseOptional(name string, v any) bool {
	if _, ok := r.files[name]; !ok {
		return false
	}
	data, err := r.getFileContent(name)
	if err == nil {
		err = xml.Unmarshal(data, v)
	}
	if err != nil {
		r.partErrors[name] = err
		return false
	}
	return true
}

// parseDocument parses the main document content.
func (r *Reader) parseDocument() error {
	data, err := r.getFileContent(partDocument)
	if err != nil {
		return err
	}

	r.document = &documentXML{}
	if err := xml.Unmarshal(data, r.document); err != nil {
		return fmt.Errorf("unmarshaling document.xml: %w", err)
	}
	return nil
}

// Document assembles the SourceDocument. Recoverable problems such as
// unreadable optional parts or missing images are reported to warn.
func (r *Reader) Document(warn *diag.Collector) (*model.SourceDocument, error) {
	if r.zipReader == nil {
		return nil, fmt.Errorf("reader is closed")
	}

	for _, name := range slices.Sorted(maps.Keys(r.partErrors)) {
		warn.Warn(diag.MissingPart, "optional part could not be parsed", "part", name, "error", r.partErrors[name])
	}

	parser := &bodyParser{
		styles:    NewStyleTable(r.styles),
		numbering: NewNumberingResolver(r.numbering),
		rels:      r.relationshipMap(),
		warn:      warn,
	}

	doc := &model.SourceDocument{
		Path:     r.path,
		Blocks:   parser.parseBody(r.document.Body),
		Images:   r.images(warn),
		Comments: r.parseComments(parser),
		Metadata: r.metadata(),
	}
	return doc, nil
}

func (r *Reader) relationshipMap() map[string]relationshipXML {
	rels := make(map[string]relationshipXML)
	if r.rels == nil {
		return rels
	}
	for _, rel := range r.rels.Relationships {
		rels[rel.ID] = rel
	}
	return rels
}

// images returns the image relationships of the main document in
// relationship-part order, with their bytes loaded.
func (r *Reader) images(warn *diag.Collector) []model.EmbeddedImage {
	if r.rels == nil {
		return nil
	}

	var images []model.EmbeddedImage
	for _, rel := range r.rels.Relationships {
		if rel.Type != relTypeImage {
			continue
		}
		if rel.external() {
			warn.Warn(diag.MissingImage, "external image is not embedded", "rel", rel.ID, "target", rel.Target)
			continue
		}

		partName := resolvePart("word", rel.Target)
		data, err := r.getFileContent(partName)
		if err != nil {
			warn.Warn(diag.MissingImage, "image part missing", "rel", rel.ID, "part", partName)
			continue
		}

		images = append(images, model.EmbeddedImage{
			RelID:       rel.ID,
			PartName:    partName,
			ContentType: r.contentType(partName),
			Data:        data,
		})
	}
	return images
}

// resolvePart resolves a relationship target relative to the source part's
// directory. Absolute targets are relative to the package root.
func resolvePart(base, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(path.Clean(target), "/")
	}
	return path.Clean(path.Join(base, target))
}

// contentType looks up a part's media type, preferring an Override over the
// extension Default.
func (r *Reader) contentType(partName string) string {
	if r.contentTypes == nil {
		return ""
	}
	for _, o := range r.contentTypes.Overrides {
		if strings.TrimPrefix(o.PartName, "/") == partName {
			return o.ContentType
		}
	}
	ext := strings.TrimPrefix(path.Ext(partName), ".")
	for _, d := range r.contentTypes.Defaults {
		if strings.EqualFold(d.Extension, ext) {
			return d.ContentType
		}
	}
	return ""
}

// parseComments reads word/comments.xml in native order.
func (r *Reader) parseComments(parser *bodyParser) []model.Comment {
	if r.comments == nil {
		return nil
	}

	comments := make([]model.Comment, 0, len(r.comments.Comments))
	for i := range r.comments.Comments {
		c := &r.comments.Comments[i]
		id := atoiDefault(c.attr("id"), -1)
		if id < 0 {
			continue
		}

		var paragraphs []string
		for _, p := range unwrapContent(c.Nodes, "p") {
			paragraphs = append(paragraphs, parser.parseParagraph(p).PlainText())
		}

		comments = append(comments, model.Comment{
			ID:     id,
			Author: c.attr("author"),
			Date:   parseTime(c.attr("date")),
			Text:   strings.Join(paragraphs, "\n"),
		})
	}
	return comments
}

// metadata extracts core document properties.
func (r *Reader) metadata() model.Metadata {
	meta := model.Metadata{Keywords: []string{}}
	if r.coreProps == nil {
		return meta
	}

	meta.Title = strings.TrimSpace(r.coreProps.Title)
	meta.Subject = strings.TrimSpace(r.coreProps.Subject)
	meta.Author = strings.TrimSpace(r.coreProps.Creator)
	meta.Description = strings.TrimSpace(r.coreProps.Description)
	meta.Keywords = splitKeywords(r.coreProps.Keywords)
	meta.Created = parseTime(r.coreProps.Created)
	meta.Modified = parseTime(r.coreProps.Modified)
	return meta
}

// splitKeywords splits a keyword property on commas and semicolons.
func splitKeywords(s string) []string {
	keywords := []string{}
	for _, kw := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ';' }) {
		if kw = strings.TrimSpace(kw); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	return keywords
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

// parseTime parses a W3CDTF timestamp. Unparseable input yields the zero time.
func parseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
