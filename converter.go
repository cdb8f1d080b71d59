package wikinator

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/acmerocket/wikinator/diag"
	"github.com/acmerocket/wikinator/docx"
	"github.com/acmerocket/wikinator/images"
	"github.com/acmerocket/wikinator/logging"
	"github.com/acmerocket/wikinator/markdown"
	"github.com/acmerocket/wikinator/model"
	"github.com/acmerocket/wikinator/page"
)

// Converter provides a fluent interface for converting a Word document into
// a wiki page. Each configuration method returns a new Converter, so a
// configured Converter can be reused as a template for many files.
type Converter struct {
	filename string
	pathRoot string
	options  ConvertOptions
}

// clone creates a copy of the Converter with a deep copy of options.
func (c *Converter) clone() *Converter {
	return &Converter{
		filename: c.filename,
		pathRoot: c.pathRoot,
		options:  c.options.clone(),
	}
}

// ============================================================================
// Configuration Methods (return new Converter instance)
// ============================================================================

// File returns a Converter with the same configuration for another document.
func (c *Converter) File(filename string) *Converter {
	newConv := c.clone()
	newConv.filename = filename
	return newConv
}

// WithLogger sets the logger used for conversion diagnostics.
func (c *Converter) WithLogger(logger logging.Logger) *Converter {
	newConv := c.clone()
	newConv.options.logger = logging.OrNoOp(logger)
	return newConv
}

// MonospaceFonts replaces the fonts whose runs render as code spans.
//
// Example:
//
//	p, _, err := wikinator.Open("doc.docx").MonospaceFonts("Fira Code", "Courier New").Convert()
func (c *Converter) MonospaceFonts(fonts ...string) *Converter {
	newConv := c.clone()
	newConv.options.monospaceFonts = append([]string{}, fonts...)
	return newConv
}

// SkipTitles adds document titles that should be ignored in favor of the
// file name.
func (c *Converter) SkipTitles(titles ...string) *Converter {
	newConv := c.clone()
	newConv.options.placeholderTitles = append(newConv.options.placeholderTitles, titles...)
	return newConv
}

// ImageCeiling sets the budget, in base64-encoded bytes, for all images of
// the page. Exceeding it produces a warning, not an error.
func (c *Converter) ImageCeiling(bytes int) *Converter {
	newConv := c.clone()
	newConv.options.images.Ceiling = bytes
	return newConv
}

// AccurateMediaTypes emits each image's own media type in its data URI
// instead of image/png.
func (c *Converter) AccurateMediaTypes() *Converter {
	newConv := c.clone()
	newConv.options.images.AccurateMediaType = true
	return newConv
}

// WithRecognizer titles each embedded image with the text r finds in it.
func (c *Converter) WithRecognizer(r images.Recognizer) *Converter {
	newConv := c.clone()
	newConv.options.recognizer = r
	return newConv
}

// NoImages leaves image definitions out of the page. Image references in the
// body are kept.
func (c *Converter) NoImages() *Converter {
	newConv := c.clone()
	newConv.options.noImages = true
	return newConv
}

// PathRoot sets the wiki path of the page to root followed by the source's
// directory and stem. Without it the path is the file stem.
func (c *Converter) PathRoot(root string) *Converter {
	newConv := c.clone()
	newConv.pathRoot = root
	return newConv
}

// ============================================================================
// Terminal Operations
// ============================================================================

// Convert reads the document and assembles the page. The document is fatal
// only when it cannot be opened; everything else degrades to warnings.
//
// Example:
//
//	p, warnings, err := wikinator.Open("document.docx").Convert()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(p.Title)
func (c *Converter) Convert() (*page.Page, []Warning, error) {
	logger := logging.WithFields(c.options.logger, map[string]any{"file": c.filename})
	warn := diag.NewCollector(logger)

	doc, err := docx.Load(c.filename, warn)
	if err != nil {
		return nil, warn.Warnings(), unreadable(c.filename, err)
	}

	content := c.render(doc, logger, warn)
	p := page.New(c.title(doc), content, "generated from: "+c.filename, doc.Metadata.Keywords)
	if c.pathRoot != "" {
		p.Path = page.PathFor(c.pathRoot, c.filename)
	} else {
		p.Path = page.Stem(c.filename)
	}

	logger.Debug("converted document",
		"title", p.Title,
		"blocks", len(doc.Blocks),
		"comments", len(doc.Comments),
		"images", len(doc.Images),
		"warnings", warn.Len(),
	)
	return p, warn.Warnings(), nil
}

// render produces the page body: rendered blocks, then comment footnotes,
// then image definitions.
func (c *Converter) render(doc *model.SourceDocument, logger logging.Logger, warn *diag.Collector) string {
	renderer := markdown.NewRenderer(warn, c.options.monospaceFonts...)

	parts := renderer.RenderBlocks(doc.Blocks)
	parts = append(parts, markdown.Footnotes(doc.Comments, warn)...)

	if !c.options.noImages && len(doc.Images) > 0 {
		opts := []images.Option{images.WithLogger(logger)}
		if c.options.recognizer != nil {
			opts = append(opts, images.WithRecognizer(c.options.recognizer))
		}
		defs, report := images.NewProcessor(c.options.images, warn, opts...).Process(doc.Images)
		parts = append(parts, defs...)

		logger.Debug("embedded images",
			"count", report.Images,
			"scale", report.ScaleFactor,
			"original", report.OriginalSize,
			"final", report.FinalSize,
		)
	}

	return strings.Join(parts, "\n\n")
}

// title returns the document title unless it is empty or a placeholder, in
// which case the NFC-normalized file stem is used.
func (c *Converter) title(doc *model.SourceDocument) string {
	title := strings.TrimSpace(doc.Metadata.Title)
	if title != "" && !c.isPlaceholder(title) {
		return title
	}
	return Stem(c.filename)
}

func (c *Converter) isPlaceholder(title string) bool {
	for _, p := range c.options.placeholderTitles {
		if strings.EqualFold(title, p) {
			return true
		}
	}
	return false
}

// Stem returns the NFC-normalized file name of path without its extension.
func Stem(path string) string {
	return norm.NFC.String(page.Stem(filepath.Clean(path)))
}
