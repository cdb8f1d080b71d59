// Package wikinator converts Word documents into wiki pages: a title, a
// markdown body with inline base64 images and comment footnotes, and the
// publishing metadata the wiki expects.
//
// Basic usage:
//
//	p, warnings, err := wikinator.Open("report.docx").Convert()
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", wikinator.FormatWarnings(warnings))
//	}
//
// With options:
//
//	p, _, err := wikinator.Open("report.docx").
//	    WithLogger(logger).
//	    ImageCeiling(2_000_000).
//	    AccurateMediaTypes().
//	    Convert()
//
// The lower-level docx, markdown and images packages are also available.
package wikinator

import (
	"fmt"

	goerrors "github.com/goliatone/go-errors"

	"github.com/acmerocket/wikinator/diag"
	"github.com/acmerocket/wikinator/format"
	"github.com/acmerocket/wikinator/page"
)

// Text codes carried by errors returned from this package.
const (
	CodeDocumentUnreadable = "DOCUMENT_UNREADABLE"
	CodeUnsupportedFormat  = "UNSUPPORTED_FORMAT"
)

// Warning is a non-fatal problem found while converting.
type Warning = diag.Warning

// FormatWarnings renders warnings one per line.
func FormatWarnings(warnings []Warning) string {
	return diag.Format(warnings)
}

// Open returns a Converter for the document at filename. Nothing is read
// until a terminal operation such as Convert is called.
//
// Example:
//
//	p, warnings, err := wikinator.Open("document.docx").Convert()
func Open(filename string) *Converter {
	return &Converter{
		filename: filename,
		options:  defaultOptions(),
	}
}

// Load reads any supported source into a page: Word documents are converted
// and markdown files are loaded with their YAML header.
func Load(filename string) (*page.Page, []Warning, error) {
	f, err := format.DetectFile(filename)
	if err != nil {
		return nil, nil, unreadable(filename, err)
	}

	switch f {
	case format.DOCX:
		return Open(filename).Convert()
	case format.Markdown:
		p, err := page.LoadFile(filename)
		if err != nil {
			return nil, nil, unreadable(filename, err)
		}
		return p, nil, nil
	default:
		return nil, nil, goerrors.Wrap(fmt.Errorf("unsupported file format: %s", filename),
			goerrors.CategoryValidation, "unsupported source format").
			WithTextCode(CodeUnsupportedFormat)
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustConvert wraps a call to Convert or Load and panics if the error is
// non-nil. Warnings are discarded.
//
// Example:
//
//	p := wikinator.MustConvert(wikinator.Open("document.docx").Convert())
func MustConvert(p *page.Page, _ []Warning, err error) *page.Page {
	if err != nil {
		panic(err)
	}
	return p
}

func unreadable(filename string, err error) error {
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "document could not be read: "+filename).
		WithTextCode(CodeDocumentUnreadable)
}
