// Package format provides source file format detection for wikinator.
package format

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Format represents a supported source format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// DOCX indicates a Microsoft Word (.docx) document.
	DOCX
	// Markdown indicates a markdown page, optionally with a YAML header.
	Markdown
)

var zipMagic = []byte{0x50, 0x4B, 0x03, 0x04}

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case DOCX:
		return "DOCX"
	case Markdown:
		return "Markdown"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case DOCX:
		return ".docx"
	case Markdown:
		return ".md"
	default:
		return ""
	}
}

// Detect determines file format from filename extension.
func Detect(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".docx":
		return DOCX
	case ".md", ".markdown":
		return Markdown
	default:
		return Unknown
	}
}

// DetectFile determines the format of a file on disk. Markdown is trusted by
// extension; anything else must be a ZIP archive with Word content to be
// reported as DOCX.
func DetectFile(filename string) (Format, error) {
	if Detect(filename) == Markdown {
		return Markdown, nil
	}

	f, err := os.Open(filename)
	if err != nil {
		return Unknown, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return Unknown, err
	}
	return DetectFromReader(f, info.Size())
}

// DetectFromMagic reports whether data starts with a ZIP local file header.
// Word documents are ZIP archives, so this is a necessary but not
// sufficient condition for DOCX.
func DetectFromMagic(data []byte) bool {
	return bytes.HasPrefix(data, zipMagic)
}

// DetectFromReader inspects the content to determine format. ZIP archives
// are opened to distinguish Word documents from other packages.
func DetectFromReader(r io.ReaderAt, size int64) (Format, error) {
	magic := make([]byte, len(zipMagic))
	n, err := r.ReadAt(magic, 0)
	if err != nil && err != io.EOF {
		return Unknown, err
	}
	if !DetectFromMagic(magic[:n]) {
		return Unknown, nil
	}
	return detectZIPFormat(r, size)
}

// detectZIPFormat reports DOCX when the archive carries Office Open XML
// content types and a word/ part.
func detectZIPFormat(r io.ReaderAt, size int64) (Format, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return Unknown, err
	}

	var contentTypes, word bool
	for _, f := range zr.File {
		switch {
		case f.Name == "[Content_Types].xml":
			contentTypes = true
		case strings.HasPrefix(f.Name, "word/"):
			word = true
		}
	}
	if contentTypes && word {
		return DOCX, nil
	}
	return Unknown, nil
}
