package model

import (
	"strings"
	"time"
)

// SourceDocument is a parsed document ready for rendering.
// It is owned by a single conversion and discarded afterwards.
type SourceDocument struct {
	// Path is the file the document was loaded from.
	Path string

	// Blocks is the body content in document order.
	Blocks []Block

	// Images lists the image relationships of the main document part, in
	// relationship-part order.
	Images []EmbeddedImage

	// Comments holds reviewer comments in their native order.
	Comments []Comment

	Metadata Metadata
}

// Metadata holds document-level properties.
type Metadata struct {
	Title       string
	Subject     string
	Author      string
	Description string
	Keywords    []string
	Created     time.Time
	Modified    time.Time
}

// Comment is a reviewer comment referenced from runs by ID.
type Comment struct {
	ID     int
	Author string
	Date   time.Time // zero when the document does not record one
	Text   string
}

// EmbeddedImage is an image part referenced from the document body.
type EmbeddedImage struct {
	RelID       string
	PartName    string
	ContentType string
	Data        []byte
}

// Anchor returns the markdown reference label for the image.
func (img EmbeddedImage) Anchor() string {
	return AnchorName(img.RelID)
}

// AnchorName derives the markdown reference label for a relationship id.
// Word names relationships "rId<n>", which yields "image<n>". Other ids keep
// their digits, or the whole id when there are none.
func AnchorName(relID string) string {
	return "image" + anchorSuffix(relID)
}

func anchorSuffix(relID string) string {
	if strings.HasPrefix(relID, "rId") && len(relID) > 3 {
		return relID[3:]
	}

	var digits strings.Builder
	for _, c := range relID {
		if c >= '0' && c <= '9' {
			digits.WriteRune(c)
		}
	}
	if digits.Len() > 0 {
		return digits.String()
	}
	return relID
}
