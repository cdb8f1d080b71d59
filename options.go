package wikinator

import (
	"github.com/acmerocket/wikinator/images"
	"github.com/acmerocket/wikinator/logging"
)

// DefaultPlaceholderTitles are document titles that word processors fill in
// on their own. Pages with such a title are named after the file instead.
var DefaultPlaceholderTitles = []string{"Word Document"}

// ConvertOptions holds configuration for a conversion.
type ConvertOptions struct {
	logger logging.Logger

	// Rendering
	monospaceFonts    []string // nil means markdown.DefaultMonospaceFonts
	placeholderTitles []string

	// Images
	images     images.Config
	recognizer images.Recognizer
	noImages   bool
}

// defaultOptions returns the default conversion options.
func defaultOptions() ConvertOptions {
	return ConvertOptions{
		logger:            logging.NoOp(),
		placeholderTitles: append([]string(nil), DefaultPlaceholderTitles...),
		images:            images.DefaultConfig(),
	}
}

// clone creates a deep copy of ConvertOptions.
func (o ConvertOptions) clone() ConvertOptions {
	newOpts := o

	if o.monospaceFonts != nil {
		newOpts.monospaceFonts = make([]string, len(o.monospaceFonts))
		copy(newOpts.monospaceFonts, o.monospaceFonts)
	}
	if o.placeholderTitles != nil {
		newOpts.placeholderTitles = make([]string, len(o.placeholderTitles))
		copy(newOpts.placeholderTitles, o.placeholderTitles)
	}

	return newOpts
}
