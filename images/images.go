// Package images embeds document images into markdown as base64 data URIs,
// shrinking oversized pictures so the page stays within an upload budget.
package images

import (
	"encoding/base64"
	"fmt"
	"mime"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"

	"github.com/acmerocket/wikinator/diag"
	"github.com/acmerocket/wikinator/logging"
	"github.com/acmerocket/wikinator/model"
)

const (
	// DefaultCeiling is the upload budget for all encoded images of a page.
	DefaultCeiling = 5_000_000
	// DefaultMaxDimension is the largest width or height kept at full size.
	DefaultMaxDimension = 1000
	// DefaultJPEGQuality is used when re-encoding JPEG images.
	DefaultJPEGQuality = 85

	defaultMediaType = "image/png"
	maxTitleRunes    = 80
)

// Config controls image processing.
type Config struct {
	// Ceiling is the budget, in base64-encoded bytes, for all images.
	Ceiling int
	// MaxDimension triggers a 50% downsample when either side exceeds it.
	MaxDimension int
	JPEGQuality  int
	// AccurateMediaType emits each image's real media type in its data URI
	// instead of image/png.
	AccurateMediaType bool
}

// DefaultConfig returns the standard budget and compression settings.
func DefaultConfig() Config {
	return Config{
		Ceiling:      DefaultCeiling,
		MaxDimension: DefaultMaxDimension,
		JPEGQuality:  DefaultJPEGQuality,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Ceiling <= 0 {
		c.Ceiling = d.Ceiling
	}
	if c.MaxDimension <= 0 {
		c.MaxDimension = d.MaxDimension
	}
	if c.JPEGQuality <= 0 || c.JPEGQuality > 100 {
		c.JPEGQuality = d.JPEGQuality
	}
	return c
}

// Recognizer extracts text from encoded image data. *ocr.Client satisfies it.
type Recognizer interface {
	RecognizeImage(data []byte) (string, error)
}

// Report summarizes one Process call.
type Report struct {
	// ScaleFactor is 1.0 when the original images fit the ceiling, else
	// ceiling/original. It is informational; compression is driven by
	// pixel dimensions.
	ScaleFactor  float64
	OriginalSize int // total encoded bytes before compression
	FinalSize    int // total encoded bytes emitted
	Images       int
	Largest      string // anchor of the largest emitted image
	LargestSize  int
	OverBudget   bool
}

// Processor compresses and encodes embedded images.
type Processor struct {
	cfg        Config
	recognizer Recognizer
	logger     logging.Logger
	warn       *diag.Collector
}

// Option configures a Processor.
type Option func(*Processor)

// WithRecognizer adds recognized text as the title of each image definition.
func WithRecognizer(r Recognizer) Option {
	return func(p *Processor) {
		p.recognizer = r
	}
}

// WithLogger sets the logger used for per-image size reports.
func WithLogger(logger logging.Logger) Option {
	return func(p *Processor) {
		p.logger = logging.OrNoOp(logger)
	}
}

// NewProcessor returns a processor reporting problems to warn.
func NewProcessor(cfg Config, warn *diag.Collector, opts ...Option) *Processor {
	p := &Processor{
		cfg:    cfg.withDefaults(),
		logger: logging.NoOp(),
		warn:   warn,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ScaleFactor returns 1.0 when total fits within ceiling, else ceiling/total.
func ScaleFactor(total, ceiling int) float64 {
	if total <= ceiling || total == 0 {
		return 1.0
	}
	return float64(ceiling) / float64(total)
}

// Process returns one markdown reference definition per image, in input
// order, each followed by a blank line.
func (p *Processor) Process(imgs []model.EmbeddedImage) ([]string, Report) {
	report := Report{Images: len(imgs)}
	for _, img := range imgs {
		report.OriginalSize += encodedLen(img.Data)
	}
	report.ScaleFactor = ScaleFactor(report.OriginalSize, p.cfg.Ceiling)

	defs := make([]string, 0, len(imgs))
	for _, img := range imgs {
		data := p.compress(img)
		encoded := base64.StdEncoding.EncodeToString(data)

		size := len(encoded)
		report.FinalSize += size
		if size > report.LargestSize {
			report.LargestSize = size
			report.Largest = img.Anchor()
		}

		mediaType := defaultMediaType
		if p.cfg.AccurateMediaType {
			mediaType = mediaTypeOf(img, data)
		}
		defs = append(defs, Definition(img.Anchor(), mediaType, encoded, p.title(img, data)))
	}

	if report.FinalSize > p.cfg.Ceiling {
		report.OverBudget = true
		average := uint64(report.FinalSize / len(imgs))
		p.warn.Warn(diag.ImageBudget, "total image size exceeds upload budget",
			"total", humanize.Bytes(uint64(report.FinalSize)),
			"limit", humanize.Bytes(uint64(p.cfg.Ceiling)),
			"images", report.Images,
			"average", humanize.Bytes(average),
			"largest", report.Largest,
		)
	}

	return defs, report
}

// Definition formats a markdown reference definition carrying a data URI.
func Definition(anchor, mediaType, encoded, title string) string {
	def := "[" + anchor + "]: <data:" + mediaType + ";base64," + encoded + ">"
	if title != "" {
		def += ` "` + title + `"`
	}
	return def + "\n\n"
}

func (p *Processor) title(img model.EmbeddedImage, data []byte) string {
	if p.recognizer == nil {
		return ""
	}
	text, err := p.recognizer.RecognizeImage(data)
	if err != nil {
		p.warn.Note(diag.OCR, "image text recognition failed", "image", img.Anchor(), "error", err)
		return ""
	}
	return Title(text)
}

// Title condenses recognized text into a reference title: whitespace is
// collapsed, double quotes become single quotes and long text is cut.
func Title(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	text = strings.ReplaceAll(text, `"`, "'")
	if utf8.RuneCountInString(text) <= maxTitleRunes {
		return text
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:maxTitleRunes-1])) + "…"
}

func mediaTypeOf(img model.EmbeddedImage, data []byte) string {
	if strings.HasPrefix(img.ContentType, "image/") {
		return img.ContentType
	}
	if t := mime.TypeByExtension(path.Ext(img.PartName)); strings.HasPrefix(t, "image/") {
		return t
	}
	if format, ok := sniff(data); ok {
		return "image/" + format
	}
	return defaultMediaType
}

func sizeRatio(before, after int) string {
	if before == 0 {
		return "n/a"
	}
	return fmt.Sprintf("%.2f%%", float64(after)/float64(before)*100)
}

func encodedLen(data []byte) int {
	return base64.StdEncoding.EncodedLen(len(data))
}
