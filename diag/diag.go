// Package diag collects the degraded-but-recoverable conditions met during a
// conversion so callers can inspect them alongside the rendered page.
package diag

import (
	"fmt"
	"strings"

	"github.com/acmerocket/wikinator/logging"
)

// Kind classifies a warning.
type Kind string

const (
	UnsupportedStyle  Kind = "unsupported-style"
	UnsupportedBlock  Kind = "unsupported-block"
	UnsupportedInline Kind = "unknown-inline"
	UnknownList       Kind = "unknown-list"
	ListMismatch      Kind = "list-mismatch"
	MissingImage      Kind = "missing-image"
	ImageDecode       Kind = "image-decode"
	ImageEncode       Kind = "image-encode"
	ImageBudget       Kind = "image-budget"
	CommentDate       Kind = "comment-date"
	MissingPart       Kind = "missing-part"
	OCR               Kind = "ocr"
)

// Warning is a non-fatal issue found while converting.
type Warning struct {
	Kind    Kind
	Message string
	Detail  string // key=value pairs, space separated
}

func (w Warning) String() string {
	if w.Detail == "" {
		return fmt.Sprintf("[%s] %s", w.Kind, w.Message)
	}
	return fmt.Sprintf("[%s] %s (%s)", w.Kind, w.Message, w.Detail)
}

// Collector accumulates warnings and mirrors each one to a logger.
// A nil *Collector discards everything.
type Collector struct {
	logger   logging.Logger
	warnings []Warning
}

// NewCollector returns a collector logging through logger (nil for none).
func NewCollector(logger logging.Logger) *Collector {
	return &Collector{logger: logging.OrNoOp(logger)}
}

// Warn records a warning and logs it at warn level. args are key/value pairs.
func (c *Collector) Warn(kind Kind, msg string, args ...any) {
	if c == nil {
		return
	}
	c.add(kind, msg, args)
	c.logger.Warn(msg, append([]any{"kind", string(kind)}, args...)...)
}

// Note records a warning and logs it at debug level. It is used for
// conditions that are expected in ordinary documents.
func (c *Collector) Note(kind Kind, msg string, args ...any) {
	if c == nil {
		return
	}
	c.add(kind, msg, args)
	c.logger.Debug(msg, append([]any{"kind", string(kind)}, args...)...)
}

func (c *Collector) add(kind Kind, msg string, args []any) {
	c.warnings = append(c.warnings, Warning{
		Kind:    kind,
		Message: msg,
		Detail:  formatArgs(args),
	})
}

// Warnings returns a copy of the recorded warnings in the order found.
func (c *Collector) Warnings() []Warning {
	if c == nil || len(c.warnings) == 0 {
		return nil
	}
	return append([]Warning(nil), c.warnings...)
}

// Has reports whether a warning of kind was recorded.
func (c *Collector) Has(kind Kind) bool {
	return Count(c.Warnings(), kind) > 0
}

// Len returns the number of recorded warnings.
func (c *Collector) Len() int {
	if c == nil {
		return 0
	}
	return len(c.warnings)
}

// Count returns how many warnings in ws are of kind.
func Count(ws []Warning, kind Kind) int {
	n := 0
	for _, w := range ws {
		if w.Kind == kind {
			n++
		}
	}
	return n
}

// Format renders warnings one per line.
func Format(ws []Warning) string {
	lines := make([]string, len(ws))
	for i, w := range ws {
		lines[i] = w.String()
	}
	return strings.Join(lines, "\n")
}

func formatArgs(args []any) string {
	if len(args) == 0 {
		return ""
	}
	parts := make([]string, 0, (len(args)+1)/2)
	for i := 0; i < len(args); i += 2 {
		if i+1 < len(args) {
			parts = append(parts, fmt.Sprintf("%v=%v", args[i], args[i+1]))
		} else {
			parts = append(parts, fmt.Sprint(args[i]))
		}
	}
	return strings.Join(parts, " ")
}
