package markdown

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/acmerocket/wikinator/diag"
	"github.com/acmerocket/wikinator/model"
)

// DefaultMonospaceFonts are the fixed-width fonts rendered as code spans.
var DefaultMonospaceFonts = []string{
	"Courier New",
	"Courier",
	"Consolas",
	"Lucida Console",
	"Menlo",
	"Monaco",
	"Source Code Pro",
}

// RenderInline renders inline content using the default monospace fonts.
func RenderInline(items []model.Inline) string {
	return NewRenderer(nil).RenderInline(items)
}

// RenderInline renders inline content to markdown. Nested runs are rendered
// on their own and concatenated; their styles do not merge with the parent's.
func (r *Renderer) RenderInline(items []model.Inline) string {
	var sb strings.Builder
	for _, item := range items {
		switch v := item.(type) {
		case model.Text:
			sb.WriteString(string(v))
		case *model.Run:
			sb.WriteString(r.renderRun(v))
		case *model.Hyperlink:
			sb.WriteString("[" + v.Text + "](" + v.Address + ")")
		case *model.Drawing:
			sb.WriteString("![][" + v.Anchor() + "]")
		default:
			r.warn.Warn(diag.UnsupportedInline, "unknown inline item", "type", fmt.Sprintf("%T", item))
		}
	}
	return sb.String()
}

// renderRun wraps the run's content in its style markers. A monospace font
// produces a code span and suppresses every other style. Otherwise markers
// nest strike, italic, underline, bold from the inside out.
func (r *Renderer) renderRun(run *model.Run) string {
	text := r.RenderInline(run.Content)

	if text != "" {
		if r.isMonospace(run.Font) {
			text = "`" + text + "`"
		} else {
			if run.Strike {
				text = "~~" + text + "~~"
			}
			if run.Italic {
				text = "*" + text + "*"
			}
			if run.Underline {
				text = "__" + text + "__"
			}
			if run.Bold {
				text = "**" + text + "**"
			}
		}
	}

	if run.CommentID != nil {
		text += "[^" + strconv.Itoa(*run.CommentID) + "]"
	}
	return text
}

func (r *Renderer) isMonospace(font string) bool {
	if font == "" {
		return false
	}
	return r.monospace[strings.ToLower(font)]
}
