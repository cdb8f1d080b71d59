package markdown

import (
	"strings"

	"github.com/acmerocket/wikinator/diag"
	"github.com/acmerocket/wikinator/model"
)

// List markers keyed by numbering definition id. The table covers the ids
// Word assigns to its default numbered, checklist and bullet lists; it does
// not consult the numbering part.
const (
	MarkerOrdered  = "1. "
	MarkerCheckbox = "- [ ] "
	MarkerBullet   = "* "
)

var listMarkers = map[int]string{
	1: MarkerOrdered,
	2: MarkerCheckbox,
	3: MarkerBullet,
}

// ListPrefix returns the indent and marker for a numbered paragraph, or ""
// when ref is nil. Unknown numbering ids fall back to a bullet.
func ListPrefix(ref *model.NumberingRef, warn *diag.Collector) string {
	if ref == nil {
		return ""
	}

	marker, ok := listMarkers[ref.NumID]
	if !ok {
		warn.Warn(diag.UnknownList, "unknown list type", "numId", ref.NumID)
		marker = MarkerBullet
	} else if ref.Format != "" && (marker == MarkerOrdered) != ref.Ordered() {
		// checklists render as unordered items
		warn.Note(diag.ListMismatch, "list marker disagrees with numbering format",
			"numId", ref.NumID, "level", ref.Level, "format", ref.Format, "marker", strings.TrimSpace(marker))
	}

	level := ref.Level
	if level < 0 {
		level = 0
	}
	return strings.Repeat("  ", level) + marker
}
