package markdown

import (
	"strconv"
	"strings"

	"github.com/acmerocket/wikinator/diag"
	"github.com/acmerocket/wikinator/model"
)

// FootnoteTimeLayout formats comment timestamps as YY-MM-DD HH:MM.
const FootnoteTimeLayout = "06-01-02 15:04"

// Footnotes renders one footnote definition per comment, in document order.
// Each definition starts with a newline.
func Footnotes(comments []model.Comment, warn *diag.Collector) []string {
	notes := make([]string, 0, len(comments))
	for _, c := range comments {
		date := "unknown date"
		if c.Date.IsZero() {
			warn.Warn(diag.CommentDate, "comment has no date", "id", c.ID)
		} else {
			date = c.Date.Format(FootnoteTimeLayout)
		}

		notes = append(notes, "\n[^"+strconv.Itoa(c.ID)+"]: At "+date+", "+
			c.Author+" said: "+strings.TrimSpace(c.Text))
	}
	return notes
}
