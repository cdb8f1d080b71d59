package markdown

import (
	"testing"
	"time"

	"github.com/acmerocket/wikinator/diag"
	"github.com/acmerocket/wikinator/model"
)

func TestFootnotes(t *testing.T) {
	comments := []model.Comment{
		{ID: 2, Author: "Ada", Date: time.Date(2024, 3, 5, 14, 7, 0, 0, time.UTC), Text: "  check this \n"},
		{ID: 0, Author: "Grace", Date: time.Date(2009, 11, 10, 23, 0, 0, 0, time.UTC), Text: "second"},
	}

	got := Footnotes(comments, nil)
	want := []string{
		"\n[^2]: At 24-03-05 14:07, Ada said: check this",
		"\n[^0]: At 09-11-10 23:00, Grace said: second",
	}
	if len(got) != len(want) {
		t.Fatalf("got %d footnotes, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("footnote %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFootnotes_MissingDate(t *testing.T) {
	warn := diag.NewCollector(nil)
	got := Footnotes([]model.Comment{{ID: 1, Author: "Lin", Text: "hi"}}, warn)

	if got[0] != "\n[^1]: At unknown date, Lin said: hi" {
		t.Errorf("unexpected footnote %q", got[0])
	}
	if !warn.Has(diag.CommentDate) {
		t.Error("expected comment-date warning")
	}
}

func TestFootnotes_None(t *testing.T) {
	if got := Footnotes(nil, nil); len(got) != 0 {
		t.Errorf("expected no footnotes, got %v", got)
	}
}
