package diag

import (
	"context"
	"strings"
	"testing"

	"github.com/acmerocket/wikinator/logging"
)

type levelRecorder struct {
	levels []string
	msgs   []string
}

func (r *levelRecorder) record(level, msg string) {
	r.levels = append(r.levels, level)
	r.msgs = append(r.msgs, msg)
}

func (r *levelRecorder) Trace(msg string, _ ...any)                 { r.record("trace", msg) }
func (r *levelRecorder) Debug(msg string, _ ...any)                 { r.record("debug", msg) }
func (r *levelRecorder) Info(msg string, _ ...any)                  { r.record("info", msg) }
func (r *levelRecorder) Warn(msg string, _ ...any)                  { r.record("warn", msg) }
func (r *levelRecorder) Error(msg string, _ ...any)                 { r.record("error", msg) }
func (r *levelRecorder) Fatal(msg string, _ ...any)                 { r.record("fatal", msg) }
func (r *levelRecorder) WithContext(context.Context) logging.Logger { return r }

func TestCollectorRecordsAndLogs(t *testing.T) {
	rec := &levelRecorder{}
	c := NewCollector(rec)

	c.Warn(UnsupportedStyle, "unsupported style", "style", "Quote")
	c.Note(UnknownList, "unknown list type", "numId", 9)

	ws := c.Warnings()
	if len(ws) != 2 {
		t.Fatalf("expected 2 warnings, got %d", len(ws))
	}
	if ws[0].Kind != UnsupportedStyle || ws[0].Detail != "style=Quote" {
		t.Errorf("unexpected first warning: %+v", ws[0])
	}
	if ws[1].Detail != "numId=9" {
		t.Errorf("unexpected detail: %q", ws[1].Detail)
	}

	if strings.Join(rec.levels, ",") != "warn,debug" {
		t.Errorf("unexpected log levels: %v", rec.levels)
	}
	if !c.Has(UnknownList) || c.Has(ImageBudget) {
		t.Error("Has() reported wrong kinds")
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}

func TestNilCollectorIsSafe(t *testing.T) {
	var c *Collector
	c.Warn(ImageBudget, "ignored")
	c.Note(ImageBudget, "ignored")
	if c.Warnings() != nil || c.Len() != 0 || c.Has(ImageBudget) {
		t.Error("nil collector should record nothing")
	}
}

func TestWarningsReturnsCopy(t *testing.T) {
	c := NewCollector(nil)
	c.Warn(UnsupportedBlock, "unsupported block", "tag", "bookmarkStart")

	ws := c.Warnings()
	ws[0].Message = "changed"

	if c.Warnings()[0].Message != "unsupported block" {
		t.Error("Warnings() should return a copy")
	}
}

func TestFormat(t *testing.T) {
	ws := []Warning{
		{Kind: ImageBudget, Message: "images exceed budget", Detail: "total=6MB"},
		{Kind: CommentDate, Message: "comment has no date"},
	}
	want := "[image-budget] images exceed budget (total=6MB)\n[comment-date] comment has no date"
	if got := Format(ws); got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
	if Count(ws, ImageBudget) != 1 {
		t.Error("Count() mismatch")
	}
}

func TestFormatArgsOddLength(t *testing.T) {
	if got := formatArgs([]any{"a", 1, "dangling"}); got != "a=1 dangling" {
		t.Errorf("formatArgs() = %q", got)
	}
}
