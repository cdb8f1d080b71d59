package page

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/goliatone/go-slug"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"golang.org/x/text/language"
)

// header is the optional YAML header of a markdown page. Pointers tell an
// absent key from a false value.
type header struct {
	Title       string   `yaml:"title"`
	Editor      string   `yaml:"editor"`
	IsPublished *bool    `yaml:"isPublished"`
	IsPrivate   *bool    `yaml:"isPrivate"`
	Locale      string   `yaml:"locale"`
	Path        string   `yaml:"path"`
	Tags        []string `yaml:"tags"`
	Description string   `yaml:"description"`
}

// LoadFile reads a markdown page. Values missing from the header default to a
// private, unpublished markdown page in English; the title falls back to the
// first level-one heading and then to the file stem.
func LoadFile(name string) (*Page, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read page: %w", err)
	}
	return Parse(name, data)
}

// Parse builds a page from markdown source read from name.
func Parse(name string, data []byte) (*Page, error) {
	var h header
	body, err := frontmatter.Parse(bytes.NewReader(data), &h)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page header in %s: %w", name, err)
	}
	body = bytes.TrimSpace(body)

	p := New(h.Title, string(body), h.Description, h.Tags)
	if p.Title == "" {
		p.Title = FirstHeading(body)
	}
	if p.Title == "" {
		p.Title = Stem(name)
	}
	if p.Description == "" {
		p.Description = "Generated from " + name
	}
	if h.Editor != "" {
		p.Editor = h.Editor
	}
	if h.IsPublished != nil {
		p.IsPublished = *h.IsPublished
	}
	if h.IsPrivate != nil {
		p.IsPrivate = *h.IsPrivate
	}
	if h.Locale != "" {
		tag, err := language.Parse(h.Locale)
		if err != nil {
			return nil, fmt.Errorf("invalid locale %q in %s: %w", h.Locale, name, err)
		}
		p.Locale = tag.String()
	}

	p.Path = h.Path
	if p.Path == "" {
		p.Path = relativePath(name)
	}
	return p, nil
}

// FirstHeading returns the text of the first level-one heading in source.
func FirstHeading(source []byte) string {
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var title string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok || heading.Level != 1 {
			return ast.WalkContinue, nil
		}
		title = strings.TrimSpace(inlineText(heading, source))
		return ast.WalkStop, nil
	})
	return title
}

func inlineText(n ast.Node, source []byte) string {
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch v := c.(type) {
		case *ast.Text:
			sb.Write(v.Segment.Value(source))
			if v.SoftLineBreak() || v.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(v.Value)
		default:
			sb.WriteString(inlineText(c, source))
		}
	}
	return sb.String()
}

// relativePath returns name without its extension, relative to the working
// directory when possible, with slash separators.
func relativePath(name string) string {
	rel := name
	if wd, err := os.Getwd(); err == nil {
		if abs, err := filepath.Abs(name); err == nil {
			if r, err := filepath.Rel(wd, abs); err == nil && !strings.HasPrefix(r, "..") {
				rel = r
			}
		}
	}
	return filepath.ToSlash(strings.TrimSuffix(rel, filepath.Ext(rel)))
}

// SlugPath normalizes every segment of a wiki path into a URL slug, dropping
// empty segments.
func SlugPath(p string) (string, error) {
	parts := strings.Split(strings.ReplaceAll(p, `\`, "/"), "/")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		s, err := slug.Normalize(part)
		if err != nil {
			return "", fmt.Errorf("failed to slugify %q: %w", part, err)
		}
		if s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, "/"), nil
}
