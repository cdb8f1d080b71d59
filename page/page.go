// Package page holds the converted wiki page and its persistence as a
// markdown file with a YAML header.
package page

import (
	"bytes"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Defaults applied to converted and loaded pages.
const (
	DefaultEditor = "markdown"
	DefaultLocale = "en"
)

// Page is a converted document ready for upload. Field names follow the wiki
// page mutation payload.
type Page struct {
	Title       string   `json:"title" yaml:"title"`
	Content     string   `json:"content" yaml:"-"`
	Editor      string   `json:"editor" yaml:"editor"`
	IsPublished bool     `json:"isPublished" yaml:"isPublished"`
	IsPrivate   bool     `json:"isPrivate" yaml:"isPrivate"`
	Locale      string   `json:"locale" yaml:"locale"`
	Path        string   `json:"path" yaml:"path"`
	Tags        []string `json:"tags" yaml:"tags"`
	Description string   `json:"description" yaml:"description"`
}

// New returns a page with the standard defaults: markdown editor, English
// locale, private and unpublished.
func New(title, content, description string, tags []string) *Page {
	if tags == nil {
		tags = []string{}
	}
	return &Page{
		Title:       title,
		Content:     content,
		Editor:      DefaultEditor,
		Locale:      DefaultLocale,
		IsPrivate:   true,
		Tags:        tags,
		Description: description,
	}
}

// Variables returns the page as the variable map of the wiki create-page
// mutation.
func (p *Page) Variables() map[string]any {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return map[string]any{
		"content":     p.Content,
		"editor":      p.Editor,
		"isPublished": p.IsPublished,
		"isPrivate":   p.IsPrivate,
		"locale":      p.Locale,
		"path":        p.Path,
		"tags":        tags,
		"title":       p.Title,
		"description": p.Description,
	}
}

// Filename returns the markdown file name for the page's path, relative to
// root when root is not empty. Backslashes become slashes and colons become
// underscores.
func (p *Page) Filename(root string) string {
	clean := strings.NewReplacer(`\`, "/", ":", "_").Replace(p.Path)
	name := clean + ".md"
	if root == "" {
		return filepath.FromSlash(name)
	}
	return filepath.Join(root, filepath.FromSlash(name))
}

// Write stores the page under root at the location given by its path and
// returns the file name written.
func (p *Page) Write(root string) (string, error) {
	name := p.Filename(root)
	if err := p.WriteFile(name); err != nil {
		return "", err
	}
	return name, nil
}

// WriteFile writes the YAML header and content to name, creating parent
// directories as needed.
func (p *Page) WriteFile(name string) error {
	data, err := p.Marshal()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", name, err)
	}
	if err := os.WriteFile(name, data, 0o644); err != nil {
		return fmt.Errorf("failed to write page: %w", err)
	}
	return nil
}

// Marshal renders the page as a markdown document with a YAML header.
func (p *Page) Marshal() ([]byte, error) {
	header := *p
	if header.Tags == nil {
		header.Tags = []string{}
	}

	meta, err := yaml.Marshal(&header)
	if err != nil {
		return nil, fmt.Errorf("failed to encode page header: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(meta)
	buf.WriteString("---\n\n")
	buf.WriteString(p.Content)
	return buf.Bytes(), nil
}

// String returns a short description of the page.
func (p *Page) String() string {
	return fmt.Sprintf("Page(title=%q, path=%q)", p.Title, p.Path)
}

// PathFor returns the wiki path for a source file: outRoot, the source's
// parent directory and the file stem, joined with slashes.
func PathFor(outRoot, source string) string {
	dir, base := filepath.Split(source)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return path.Join(filepath.ToSlash(outRoot), filepath.ToSlash(dir), stem)
}

// Stem returns the file name of name without its directory or extension.
func Stem(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
