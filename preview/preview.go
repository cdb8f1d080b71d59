// Package preview renders converted pages as standalone HTML documents for
// checking a conversion before it is uploaded.
package preview

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/acmerocket/wikinator/page"
)

const skeleton = `<!DOCTYPE html><html><head><meta charset="utf-8"><title></title></head><body></body></html>`

// style keeps tables and embedded images readable.
const style = `body{font-family:sans-serif;max-width:60em;margin:2em auto;padding:0 1em}` +
	`table{border-collapse:collapse}td,th{border:1px solid #ccc;padding:.3em .6em}` +
	`img{max-width:100%}code{background:#f4f4f4}`

var markdown = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Footnote,
	),
)

// Render writes an HTML document with the given title and rendered markdown
// body to w.
func Render(w io.Writer, title string, source []byte) error {
	var body bytes.Buffer
	if err := markdown.Convert(source, &body); err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}

	doc, err := html.Parse(strings.NewReader(skeleton))
	if err != nil {
		return fmt.Errorf("failed to build document: %w", err)
	}

	head := findElement(doc, atom.Head)
	bodyNode := findElement(doc, atom.Body)
	if head == nil || bodyNode == nil {
		return fmt.Errorf("failed to build document: missing head or body")
	}

	if titleNode := findElement(head, atom.Title); titleNode != nil {
		titleNode.AppendChild(&html.Node{Type: html.TextNode, Data: title})
	}
	styleNode := &html.Node{Type: html.ElementNode, DataAtom: atom.Style, Data: "style"}
	styleNode.AppendChild(&html.Node{Type: html.TextNode, Data: style})
	head.AppendChild(styleNode)

	if title != "" {
		h := &html.Node{Type: html.ElementNode, DataAtom: atom.H1, Data: "h1",
			Attr: []html.Attribute{{Key: "class", Val: "page-title"}}}
		h.AppendChild(&html.Node{Type: html.TextNode, Data: title})
		bodyNode.AppendChild(h)
	}

	nodes, err := html.ParseFragment(&body, bodyNode)
	if err != nil {
		return fmt.Errorf("failed to parse rendered markdown: %w", err)
	}
	for _, n := range nodes {
		bodyNode.AppendChild(n)
	}

	return html.Render(w, doc)
}

// RenderPage writes p as an HTML document.
func RenderPage(w io.Writer, p *page.Page) error {
	return Render(w, p.Title, []byte(p.Content))
}

// WriteFile writes p as an HTML document to name, creating parent
// directories as needed.
func WriteFile(name string, p *page.Page) error {
	var buf bytes.Buffer
	if err := RenderPage(&buf, p); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", name, err)
	}
	if err := os.WriteFile(name, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write preview: %w", err)
	}
	return nil
}

// findElement returns the first element below n with the given atom.
func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}
