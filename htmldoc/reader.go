// Package htmldoc reads the text blocks of HTML documents as paragraphs.
package htmldoc

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"

	"github.com/tsawler/quizbank/model"
)

// Reader provides access to HTML document content.
type Reader struct {
	title      string
	metadata   map[string]string
	paragraphs []string
}

// Open opens an HTML file for reading with DefaultOptions.
func Open(filename string) (*Reader, error) {
	return OpenWithOptions(filename, DefaultOptions())
}

// OpenWithOptions opens an HTML file for reading.
func OpenWithOptions(filename string, opts Options) (*Reader, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	return OpenReaderWithOptions(f, opts)
}

// OpenReader parses HTML from an io.Reader with DefaultOptions.
func OpenReader(r io.Reader) (*Reader, error) {
	return OpenReaderWithOptions(r, DefaultOptions())
}

// OpenReaderWithOptions parses HTML from an io.Reader. The character set is
// taken from a byte order mark or <meta charset>, defaulting to UTF-8.
func OpenReaderWithOptions(r io.Reader, opts Options) (*Reader, error) {
	utf8Reader, err := charset.NewReader(r, "")
	if err != nil {
		return nil, fmt.Errorf("detecting charset: %w", err)
	}

	doc, err := html.Parse(utf8Reader)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	reader := &Reader{
		metadata: make(map[string]string),
	}
	reader.extractHead(doc)
	reader.extractBody(doc, opts)

	return reader, nil
}

// Close releases resources associated with the Reader.
func (r *Reader) Close() error {
	// Nothing to close for HTML (no file handles kept)
	return nil
}

// Paragraphs returns the text blocks of the body in document order.
func (r *Reader) Paragraphs() []string {
	return append([]string(nil), r.paragraphs...)
}

// Text returns the paragraphs joined by newlines.
func (r *Reader) Text() (string, error) {
	return strings.Join(r.paragraphs, "\n"), nil
}

// Metadata returns document metadata.
func (r *Reader) Metadata() model.Metadata {
	meta := model.NewMetadata("", "HTML")
	meta.Title = r.title

	if author, ok := r.metadata["author"]; ok {
		meta.Author = author
	}
	if desc, ok := r.metadata["description"]; ok {
		meta.Subject = desc
	}
	if generator, ok := r.metadata["generator"]; ok {
		meta.Creator = generator
	}
	if keywords, ok := r.metadata["keywords"]; ok {
		for _, kw := range strings.Split(keywords, ",") {
			if kw = strings.TrimSpace(kw); kw != "" {
				meta.Keywords = append(meta.Keywords, kw)
			}
		}
	}
	for name, content := range r.metadata {
		switch name {
		case "author", "description", "generator", "keywords":
		default:
			meta.Custom[name] = content
		}
	}

	return meta
}

// extractHead extracts title and meta tags from the head element.
func (r *Reader) extractHead(n *html.Node) {
	if n.Type == html.ElementNode && n.Data == "head" {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.Data {
			case "title":
				r.title = strings.TrimSpace(collapse(textContent(c)))
			case "meta":
				name := getAttr(c, "name")
				if name == "" {
					name = getAttr(c, "property")
				}
				if content := getAttr(c, "content"); name != "" && content != "" {
					r.metadata[strings.ToLower(name)] = content
				}
			}
		}
		return
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		r.extractHead(c)
	}
}

// extractBody walks the body and splits its text at block boundaries.
func (r *Reader) extractBody(doc *html.Node, opts Options) {
	body := findElement(doc, "body")
	if body == nil {
		body = doc
	}

	w := &blockWriter{exclude: newExclusionChecker(opts.Navigation, body)}
	w.walk(body)
	w.flush()
	r.paragraphs = w.paragraphs
}

// blockWriter accumulates inline text and emits a paragraph whenever a
// block element starts or ends.
type blockWriter struct {
	exclude    *exclusionChecker
	paragraphs []string
	current    strings.Builder
	pre        int
}

func (w *blockWriter) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		w.text(n.Data)
		return
	case html.ElementNode:
		if shouldSkipElement(n.Data) || w.exclude.shouldExclude(n) {
			return
		}
	}

	if n.Type == html.ElementNode && n.Data == "br" {
		w.flush()
		return
	}

	block := n.Type == html.ElementNode && isBlockElement(n.Data)
	if block {
		w.flush()
	}
	if n.Type == html.ElementNode && n.Data == "pre" {
		w.pre++
		defer func() { w.pre-- }()
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c)
	}

	if block {
		w.flush()
	}
}

// text appends character data. Outside <pre> whitespace runs collapse to a
// single space; inside it every newline ends a paragraph.
func (w *blockWriter) text(s string) {
	if w.pre == 0 {
		w.current.WriteString(collapse(s))
		return
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if i > 0 {
			w.flush()
		}
		w.current.WriteString(line)
	}
}

// flush emits the pending text as a paragraph unless it is blank.
func (w *blockWriter) flush() {
	text := strings.TrimSpace(collapseSpaces(w.current.String()))
	w.current.Reset()
	if text != "" {
		w.paragraphs = append(w.paragraphs, text)
	}
}

// collapse replaces each whitespace run, including non-breaking spaces,
// with one space.
func collapse(s string) string {
	var sb strings.Builder
	space := false
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r', '\f', '\u00a0':
			if !space {
				sb.WriteByte(' ')
			}
			space = true
		default:
			space = false
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// collapseSpaces joins the double spaces left where two collapsed text
// nodes meet.
func collapseSpaces(s string) string {
	for strings.Contains(s, "  ") {
		s = strings.ReplaceAll(s, "  ", " ")
	}
	return s
}

// shouldSkipElement returns true if the element should be skipped during content extraction.
func shouldSkipElement(tagName string) bool {
	switch tagName {
	case "head", "script", "style", "noscript", "template", "svg", "math", "iframe", "object", "embed":
		return true
	}
	return false
}

// isBlockElement reports whether tagName starts a new paragraph.
func isBlockElement(tagName string) bool {
	switch tagName {
	case "p", "div", "li", "dt", "dd", "h1", "h2", "h3", "h4", "h5", "h6",
		"td", "th", "tr", "caption", "blockquote", "pre", "section", "article",
		"main", "header", "footer", "ul", "ol", "dl", "table", "form", "fieldset",
		"legend", "label", "hr", "address", "figcaption":
		return true
	}
	return false
}

// findElement finds the first element with the given tag name.
func findElement(n *html.Node, tagName string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tagName {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if result := findElement(c, tagName); result != nil {
			return result
		}
	}
	return nil
}

// textContent returns the raw text of n and its descendants.
func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(textContent(c))
	}
	return sb.String()
}
