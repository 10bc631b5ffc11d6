// Package odt reads the paragraphs of ODT (OpenDocument Text) documents.
package odt

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/tsawler/quizbank/model"
)

// Options controls how paragraphs are rendered.
type Options struct {
	// ListLabels prefixes paragraphs of numbered lists with their label,
	// such as "1." or "A.".
	ListLabels bool
}

// Reader provides access to ODT document content.
type Reader struct {
	zipReader     *zip.ReadCloser
	opts          Options
	contentStyles *contentStylesXML
	docStyles     *stylesXML
	meta          *metaXML
	lists         listStyles
	paragraphs    []string
}

// listFrame tracks one open text:list while streaming content.xml.
type listFrame struct {
	style    string
	counter  int
	labelled bool
}

// Open opens an ODT file for reading with default options.
func Open(filename string) (*Reader, error) {
	return OpenWithOptions(filename, Options{})
}

// OpenWithOptions opens an ODT file for reading.
func OpenWithOptions(filename string, opts Options) (*Reader, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}

	r := &Reader{
		zipReader: zr,
		opts:      opts,
	}

	if err := r.validate(); err != nil {
		zr.Close()
		return nil, err
	}

	// List styles are optional; without them every list renders unlabelled.
	_ = r.parseStyles()
	_ = r.parseContentStyles()
	r.lists = newListStyles(r.contentStyles, r.docStyles)

	if err := r.parseContent(); err != nil {
		zr.Close()
		return nil, fmt.Errorf("parsing content: %w", err)
	}

	r.parseMetadata()

	return r, nil
}

// Close releases resources associated with the Reader.
func (r *Reader) Close() error {
	if r.zipReader != nil {
		err := r.zipReader.Close()
		r.zipReader = nil
		return err
	}
	return nil
}

// validate checks that required ODT files exist.
func (r *Reader) validate() error {
	for _, f := range r.zipReader.File {
		if f.Name == "content.xml" {
			return nil
		}
	}
	return fmt.Errorf("missing required file: content.xml")
}

// getFileContent reads the content of a file from the ZIP archive.
func (r *Reader) getFileContent(name string) ([]byte, error) {
	for _, f := range r.zipReader.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, fmt.Errorf("file not found: %s", name)
}

// Paragraphs returns the paragraphs and headings of the document body in
// document order, including those inside lists. Empty paragraphs are kept.
func (r *Reader) Paragraphs() []string {
	return append([]string(nil), r.paragraphs...)
}

// Text returns the paragraphs joined by newlines.
func (r *Reader) Text() (string, error) {
	if r.zipReader == nil {
		return "", fmt.Errorf("reader is closed")
	}
	return strings.Join(r.paragraphs, "\n"), nil
}

// Metadata returns document metadata.
func (r *Reader) Metadata() model.Metadata {
	meta := model.NewMetadata("", "ODT")
	if r.meta == nil || r.meta.Meta == nil {
		return meta
	}

	m := r.meta.Meta
	meta.Title = m.Title
	meta.Author = m.Creator
	if meta.Author == "" {
		meta.Author = m.InitialCreator
	}
	meta.Subject = m.Subject
	meta.Creator = m.Generator
	for _, kw := range m.Keywords {
		if kw = strings.TrimSpace(kw); kw != "" {
			meta.Keywords = append(meta.Keywords, kw)
		}
	}
	meta.CreationDate = parseDate(m.CreationDate)
	meta.ModDate = parseDate(m.Date)
	if m.Language != "" {
		meta.Custom["language"] = m.Language
	}
	if m.Description != "" {
		meta.Custom["description"] = m.Description
	}
	return meta
}

// parseStyles parses the styles.xml file.
func (r *Reader) parseStyles() error {
	data, err := r.getFileContent("styles.xml")
	if err != nil {
		return err
	}

	styles := &stylesXML{}
	if err := xml.Unmarshal(data, styles); err != nil {
		return err
	}
	r.docStyles = styles
	return nil
}

// parseContentStyles parses automatic styles from content.xml.
func (r *Reader) parseContentStyles() error {
	data, err := r.getFileContent("content.xml")
	if err != nil {
		return err
	}

	// Parse just the automatic-styles section
	type contentDoc struct {
		AutoStyles *contentStylesXML `xml:"automatic-styles"`
	}

	var doc contentDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return err
	}

	r.contentStyles = doc.AutoStyles
	return nil
}

// parseContent streams content.xml and collects paragraphs in order.
func (r *Reader) parseContent() error {
	data, err := r.getFileContent("content.xml")
	if err != nil {
		return err
	}

	decoder := xml.NewDecoder(strings.NewReader(string(data)))
	var (
		inBody bool
		inPara bool
		text   strings.Builder
		stack  []*listFrame
	)

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Local == "text" && t.Name.Space == nsOffice {
				inBody = true
				continue
			}
			if !inBody {
				continue
			}
			if skippedElements[t.Name.Local] {
				if err := decoder.Skip(); err != nil {
					return err
				}
				continue
			}
			if t.Name.Space != nsText {
				continue
			}

			switch t.Name.Local {
			case "list":
				frame := &listFrame{style: attr(t, "style-name")}
				if frame.style == "" && len(stack) > 0 {
					frame.style = stack[len(stack)-1].style
				}
				stack = append(stack, frame)
			case "list-item":
				if len(stack) > 0 {
					top := stack[len(stack)-1]
					if top.counter == 0 {
						top.counter = r.lists.level(top.style, len(stack)).StartValue
					} else {
						top.counter++
					}
					top.labelled = false
				}
			case "list-header":
				if len(stack) > 0 {
					stack[len(stack)-1].labelled = true
				}
			case "p", "h":
				if inPara {
					continue
				}
				inPara = true
				text.Reset()
				if r.opts.ListLabels && len(stack) > 0 && !stack[len(stack)-1].labelled {
					top := stack[len(stack)-1]
					top.labelled = true
					if label := r.lists.level(top.style, len(stack)).label(top.counter); label != "" {
						text.WriteString(label + " ")
					}
				}
			case "s":
				if inPara {
					n, err := strconv.Atoi(attr(t, "c"))
					if err != nil || n < 1 {
						n = 1
					}
					text.WriteString(strings.Repeat(" ", n))
				}
			case "tab":
				if inPara {
					text.WriteByte('\t')
				}
			case "line-break":
				if inPara {
					text.WriteByte('\n')
				}
			}

		case xml.CharData:
			if inPara {
				text.WriteString(collapseSpace(string(t)))
			}

		case xml.EndElement:
			if t.Name.Local == "text" && t.Name.Space == nsOffice {
				inBody = false
				continue
			}
			if t.Name.Space != nsText {
				continue
			}
			switch t.Name.Local {
			case "p", "h":
				if inPara {
					r.paragraphs = append(r.paragraphs, text.String())
					inPara = false
				}
			case "list":
				if len(stack) > 0 {
					stack = stack[:len(stack)-1]
				}
			}
		}
	}

	return nil
}

// parseMetadata parses the meta.xml file.
func (r *Reader) parseMetadata() {
	data, err := r.getFileContent("meta.xml")
	if err != nil {
		return
	}

	meta := &metaXML{}
	if xml.Unmarshal(data, meta) == nil {
		r.meta = meta
	}
}

// attr returns the value of the attribute with the given local name.
func attr(t xml.StartElement, local string) string {
	for _, a := range t.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// collapseSpace replaces each run of XML whitespace with a single space, as
// ODF requires for character data; text:s carries significant spaces.
func collapseSpace(s string) string {
	var sb strings.Builder
	space := false
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			if !space {
				sb.WriteByte(' ')
			}
			space = true
			continue
		}
		space = false
		sb.WriteRune(r)
	}
	return sb.String()
}

// parseDate parses the ISO 8601 dates used in meta.xml.
func parseDate(s string) time.Time {
	s = strings.TrimFunc(s, unicode.IsSpace)
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999", "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
