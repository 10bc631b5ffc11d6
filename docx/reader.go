// Package docx reads the body paragraphs of DOCX (Office Open XML) documents.
package docx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/tsawler/quizbank/model"
)

// Options controls how paragraphs are rendered.
type Options struct {
	// ListLabels prefixes automatically numbered paragraphs with the label
	// Word would display, such as "1." or "A.".
	ListLabels bool

	// SplitBreaks returns each line-break-separated segment of a paragraph
	// as a paragraph of its own.
	SplitBreaks bool
}

// Reader provides access to DOCX document content.
type Reader struct {
	zipReader  *zip.ReadCloser
	opts       Options
	styles     *stylesXML
	numbering  *numberingXML
	coreProps  *corePropertiesXML
	appProps   *appPropertiesXML
	paragraphs []parsedParagraph
}

// parsedParagraph holds the text and numbering of one body paragraph.
type parsedParagraph struct {
	Text    string
	StyleID string
	NumID   string
	Level   int
	HasNum  bool
}

// Open opens a DOCX file for reading with default options.
func Open(filename string) (*Reader, error) {
	return OpenWithOptions(filename, Options{})
}

// OpenWithOptions opens a DOCX file for reading.
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

	if err := r.parseDocument(); err != nil {
		zr.Close()
		return nil, fmt.Errorf("parsing document: %w", err)
	}

	// Styles and numbering only matter for list labels; a broken part
	// degrades to unlabelled paragraphs.
	if err := r.parseStyles(); err != nil {
		r.styles = nil
	}
	if err := r.parseNumbering(); err != nil {
		r.numbering = nil
	}

	r.parseCoreProperties()
	r.parseAppProperties()

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

// validate checks that required DOCX files exist.
func (r *Reader) validate() error {
	required := []string{
		"[Content_Types].xml",
		"word/document.xml",
	}

	fileMap := make(map[string]bool)
	for _, f := range r.zipReader.File {
		fileMap[f.Name] = true
	}

	for _, name := range required {
		if !fileMap[name] {
			return fmt.Errorf("missing required file: %s", name)
		}
	}

	return nil
}

// getFile returns a zip.File by name.
func (r *Reader) getFile(name string) *zip.File {
	for _, f := range r.zipReader.File {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// getFileContent reads the content of a file from the ZIP archive.
func (r *Reader) getFileContent(name string) ([]byte, error) {
	f := r.getFile(name)
	if f == nil {
		return nil, fmt.Errorf("file not found: %s", name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// Paragraphs returns the body paragraphs in document order. Empty
// paragraphs are kept.
func (r *Reader) Paragraphs() []string {
	labels := newNumberingTracker(r.numbering)
	out := make([]string, 0, len(r.paragraphs))

	for _, p := range r.paragraphs {
		text := p.Text
		if r.opts.ListLabels {
			if numID, level, ok := r.numberingFor(p); ok {
				if label := labels.next(numID, level); label != "" {
					text = label + " " + text
				}
			}
		}
		if r.opts.SplitBreaks {
			out = append(out, strings.Split(text, "\n")...)
			continue
		}
		out = append(out, text)
	}

	return out
}

// Text returns the paragraphs joined by newlines.
func (r *Reader) Text() (string, error) {
	if r.zipReader == nil {
		return "", fmt.Errorf("reader is closed")
	}
	return strings.Join(r.Paragraphs(), "\n"), nil
}

// Metadata returns the core and application properties of the document.
func (r *Reader) Metadata() model.Metadata {
	meta := model.NewMetadata("", "DOCX")

	if r.coreProps != nil {
		meta.Title = r.coreProps.Title
		meta.Author = r.coreProps.Creator
		meta.Subject = r.coreProps.Subject
		if r.coreProps.Keywords != "" {
			for _, kw := range strings.Split(r.coreProps.Keywords, ",") {
				if kw = strings.TrimSpace(kw); kw != "" {
					meta.Keywords = append(meta.Keywords, kw)
				}
			}
		}
		meta.CreationDate = parseW3CDate(r.coreProps.Created)
		meta.ModDate = parseW3CDate(r.coreProps.Modified)
		if r.coreProps.Category != "" {
			meta.Custom["category"] = r.coreProps.Category
		}
		if r.coreProps.LastModifiedBy != "" {
			meta.Custom["lastModifiedBy"] = r.coreProps.LastModifiedBy
		}
	}
	if r.appProps != nil {
		meta.Creator = r.appProps.Application
		if r.appProps.Company != "" {
			meta.Custom["company"] = r.appProps.Company
		}
	}

	return meta
}

// parseDocument streams word/document.xml and collects body paragraphs.
func (r *Reader) parseDocument() error {
	f := r.getFile("word/document.xml")
	if f == nil {
		return fmt.Errorf("file not found: word/document.xml")
	}
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	dec := xml.NewDecoder(rc)
	var (
		inBody bool
		cur    *parsedParagraph
		text   strings.Builder
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if skippedElements[t.Name.Local] {
				if err := dec.Skip(); err != nil {
					return err
				}
				continue
			}

			switch t.Name.Local {
			case "body":
				inBody = true
			case "p":
				if inBody && cur == nil {
					cur = &parsedParagraph{}
					text.Reset()
				}
			case "pPr":
				if cur == nil {
					continue
				}
				var props paragraphPropsXML
				if err := dec.DecodeElement(&props, &t); err != nil {
					return err
				}
				cur.StyleID = props.Style.Val
				if props.NumPr.NumID.Val != "" {
					cur.HasNum = true
					cur.NumID = props.NumPr.NumID.Val
					cur.Level, _ = strconv.Atoi(props.NumPr.ILvl.Val)
				}
			case "t":
				if cur == nil || t.Name.Space != nsW {
					continue
				}
				var tx textXML
				if err := dec.DecodeElement(&tx, &t); err != nil {
					return err
				}
				text.WriteString(tx.Value)
			case "tab":
				if cur != nil {
					text.WriteByte('\t')
				}
			case "br", "cr":
				if cur != nil {
					text.WriteByte('\n')
				}
			case "noBreakHyphen":
				if cur != nil {
					text.WriteByte('-')
				}
			case "sym":
				if cur == nil {
					continue
				}
				var sym symXML
				if err := dec.DecodeElement(&sym, &t); err != nil {
					return err
				}
				text.WriteString(symbolText(sym))
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "p":
				if cur != nil {
					cur.Text = text.String()
					r.paragraphs = append(r.paragraphs, *cur)
					cur = nil
				}
			case "body":
				inBody = false
			}
		}
	}

	return nil
}

// symbolText returns the character of a w:sym element, or "" when it is a
// Private Use Area glyph from a symbol font.
func symbolText(sym symXML) string {
	code, err := strconv.ParseUint(sym.Char, 16, 32)
	if err != nil {
		return ""
	}
	s := string(rune(code))
	if !isRenderableBullet(s) {
		return ""
	}
	return s
}

// parseStyles parses the styles definition file.
func (r *Reader) parseStyles() error {
	data, err := r.getFileContent("word/styles.xml")
	if err != nil {
		return err
	}

	r.styles = &stylesXML{}
	return xml.Unmarshal(data, r.styles)
}

// parseNumbering parses the numbering definitions file.
func (r *Reader) parseNumbering() error {
	data, err := r.getFileContent("word/numbering.xml")
	if err != nil {
		return err
	}

	r.numbering = &numberingXML{}
	return xml.Unmarshal(data, r.numbering)
}

// parseCoreProperties parses Dublin Core metadata.
func (r *Reader) parseCoreProperties() {
	data, err := r.getFileContent("docProps/core.xml")
	if err != nil {
		return
	}

	props := &corePropertiesXML{}
	if xml.Unmarshal(data, props) == nil {
		r.coreProps = props
	}
}

// parseAppProperties parses application metadata.
func (r *Reader) parseAppProperties() {
	data, err := r.getFileContent("docProps/app.xml")
	if err != nil {
		return
	}

	props := &appPropertiesXML{}
	if xml.Unmarshal(data, props) == nil {
		r.appProps = props
	}
}

// numberingFor returns the numbering instance and level of p, looking
// through the paragraph style chain when the paragraph has none of its own.
// A numId of 0 switches numbering off.
func (r *Reader) numberingFor(p parsedParagraph) (string, int, bool) {
	if p.HasNum {
		return p.NumID, p.Level, p.NumID != "0"
	}

	styleID := p.StyleID
	for depth := 0; styleID != "" && depth < 10; depth++ {
		style := r.findStyle(styleID)
		if style == nil {
			break
		}
		if numID := style.PPr.NumPr.NumID.Val; numID != "" {
			level, _ := strconv.Atoi(style.PPr.NumPr.ILvl.Val)
			return numID, level, numID != "0"
		}
		styleID = style.BasedOn.Val
	}

	return "", 0, false
}

// findStyle returns the paragraph style with the given ID.
func (r *Reader) findStyle(id string) *styleDefXML {
	if r.styles == nil {
		return nil
	}
	for i := range r.styles.Styles {
		if r.styles.Styles[i].StyleID == id {
			return &r.styles.Styles[i]
		}
	}
	return nil
}

// parseW3CDate parses the dcterms date format used in core.xml.
func parseW3CDate(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
