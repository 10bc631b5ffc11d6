package quizbank

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tsawler/quizbank/docx"
	"github.com/tsawler/quizbank/epubdoc"
	"github.com/tsawler/quizbank/format"
	"github.com/tsawler/quizbank/htmldoc"
	"github.com/tsawler/quizbank/model"
	"github.com/tsawler/quizbank/ocr"
	"github.com/tsawler/quizbank/odt"
	"github.com/tsawler/quizbank/parser"
	"github.com/tsawler/quizbank/textdoc"
)

// documentReader is the part of every format reader the Extractor needs.
type documentReader interface {
	Paragraphs() []string
	Metadata() model.Metadata
	Close() error
}

// Extractor provides a fluent interface for extracting questions from DOCX,
// ODT, HTML, EPUB, plain-text, CSV and image files. Each configuration method
// returns a new Extractor instance, making it safe for concurrent use and
// allowing method chaining.
type Extractor struct {
	// Source
	filename string

	// Content supplied by FromParagraphs
	paragraphs []string
	metadata   model.Metadata
	loaded     bool

	// Configuration
	options ExtractOptions
}

// clone creates a shallow copy of the Extractor with a copy of options.
// Supplied paragraphs are shared; they are never modified.
func (e *Extractor) clone() *Extractor {
	return &Extractor{
		filename:   e.filename,
		paragraphs: e.paragraphs,
		metadata:   e.metadata,
		loaded:     e.loaded,
		options:    e.options.clone(),
	}
}

// ============================================================================
// Configuration Methods (return new Extractor instance)
// ============================================================================

// Format skips detection and reads the source as f. It has no effect on an
// Extractor created by FromParagraphs.
//
// Example:
//
//	qs, _, err := quizbank.Open("export.dat").Format(format.CSV).Questions()
func (e *Extractor) Format(f format.Format) *Extractor {
	newExt := e.clone()
	newExt.options.format = f
	return newExt
}

// WithSink sends parser diagnostics to s in addition to the counts reported
// as warnings.
func (e *Extractor) WithSink(s parser.Sink) *Extractor {
	newExt := e.clone()
	newExt.options.sink = s
	return newExt
}

// ListLabels renders automatic list numbering ("1.", "A.") into DOCX and
// ODT paragraphs. Documents whose question numbers come from Word's list
// feature need this to be parsed at all.
func (e *Extractor) ListLabels() *Extractor {
	newExt := e.clone()
	newExt.options.listLabels = true
	return newExt
}

// Encoding forces the character set of plain-text and CSV sources, for
// example "gbk" or "utf-16le". "" and "auto" detect it.
func (e *Extractor) Encoding(name string) *Extractor {
	newExt := e.clone()
	newExt.options.encoding = name
	return newExt
}

// OCRLanguage sets the Tesseract language list for image sources, for
// example "chi_sim+eng".
func (e *Extractor) OCRLanguage(lang string) *Extractor {
	newExt := e.clone()
	if lang != "" {
		newExt.options.ocrLanguage = lang
	}
	return newExt
}

// ============================================================================
// Terminal Operations
// ============================================================================

// Paragraphs returns the document's paragraphs in order, blanks included.
func (e *Extractor) Paragraphs() ([]string, []Warning, error) {
	paragraphs, _, err := e.content()
	if err != nil {
		return nil, nil, err
	}
	return append([]string(nil), paragraphs...), nil, nil
}

// Questions parses the document into questions in document order.
//
// Returns the questions, warnings counting each kind of irregularity found,
// and an error only when the source cannot be read as a document.
//
// Example:
//
//	qs, warnings, err := quizbank.Open("exam.docx").Questions()
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", quizbank.FormatWarnings(warnings))
//	}
func (e *Extractor) Questions() ([]model.Question, []Warning, error) {
	paragraphs, _, err := e.content()
	if err != nil {
		return nil, nil, err
	}

	diags := &parser.Collector{}
	p := parser.New(parser.WithSink(parser.Tee(diags, e.options.sink)))
	questions := p.Parse(paragraphs)

	return questions, collectWarnings(questions, diags), nil
}

// Bank parses the document into a practice bank positioned on the first
// question.
func (e *Extractor) Bank() (*model.Bank, []Warning, error) {
	questions, warnings, err := e.Questions()
	if err != nil {
		return nil, nil, err
	}
	return model.NewBank(questions, e.filename), warnings, nil
}

// Metadata returns the document's metadata. Source is set to the path the
// Extractor was opened with.
func (e *Extractor) Metadata() (model.Metadata, error) {
	_, meta, err := e.content()
	return meta, err
}

// ============================================================================
// Loading
// ============================================================================

// content returns the paragraphs and metadata of the source. Files are read
// afresh by every terminal operation; the Extractor itself is never
// modified.
func (e *Extractor) content() ([]string, model.Metadata, error) {
	if e.loaded {
		return e.paragraphs, e.metadata, nil
	}
	if e.filename == "" {
		return nil, model.Metadata{}, &SourceNotFoundError{Err: errors.New("no filename specified")}
	}

	if err := checkSource(e.filename); err != nil {
		return nil, model.Metadata{}, err
	}

	f, err := e.detectFormat()
	if err != nil {
		return nil, model.Metadata{}, err
	}

	r, err := e.openReader(f)
	if err != nil {
		return nil, model.Metadata{}, &DocumentFormatError{Path: e.filename, Err: err}
	}
	defer r.Close()

	meta := r.Metadata()
	meta.Source = e.filename
	if meta.Custom == nil {
		meta.Custom = make(map[string]string)
	}
	return r.Paragraphs(), meta, nil
}

// checkSource verifies that path names a readable regular file.
func checkSource(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return &SourceNotFoundError{Path: path, Err: err}
	}
	if info.IsDir() {
		return &SourceNotFoundError{Path: path, Err: errors.New("is a directory")}
	}
	f, err := os.Open(path)
	if err != nil {
		return &SourceNotFoundError{Path: path, Err: err}
	}
	return f.Close()
}

// detectFormat resolves the format from the forced option, the extension,
// then the content.
func (e *Extractor) detectFormat() (format.Format, error) {
	if e.options.format != format.Unknown {
		return e.options.format, nil
	}
	if f := format.Detect(e.filename); f != format.Unknown {
		return f, nil
	}

	file, err := os.Open(e.filename)
	if err != nil {
		return format.Unknown, &SourceNotFoundError{Path: e.filename, Err: err}
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return format.Unknown, &SourceNotFoundError{Path: e.filename, Err: err}
	}
	f, err := format.DetectFromReader(file, info.Size())
	if err != nil {
		return format.Unknown, &DocumentFormatError{Path: e.filename, Err: err}
	}
	if f == format.Unknown {
		return format.Unknown, &DocumentFormatError{
			Path: e.filename,
			Err:  fmt.Errorf("cannot determine format of %q", filepath.Base(e.filename)),
		}
	}
	return f, nil
}

func (e *Extractor) openReader(f format.Format) (documentReader, error) {
	switch f {
	case format.DOCX:
		r, err := docx.OpenWithOptions(e.filename, docx.Options{ListLabels: e.options.listLabels})
		if err != nil {
			return nil, fmt.Errorf("failed to open DOCX: %w", err)
		}
		return r, nil

	case format.ODT:
		r, err := odt.OpenWithOptions(e.filename, odt.Options{ListLabels: e.options.listLabels})
		if err != nil {
			return nil, fmt.Errorf("failed to open ODT: %w", err)
		}
		return r, nil

	case format.HTML:
		r, err := htmldoc.Open(e.filename)
		if err != nil {
			return nil, fmt.Errorf("failed to open HTML: %w", err)
		}
		return r, nil

	case format.EPUB:
		r, err := epubdoc.Open(e.filename)
		if err != nil {
			return nil, fmt.Errorf("failed to open EPUB: %w", err)
		}
		return r, nil

	case format.Text, format.CSV:
		opts := textdoc.Options{Encoding: e.options.encoding, CSV: f == format.CSV}
		if strings.EqualFold(filepath.Ext(e.filename), ".tsv") {
			opts.Comma = '\t'
		}
		r, err := textdoc.OpenWithOptions(e.filename, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", f, err)
		}
		return r, nil

	case format.Image:
		r, err := ocr.OpenWithLanguage(e.filename, e.options.ocrLanguage)
		if err != nil {
			return nil, fmt.Errorf("failed to recognise image: %w", err)
		}
		return r, nil

	default:
		return nil, fmt.Errorf("unsupported file format: %s", f)
	}
}
