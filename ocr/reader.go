package ocr

import (
	"fmt"
	"os"
	"strings"

	"github.com/tsawler/quizbank/model"
)

// Reader holds the recognised lines of one image.
type Reader struct {
	lines []string
	opts  Options
}

// Open recognises the image at filename with DefaultOptions.
func Open(filename string) (*Reader, error) {
	return OpenWithOptions(filename, DefaultOptions())
}

// OpenWithLanguage recognises the image at filename in language, keeping
// the other defaults.
func OpenWithLanguage(filename, language string) (*Reader, error) {
	opts := DefaultOptions()
	if language != "" {
		opts.Language = language
	}
	return OpenWithOptions(filename, opts)
}

// OpenWithOptions recognises the image at filename. Without the ocr build
// tag it returns ErrOCRNotEnabled.
func OpenWithOptions(filename string, opts Options) (*Reader, error) {
	if opts.Language == "" {
		opts.Language = DefaultLanguage
	}
	if opts.PageSegMode == 0 {
		opts.PageSegMode = PSMSingleColumn
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	prepared, err := PrepareImage(data)
	if err != nil {
		return nil, err
	}

	text, err := recognize(prepared, opts)
	if err != nil {
		return nil, err
	}
	return &Reader{lines: splitLines(text), opts: opts}, nil
}

// Close releases resources associated with the Reader.
func (r *Reader) Close() error {
	return nil
}

// Paragraphs returns the recognised lines in reading order.
func (r *Reader) Paragraphs() []string {
	return append([]string(nil), r.lines...)
}

// Text returns the recognised lines joined by newlines.
func (r *Reader) Text() (string, error) {
	return strings.Join(r.lines, "\n"), nil
}

// Metadata reports the format and recognition language.
func (r *Reader) Metadata() model.Metadata {
	meta := model.NewMetadata("", "Image")
	meta.Custom["ocr.language"] = r.opts.Language
	return meta
}

// splitLines splits recognised text into lines. Tesseract separates blocks
// with blank lines; those are kept.
func splitLines(text string) []string {
	text = strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n"))
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
