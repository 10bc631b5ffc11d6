// Package textdoc reads plain-text and CSV exam files as paragraphs.
//
// Plain text yields one paragraph per line. CSV yields one paragraph per
// non-empty cell, row by row, which suits question banks exported from
// spreadsheets with the prompt, options and answer in separate columns.
//
// Bytes are decoded before splitting: a byte order mark selects UTF-8 or
// UTF-16, valid UTF-8 is taken as is, and anything else is read as GB18030.
// A forced encoding accepts any WHATWG label ("gbk", "big5", "utf-16le").
// Decoded text is normalised to NFC.
package textdoc

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/tsawler/quizbank/model"
)

// ErrUnknownEncoding is returned when a forced encoding name is not recognised.
var ErrUnknownEncoding = errors.New("textdoc: unknown encoding")

// Options controls decoding and splitting.
type Options struct {
	// Encoding forces a character set. "" and "auto" detect it.
	Encoding string

	// CSV splits rows into cells.
	CSV bool

	// Comma is the CSV field delimiter; zero means ','.
	Comma rune
}

// Reader holds the decoded paragraphs of one file.
type Reader struct {
	paragraphs []string
	encoding   string
	csv        bool
}

// Open reads a plain-text file with automatic encoding detection.
func Open(filename string) (*Reader, error) {
	return OpenWithOptions(filename, Options{})
}

// OpenWithOptions reads a file.
func OpenWithOptions(filename string, opts Options) (*Reader, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	return OpenReader(f, opts)
}

// OpenReader reads text from r.
func OpenReader(r io.Reader, opts Options) (*Reader, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading text: %w", err)
	}

	text, name, err := decode(data, opts.Encoding)
	if err != nil {
		return nil, err
	}
	text = norm.NFC.String(text)

	reader := &Reader{encoding: name, csv: opts.CSV}
	if opts.CSV {
		reader.paragraphs, err = splitCSV(text, opts.Comma)
		if err != nil {
			return nil, fmt.Errorf("parsing CSV: %w", err)
		}
	} else {
		reader.paragraphs = splitLines(text)
	}

	return reader, nil
}

// Close releases resources associated with the Reader.
func (r *Reader) Close() error {
	return nil
}

// Paragraphs returns the lines, or the non-empty cells in CSV mode.
func (r *Reader) Paragraphs() []string {
	return append([]string(nil), r.paragraphs...)
}

// Text returns the paragraphs joined by newlines.
func (r *Reader) Text() (string, error) {
	return strings.Join(r.paragraphs, "\n"), nil
}

// Encoding returns the name of the character set the bytes were decoded from.
func (r *Reader) Encoding() string {
	return r.encoding
}

// Metadata reports the format and the detected encoding.
func (r *Reader) Metadata() model.Metadata {
	format := "Text"
	if r.csv {
		format = "CSV"
	}
	meta := model.NewMetadata("", format)
	meta.Custom["encoding"] = r.encoding
	return meta
}

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// decode converts data to UTF-8 and returns the encoding name used.
func decode(data []byte, forced string) (string, string, error) {
	switch strings.ToLower(strings.TrimSpace(forced)) {
	case "", "auto":
	default:
		enc, err := htmlindex.Get(forced)
		if err != nil {
			return "", "", fmt.Errorf("%w: %q", ErrUnknownEncoding, forced)
		}
		name, _ := htmlindex.Name(enc)
		text, err := decodeWith(enc, data)
		return text, name, err
	}

	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return string(data[len(bomUTF8):]), "utf-8", nil
	case bytes.HasPrefix(data, bomUTF16LE), bytes.HasPrefix(data, bomUTF16BE):
		text, err := decodeWith(unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM), data)
		return text, "utf-16", err
	case utf8.Valid(data):
		return string(data), "utf-8", nil
	default:
		text, err := decodeWith(simplifiedchinese.GB18030, data)
		return text, "gb18030", err
	}
}

func decodeWith(enc encoding.Encoding, data []byte) (string, error) {
	out, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return "", fmt.Errorf("decoding text: %w", err)
	}
	return strings.TrimPrefix(string(out), "\ufeff"), nil
}

// splitLines splits on LF, CRLF and CR line endings. Blank lines are kept.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.TrimSuffix(text, "\n")
	return strings.Split(text, "\n")
}

// splitCSV returns every non-empty cell, row by row.
func splitCSV(text string, comma rune) ([]string, error) {
	cr := csv.NewReader(strings.NewReader(text))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	if comma != 0 {
		cr.Comma = comma
	}

	var out []string
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		for _, cell := range record {
			if cell = strings.TrimSpace(cell); cell != "" {
				out = append(out, cell)
			}
		}
	}
	return out, nil
}
