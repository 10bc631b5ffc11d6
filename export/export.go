// Package export writes parsed questions as JSON, JSON Lines, YAML, CSV or
// Markdown.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tsawler/quizbank/model"
)

// Format defines the available export formats.
type Format int

const (
	// FormatJSON exports a JSON array.
	FormatJSON Format = iota
	// FormatJSONL exports JSON Lines, one question per line.
	FormatJSONL
	// FormatYAML exports a YAML sequence.
	FormatYAML
	// FormatCSV exports one row per question with a column per option.
	FormatCSV
	// FormatMarkdown exports a readable question sheet.
	FormatMarkdown
)

// String returns a human-readable representation of the export format.
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatJSONL:
		return "jsonl"
	case FormatYAML:
		return "yaml"
	case FormatCSV:
		return "csv"
	case FormatMarkdown:
		return "markdown"
	default:
		return "unknown"
	}
}

// FileExtension returns the typical file extension for this format.
func (f Format) FileExtension() string {
	switch f {
	case FormatJSON:
		return ".json"
	case FormatJSONL:
		return ".jsonl"
	case FormatYAML:
		return ".yaml"
	case FormatCSV:
		return ".csv"
	case FormatMarkdown:
		return ".md"
	default:
		return ".txt"
	}
}

// ParseFormat returns the format named by name, case-insensitively.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return FormatJSON, nil
	case "jsonl", "ndjson":
		return FormatJSONL, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	}
	return FormatJSON, fmt.Errorf("unsupported export format: %q", name)
}

// Options holds configuration for export.
type Options struct {
	// Redact hides bracketed answers in question text.
	Redact bool

	// Indent pretty-prints JSON output.
	Indent bool
}

// prepare copies questions, applying redaction when requested.
func prepare(questions []model.Question, opts Options) []model.Question {
	out := make([]model.Question, len(questions))
	for i, q := range questions {
		out[i] = q.Clone()
		if opts.Redact {
			out[i].Text, _ = q.DisplayText()
		}
		if out[i].Options == nil {
			out[i].Options = []string{}
		}
	}
	return out
}

// Write exports questions to w in format f.
func Write(w io.Writer, f Format, questions []model.Question, opts Options) error {
	switch f {
	case FormatJSON:
		return JSON(w, questions, opts)
	case FormatJSONL:
		return JSONL(w, questions, opts)
	case FormatYAML:
		return YAML(w, questions, opts)
	case FormatCSV:
		return CSV(w, questions, opts)
	case FormatMarkdown:
		return Markdown(w, questions, opts)
	default:
		return fmt.Errorf("unsupported export format: %v", f)
	}
}

// WriteFile exports questions to a file.
func WriteFile(filename string, f Format, questions []model.Question, opts Options) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	if err := Write(file, f, questions, opts); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// String exports questions to a string.
func String(f Format, questions []model.Question, opts Options) (string, error) {
	var buf bytes.Buffer
	if err := Write(&buf, f, questions, opts); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// JSON exports questions as a JSON array.
func JSON(w io.Writer, questions []model.Question, opts Options) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	if opts.Indent {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(prepare(questions, opts))
}

// JSONL exports questions as JSON Lines.
func JSONL(w io.Writer, questions []model.Question, opts Options) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	for i, q := range prepare(questions, opts) {
		if err := encoder.Encode(q); err != nil {
			return fmt.Errorf("encoding question %d: %w", i+1, err)
		}
	}
	return nil
}

// YAML exports questions as a YAML sequence.
func YAML(w io.Writer, questions []model.Question, opts Options) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(prepare(questions, opts)); err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}
	return encoder.Close()
}

// csvHeader lists the CSV columns. Options beyond D are not exported.
var csvHeader = []string{"text", "a", "b", "c", "d", "answer", "explanation"}

// CSV exports one row per question.
func CSV(w io.Writer, questions []model.Question, opts Options) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, q := range prepare(questions, opts) {
		row := make([]string, 0, len(csvHeader))
		row = append(row, q.Text)
		for letter := 'A'; letter <= 'D'; letter++ {
			row = append(row, q.Option(string(letter)))
		}
		row = append(row, q.Answer, q.Explanation)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing question %d: %w", i+1, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Markdown exports a readable question sheet.
func Markdown(w io.Writer, questions []model.Question, opts Options) error {
	var sb strings.Builder
	for i, q := range prepare(questions, opts) {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "### Question %d\n\n", i+1)
		sb.WriteString(strings.ReplaceAll(q.Text, "\n", "  \n"))
		sb.WriteString("\n\n")

		for _, opt := range q.Options {
			sb.WriteString("- ")
			sb.WriteString(opt)
			sb.WriteString("\n")
		}
		if len(q.Options) > 0 {
			sb.WriteString("\n")
		}

		answer := q.Answer
		if answer == "" {
			answer = "?"
		}
		fmt.Fprintf(&sb, "**Answer:** %s\n", answer)
		if q.Explanation != "" {
			fmt.Fprintf(&sb, "\n**Explanation:** %s\n", q.Explanation)
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
