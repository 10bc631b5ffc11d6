package quizbank

import (
	"github.com/tsawler/quizbank/format"
	"github.com/tsawler/quizbank/ocr"
	"github.com/tsawler/quizbank/parser"
)

// ExtractOptions holds configuration for question extraction.
type ExtractOptions struct {
	// Forced format; Unknown means detect
	format format.Format

	// Diagnostics from the parser
	sink parser.Sink

	// Reader options
	listLabels  bool   // render Word/ODF list numbering into paragraph text
	encoding    string // forced text encoding, "" detects
	ocrLanguage string
}

// defaultOptions returns the default extraction options.
func defaultOptions() ExtractOptions {
	return ExtractOptions{
		format:      format.Unknown,
		sink:        nil,
		listLabels:  false,
		encoding:    "",
		ocrLanguage: ocr.DefaultLanguage,
	}
}

// clone creates a copy of ExtractOptions.
func (o ExtractOptions) clone() ExtractOptions {
	return o
}
