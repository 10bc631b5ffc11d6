// Package quizbank provides a fluent API for turning exam documents into
// multiple-choice questions.
//
// Basic usage:
//
//	questions, warnings, err := quizbank.Open("exam.docx").Questions()
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", quizbank.FormatWarnings(warnings))
//	}
//
// With options:
//
//	bank, _, err := quizbank.Open("scan.png").
//	    OCRLanguage("chi_sim").
//	    WithSink(collector).
//	    Bank()
//
// For lower-level control the parser, classify and reader packages are
// available directly.
package quizbank

import "github.com/tsawler/quizbank/model"

// Open returns an Extractor for the document at filename. The format is
// detected from the extension, then from the content.
//
// Example:
//
//	questions, warnings, err := quizbank.Open("exam.docx").Questions()
func Open(filename string) *Extractor {
	return &Extractor{
		filename: filename,
		options:  defaultOptions(),
	}
}

// FromParagraphs returns an Extractor over paragraphs that were already
// extracted by the caller.
//
// Example:
//
//	questions, _, err := quizbank.FromParagraphs(lines).Questions()
func FromParagraphs(paragraphs []string) *Extractor {
	return &Extractor{
		paragraphs: append([]string(nil), paragraphs...),
		metadata:   model.NewMetadata("", "Paragraphs"),
		loaded:     true,
		options:    defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	meta := quizbank.Must(quizbank.Open("exam.docx").Metadata())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustQuestions wraps a call to Questions, Paragraphs or Bank and panics if
// the error is non-nil. Warnings are discarded.
//
// Example:
//
//	questions := quizbank.MustQuestions(quizbank.Open("exam.docx").Questions())
func MustQuestions[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
