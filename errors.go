package quizbank

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceNotFound matches every *SourceNotFoundError.
	ErrSourceNotFound = errors.New("source not found")

	// ErrDocumentFormat matches every *DocumentFormatError.
	ErrDocumentFormat = errors.New("unsupported document format")
)

// SourceNotFoundError reports a path that does not resolve to a readable
// file: it is missing, a directory, or cannot be opened.
type SourceNotFoundError struct {
	Path string
	Err  error
}

func (e *SourceNotFoundError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("source not found: %s", e.Path)
	}
	return fmt.Sprintf("source not found: %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying cause.
func (e *SourceNotFoundError) Unwrap() error { return e.Err }

// Is reports whether target is ErrSourceNotFound.
func (e *SourceNotFoundError) Is(target error) bool { return target == ErrSourceNotFound }

// DocumentFormatError reports content that was read but is not a supported
// or decodable document.
type DocumentFormatError struct {
	Path string
	Err  error
}

func (e *DocumentFormatError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("unsupported document format: %s", e.Path)
	}
	return fmt.Sprintf("unsupported document format: %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying cause.
func (e *DocumentFormatError) Unwrap() error { return e.Err }

// Is reports whether target is ErrDocumentFormat.
func (e *DocumentFormatError) Is(target error) bool { return target == ErrDocumentFormat }
