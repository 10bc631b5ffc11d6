package ocr

import "errors"

// ErrOCRNotEnabled is returned when recognition was not compiled in.
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// ErrUnsupportedImage is returned for image data no registered decoder reads.
var ErrUnsupportedImage = errors.New("ocr: unsupported image format")

// PageSegMode is a Tesseract page segmentation mode.
type PageSegMode int

// Page segmentation modes, numbered as in Tesseract.
const (
	PSMAuto         PageSegMode = 3
	PSMSingleColumn PageSegMode = 4
	PSMSingleBlock  PageSegMode = 6
	PSMSparseText   PageSegMode = 11
)

// DefaultLanguage recognises simplified Chinese with English.
const DefaultLanguage = "chi_sim+eng"

// Options controls recognition.
type Options struct {
	// Language is one or more Tesseract languages joined by "+".
	Language string

	// PageSegMode defaults to PSMSingleColumn: exam pages are one column of
	// numbered items whose line order must survive.
	PageSegMode PageSegMode
}

// DefaultOptions returns the options used by Open.
func DefaultOptions() Options {
	return Options{Language: DefaultLanguage, PageSegMode: PSMSingleColumn}
}
