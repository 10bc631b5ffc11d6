//go:build !ocr

// Package ocr recognises the text of scanned exam pages with Tesseract.
//
// This build has no recognition: Open returns ErrOCRNotEnabled. Image
// preparation still works. Rebuild with -tags ocr to enable it.
package ocr

// Enabled reports whether recognition was compiled in.
const Enabled = false

func recognize([]byte, Options) (string, error) {
	return "", ErrOCRNotEnabled
}
