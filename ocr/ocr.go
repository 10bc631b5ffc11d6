//go:build ocr

// Package ocr recognises the text of scanned exam pages with Tesseract.
//
// Tesseract and its language data must be installed:
//
//	brew install tesseract tesseract-lang
//	apt-get install tesseract-ocr tesseract-ocr-chi-sim
package ocr

import (
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Enabled reports whether recognition was compiled in.
const Enabled = true

// recognize runs Tesseract over a prepared image.
func recognize(data []byte, opts Options) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(strings.Split(opts.Language, "+")...); err != nil {
		return "", fmt.Errorf("setting OCR language %q: %w", opts.Language, err)
	}
	if err := client.SetPageSegMode(gosseract.PageSegMode(opts.PageSegMode)); err != nil {
		return "", fmt.Errorf("setting page segmentation: %w", err)
	}
	if err := client.SetImageFromBytes(data); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	return text, nil
}
