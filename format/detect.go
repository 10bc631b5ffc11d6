// Package format detects which kind of exam document a file holds.
package format

import (
	"archive/zip"
	"bytes"
	"io"
	"path/filepath"
	"strings"
)

// Format represents a supported document format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// DOCX indicates a Microsoft Word (.docx) document.
	DOCX
	// ODT indicates an OpenDocument Text (.odt) document.
	ODT
	// HTML indicates an HTML document.
	HTML
	// Text indicates a plain-text document, one paragraph per line.
	Text
	// CSV indicates comma-separated values, one paragraph per cell.
	CSV
	// Image indicates a scanned page read through OCR.
	Image
	// EPUB indicates an EPUB e-book of XHTML chapters.
	EPUB
)

var formatNames = map[Format]string{
	DOCX:  "DOCX",
	ODT:   "ODT",
	HTML:  "HTML",
	Text:  "Text",
	CSV:   "CSV",
	Image: "Image",
	EPUB:  "EPUB",
}

// String returns the string representation of the format.
func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return "Unknown"
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case DOCX:
		return ".docx"
	case ODT:
		return ".odt"
	case HTML:
		return ".html"
	case Text:
		return ".txt"
	case CSV:
		return ".csv"
	case Image:
		return ".png"
	case EPUB:
		return ".epub"
	default:
		return ""
	}
}

// Parse returns the format named by s, case-insensitively. Both format
// names ("docx") and extensions (".htm") are accepted.
func Parse(s string) Format {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Unknown
	}
	if !strings.HasPrefix(s, ".") {
		for f, name := range formatNames {
			if strings.ToLower(name) == s {
				return f
			}
		}
		s = "." + s
	}
	return Detect("file" + s)
}

// Detect determines file format from filename extension.
func Detect(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".docx":
		return DOCX
	case ".odt":
		return ODT
	case ".html", ".htm", ".xhtml":
		return HTML
	case ".txt", ".text", ".md":
		return Text
	case ".csv", ".tsv":
		return CSV
	case ".png", ".jpg", ".jpeg", ".tif", ".tiff", ".bmp", ".webp":
		return Image
	case ".epub":
		return EPUB
	default:
		return Unknown
	}
}

// DetectFromMagic checks file magic bytes to determine format.
// ZIP archives return Unknown; use DetectFromReader to look inside them.
func DetectFromMagic(data []byte) Format {
	switch {
	case isZIP(data):
		return Unknown
	case isImage(data):
		return Image
	case detectHTMLMagic(data):
		return HTML
	case looksLikeText(data):
		return Text
	}
	return Unknown
}

// DetectFromReader inspects the content to determine format. It can tell
// DOCX from ODT and other ZIP-based formats.
func DetectFromReader(r io.ReaderAt, size int64) (Format, error) {
	magic := make([]byte, 512)
	n, err := r.ReadAt(magic, 0)
	if err != nil && err != io.EOF {
		return Unknown, err
	}
	magic = magic[:n]

	if isZIP(magic) {
		return detectZIPFormat(r, size)
	}
	return DetectFromMagic(magic), nil
}

func isZIP(data []byte) bool {
	return bytes.HasPrefix(data, []byte("PK\x03\x04"))
}

// isImage recognises PNG, JPEG, TIFF, BMP and WebP signatures.
func isImage(data []byte) bool {
	switch {
	case bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return true
	case bytes.HasPrefix(data, []byte{0xFF, 0xD8, 0xFF}):
		return true
	case bytes.HasPrefix(data, []byte("II*\x00")), bytes.HasPrefix(data, []byte("MM\x00*")):
		return true
	case len(data) >= 14 && bytes.HasPrefix(data, []byte("BM")) && bytes.Equal(data[6:10], []byte{0, 0, 0, 0}):
		// BMP: the four reserved header bytes are zero
		return true
	case len(data) >= 12 && bytes.HasPrefix(data, []byte("RIFF")) && string(data[8:12]) == "WEBP":
		return true
	}
	return false
}

// detectHTMLMagic checks if the data looks like HTML content.
func detectHTMLMagic(data []byte) bool {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	data = bytes.TrimLeft(data, " \t\r\n")
	if len(data) == 0 {
		return false
	}

	upper := strings.ToUpper(string(data[:min(len(data), 512)]))
	switch {
	case strings.HasPrefix(upper, "<!DOCTYPE HTML"), strings.HasPrefix(upper, "<HTML"):
		return true
	case strings.HasPrefix(upper, "<?XML") && strings.Contains(upper, "<HTML"):
		// XHTML
		return true
	}
	return false
}

// looksLikeText reports whether data is plausibly text: a UTF-16 byte order
// mark, or no NUL bytes.
func looksLikeText(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	if bytes.HasPrefix(data, []byte{0xFF, 0xFE}) || bytes.HasPrefix(data, []byte{0xFE, 0xFF}) {
		return true
	}
	return bytes.IndexByte(data, 0) < 0
}

// detectZIPFormat inspects a ZIP archive to determine if it's DOCX, ODT or
// EPUB.
func detectZIPFormat(r io.ReaderAt, size int64) (Format, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return Unknown, err
	}

	// OpenDocument stores its mimetype in a file at the start
	for _, f := range zr.File {
		if f.Name != "mimetype" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			continue
		}
		data := make([]byte, 256)
		n, _ := io.ReadFull(rc, data)
		rc.Close()
		mimetype := strings.TrimSpace(string(data[:n]))
		switch {
		case strings.HasPrefix(mimetype, "application/vnd.oasis.opendocument.text"):
			return ODT, nil
		case mimetype == "application/epub+zip":
			return EPUB, nil
		}
	}

	for _, f := range zr.File {
		switch f.Name {
		case "word/document.xml":
			return DOCX, nil
		case "META-INF/container.xml":
			return EPUB, nil
		}
	}

	return Unknown, nil
}
