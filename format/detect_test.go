package format

import (
	"archive/zip"
	"bytes"
	"testing"
)

func TestFormat_String(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{DOCX, "DOCX"},
		{ODT, "ODT"},
		{HTML, "HTML"},
		{Text, "Text"},
		{CSV, "CSV"},
		{Image, "Image"},
		{EPUB, "EPUB"},
		{Unknown, "Unknown"},
		{Format(99), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.format.String(); got != tt.want {
			t.Errorf("Format(%d).String() = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestFormat_Extension(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{DOCX, ".docx"},
		{ODT, ".odt"},
		{HTML, ".html"},
		{Text, ".txt"},
		{CSV, ".csv"},
		{Image, ".png"},
		{EPUB, ".epub"},
		{Unknown, ""},
	}

	for _, tt := range tests {
		if got := tt.format.Extension(); got != tt.want {
			t.Errorf("Format(%d).Extension() = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		filename string
		want     Format
	}{
		{"exam.docx", DOCX},
		{"EXAM.DOCX", DOCX},
		{"exam.odt", ODT},
		{"exam.epub", EPUB},
		{"exam.htm", HTML},
		{"exam.html", HTML},
		{"exam.txt", Text},
		{"bank.csv", CSV},
		{"bank.tsv", CSV},
		{"scan.JPEG", Image},
		{"scan.webp", Image},
		{"exam.pdf", Unknown},
		{"exam.doc", Unknown},
		{"noextension", Unknown},
		{"/path/to/exam.docx", DOCX},
	}

	for _, tt := range tests {
		if got := Detect(tt.filename); got != tt.want {
			t.Errorf("Detect(%q) = %v, want %v", tt.filename, got, tt.want)
		}
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"docx", DOCX},
		{"ODT", ODT},
		{" text ", Text},
		{"txt", Text},
		{".htm", HTML},
		{"csv", CSV},
		{"image", Image},
		{"jpg", Image},
		{"", Unknown},
		{"pdf", Unknown},
	}

	for _, tt := range tests {
		if got := Parse(tt.in); got != tt.want {
			t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDetectFromMagic(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Format
	}{
		{"png", []byte("\x89PNG\r\n\x1a\n0000"), Image},
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0}, Image},
		{"tiff", []byte("II*\x00rest"), Image},
		{"webp", []byte("RIFF\x00\x00\x00\x00WEBPVP8 "), Image},
		{"doctype", []byte("  <!doctype html><html>"), HTML},
		{"html tag", []byte("<HTML><body>"), HTML},
		{"xhtml", []byte(`<?xml version="1.0"?><html xmlns="http://www.w3.org/1999/xhtml">`), HTML},
		{"zip", []byte("PK\x03\x04rest"), Unknown},
		{"text", []byte("1. Q（）\nA. x\n"), Text},
		{"utf16", []byte{0xFF, 0xFE, '1', 0x00}, Text},
		{"binary", []byte{0x00, 0x01, 0x02, 0x03}, Unknown},
		{"empty", nil, Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectFromMagic(tt.data); got != tt.want {
				t.Errorf("DetectFromMagic() = %v, want %v", got, tt.want)
			}
		})
	}
}

func createZIP(t *testing.T, files map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("failed to create %s: %v", name, err)
		}
		w.Write([]byte(content))
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close zip: %v", err)
	}
	return buf.Bytes()
}

func TestDetectFromReader(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Format
	}{
		{"docx", createZIP(t, map[string]string{"[Content_Types].xml": "x", "word/document.xml": "x"}), DOCX},
		{"odt", createZIP(t, map[string]string{"mimetype": "application/vnd.oasis.opendocument.text", "content.xml": "x"}), ODT},
		{"epub", createZIP(t, map[string]string{"mimetype": "application/epub+zip", "META-INF/container.xml": "x"}), EPUB},
		{"epub without mimetype", createZIP(t, map[string]string{"META-INF/container.xml": "x"}), EPUB},
		{"xlsx", createZIP(t, map[string]string{"[Content_Types].xml": "x", "xl/workbook.xml": "x"}), Unknown},
		{"html", []byte("<!DOCTYPE html><p>x</p>"), HTML},
		{"text", []byte("答案：A"), Text},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectFromReader(bytes.NewReader(tt.data), int64(len(tt.data)))
			if err != nil {
				t.Fatalf("DetectFromReader() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("DetectFromReader() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectFromReader_CorruptZIP(t *testing.T) {
	data := []byte("PK\x03\x04 truncated archive")
	if _, err := DetectFromReader(bytes.NewReader(data), int64(len(data))); err == nil {
		t.Error("expected error for corrupt ZIP")
	}
}
