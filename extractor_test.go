package quizbank

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tsawler/quizbank/format"
	"github.com/tsawler/quizbank/parser"
)

// writeFile creates name in a temp dir with content and returns its path.
func writeFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

// writeDOCX creates a minimal DOCX whose body holds one paragraph per line.
func writeDOCX(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "exam.docx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create docx: %v", err)
	}
	defer f.Close()

	var body strings.Builder
	for _, l := range lines {
		body.WriteString(`<w:p><w:r><w:t xml:space="preserve">` + l + `</w:t></w:r></w:p>`)
	}

	zw := zip.NewWriter(f)
	parts := map[string]string{
		"[Content_Types].xml": `<?xml version="1.0" encoding="UTF-8"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`,
		"word/document.xml": `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
			body.String() + `</w:body></w:document>`,
	}
	for name, data := range parts {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("failed to create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(data)); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close zip: %v", err)
	}
	return path
}

const sampleExam = "Fund exam practice set\n" +
	"1. Fruit includes（）\n" +
	"A. Apple\n" +
	"B. Rock\n" +
	"答案：A\n" +
	"2. Pick one (B)\n" +
	"A. x\n" +
	"B. y\n"

func TestOpen_NotFound(t *testing.T) {
	_, _, err := Open(filepath.Join(t.TempDir(), "missing.docx")).Questions()
	if !errors.Is(err, ErrSourceNotFound) {
		t.Fatalf("expected ErrSourceNotFound, got %v", err)
	}
	var snf *SourceNotFoundError
	if !errors.As(err, &snf) || !strings.HasSuffix(snf.Path, "missing.docx") {
		t.Errorf("expected SourceNotFoundError with path, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Error("expected underlying os.ErrNotExist")
	}
}

func TestOpen_Directory(t *testing.T) {
	_, _, err := Open(t.TempDir()).Questions()
	if !errors.Is(err, ErrSourceNotFound) {
		t.Errorf("expected ErrSourceNotFound for directory, got %v", err)
	}
}

func TestOpen_EmptyFilename(t *testing.T) {
	_, err := Open("").Metadata()
	if !errors.Is(err, ErrSourceNotFound) {
		t.Errorf("expected ErrSourceNotFound, got %v", err)
	}
}

func TestOpen_UnknownFormat(t *testing.T) {
	path := writeFile(t, "blob.bin", []byte{0x00, 0x01, 0x02, 0x03})

	_, _, err := Open(path).Questions()
	if !errors.Is(err, ErrDocumentFormat) {
		t.Fatalf("expected ErrDocumentFormat, got %v", err)
	}
	if errors.Is(err, ErrSourceNotFound) {
		t.Error("format error should not match ErrSourceNotFound")
	}
	var dfe *DocumentFormatError
	if !errors.As(err, &dfe) || dfe.Path != path {
		t.Errorf("expected DocumentFormatError with path, got %v", err)
	}
}

func TestOpen_CorruptDOCX(t *testing.T) {
	path := writeFile(t, "broken.docx", []byte("this is not a zip archive"))

	_, _, err := Open(path).Questions()
	if !errors.Is(err, ErrDocumentFormat) {
		t.Errorf("expected ErrDocumentFormat, got %v", err)
	}
}

func TestOpen_UnknownEncoding(t *testing.T) {
	path := writeFile(t, "exam.txt", []byte(sampleExam))

	_, _, err := Open(path).Encoding("no-such-charset").Questions()
	if !errors.Is(err, ErrDocumentFormat) {
		t.Errorf("expected ErrDocumentFormat, got %v", err)
	}
}

func TestQuestions_Text(t *testing.T) {
	path := writeFile(t, "exam.txt", []byte(sampleExam))

	qs, warnings, err := Open(path).Questions()
	if err != nil {
		t.Fatalf("Questions() error: %v", err)
	}
	if len(qs) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(qs))
	}
	if qs[0].Answer != "A" || len(qs[0].Options) != 2 {
		t.Errorf("question 1 = %+v", qs[0])
	}
	if qs[1].Answer != "B" {
		t.Errorf("question 2 answer = %q, want B", qs[1].Answer)
	}

	// the title line is the only irregularity
	if len(warnings) != 1 || warnings[0].Kind != WarningOrphanedLines || warnings[0].Count != 1 {
		t.Errorf("unexpected warnings: %v", FormatWarnings(warnings))
	}
}

func TestQuestions_DOCX(t *testing.T) {
	path := writeDOCX(t, "1. Which is a fruit（A）", "A. Apple", "B. Rock", "解析：apples grow on trees")

	qs, _, err := Open(path).Questions()
	if err != nil {
		t.Fatalf("Questions() error: %v", err)
	}
	if len(qs) != 1 {
		t.Fatalf("expected 1 question, got %d", len(qs))
	}
	if qs[0].Answer != "A" || qs[0].Explanation != "apples grow on trees" {
		t.Errorf("question = %+v", qs[0])
	}
}

func TestQuestions_HTML(t *testing.T) {
	page := `<!DOCTYPE html><html><head><title>Mock exam</title></head>
<body><p>1. Which is a fruit（A）</p><p>A. Apple</p><p>B. Rock</p></body></html>`
	path := writeFile(t, "exam.html", []byte(page))

	qs, _, err := Open(path).Questions()
	if err != nil {
		t.Fatalf("Questions() error: %v", err)
	}
	if len(qs) != 1 || qs[0].Answer != "A" || len(qs[0].Options) != 2 {
		t.Errorf("questions = %+v", qs)
	}

	meta, err := Open(path).Metadata()
	if err != nil {
		t.Fatalf("Metadata() error: %v", err)
	}
	if meta.Title != "Mock exam" || meta.Format != "HTML" || meta.Source != path {
		t.Errorf("metadata = %+v", meta)
	}
}

// writeEPUB creates a one-chapter EPUB whose chapter body is body.
func writeEPUB(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "exam.epub")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create epub: %v", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	parts := []struct{ name, data string }{
		{"mimetype", "application/epub+zip"},
		{"META-INF/container.xml", `<container version="1.0"><rootfiles><rootfile full-path="content.opf" media-type="application/oebps-package+xml"/></rootfiles></container>`},
		{"content.opf", `<package version="3.0"><metadata><title>Mock exam</title></metadata>` +
			`<manifest><item id="c1" href="c1.xhtml" media-type="application/xhtml+xml"/></manifest>` +
			`<spine><itemref idref="c1"/></spine></package>`},
		{"c1.xhtml", `<html><body>` + body + `</body></html>`},
	}
	for _, p := range parts {
		w, err := zw.Create(p.name)
		if err != nil {
			t.Fatalf("failed to create %s: %v", p.name, err)
		}
		if _, err := w.Write([]byte(p.data)); err != nil {
			t.Fatalf("failed to write %s: %v", p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close zip: %v", err)
	}
	return path
}

func TestQuestions_EPUB(t *testing.T) {
	path := writeEPUB(t, `<p>1. Which is a fruit（）</p><p>A. Apple</p><p>B. Rock</p><p>答案：A</p>`)

	qs, _, err := Open(path).Questions()
	if err != nil {
		t.Fatalf("Questions() error: %v", err)
	}
	if len(qs) != 1 || qs[0].Answer != "A" || len(qs[0].Options) != 2 {
		t.Errorf("questions = %+v", qs)
	}

	meta, err := Open(path).Metadata()
	if err != nil {
		t.Fatalf("Metadata() error: %v", err)
	}
	if meta.Title != "Mock exam" || meta.Format != "EPUB" {
		t.Errorf("metadata = %+v", meta)
	}
}

func TestQuestions_CSV(t *testing.T) {
	path := writeFile(t, "exam.csv", []byte("1. Pick one（）,A. x,B. y,答案：B\n"))

	qs, _, err := Open(path).Questions()
	if err != nil {
		t.Fatalf("Questions() error: %v", err)
	}
	if len(qs) != 1 || qs[0].Answer != "B" || len(qs[0].Options) != 2 {
		t.Errorf("questions = %+v", qs)
	}
}

func TestQuestions_DetectFromContent(t *testing.T) {
	path := writeFile(t, "exam.dat", []byte(sampleExam))

	qs, _, err := Open(path).Questions()
	if err != nil {
		t.Fatalf("Questions() error: %v", err)
	}
	if len(qs) != 2 {
		t.Errorf("expected 2 questions, got %d", len(qs))
	}
}

func TestFormatOverride(t *testing.T) {
	path := writeFile(t, "exam.dat", []byte("1. Pick one（）,A. x,答案：A\n"))

	paras, _, err := Open(path).Format(format.CSV).Paragraphs()
	if err != nil {
		t.Fatalf("Paragraphs() error: %v", err)
	}
	if len(paras) != 3 {
		t.Errorf("expected 3 cells, got %q", paras)
	}
}

func TestFromParagraphs(t *testing.T) {
	lines := []string{"1. Q（）", "A. x", "B. y", "b"}
	ext := FromParagraphs(lines)
	lines[0] = "changed"

	qs, warnings, err := ext.Questions()
	if err != nil {
		t.Fatalf("Questions() error: %v", err)
	}
	if len(qs) != 1 || qs[0].Text != "1. Q（）" || qs[0].Answer != "B" {
		t.Errorf("questions = %+v", qs)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", FormatWarnings(warnings))
	}

	meta, err := ext.Metadata()
	if err != nil || meta.Format != "Paragraphs" {
		t.Errorf("Metadata() = %+v, %v", meta, err)
	}
}

func TestWarnings(t *testing.T) {
	qs, warnings, err := FromParagraphs([]string{
		"intro line",
		"1. Q1（A）",
		"A. x",
		"2. Q2",
	}).Questions()
	if err != nil {
		t.Fatalf("Questions() error: %v", err)
	}
	if len(qs) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(qs))
	}

	counts := make(map[WarningKind]int)
	for _, w := range warnings {
		counts[w.Kind] = w.Count
	}
	if counts[WarningUnresolved] != 1 {
		t.Errorf("unresolved = %d, want 1", counts[WarningUnresolved])
	}
	if counts[WarningNoOptions] != 1 {
		t.Errorf("no options = %d, want 1", counts[WarningNoOptions])
	}
	if counts[WarningOrphanedLines] != 1 {
		t.Errorf("orphaned = %d, want 1", counts[WarningOrphanedLines])
	}
	if _, ok := counts[WarningRedaction]; ok {
		t.Error("no redaction warning expected")
	}

	msg := FormatWarnings(warnings)
	if !strings.Contains(msg, "without an answer") || !strings.Contains(msg, "; ") {
		t.Errorf("FormatWarnings() = %q", msg)
	}
}

func TestWithSink(t *testing.T) {
	c := &parser.Collector{}
	_, _, err := FromParagraphs([]string{"1. Q", "A. x"}).WithSink(c).Questions()
	if err != nil {
		t.Fatalf("Questions() error: %v", err)
	}
	if c.Count(parser.EventHeadDetected) != 1 {
		t.Errorf("sink did not receive head event: %+v", c.Diagnostics())
	}
	if c.Count(parser.EventUnresolved) != 1 {
		t.Errorf("sink did not receive unresolved event: %+v", c.Diagnostics())
	}
}

func TestBank(t *testing.T) {
	path := writeFile(t, "exam.txt", []byte(sampleExam))

	bank, _, err := Open(path).Bank()
	if err != nil {
		t.Fatalf("Bank() error: %v", err)
	}
	if bank.Len() != 2 || bank.Source != path || bank.Index() != 0 {
		t.Errorf("bank = len %d source %q index %d", bank.Len(), bank.Source, bank.Index())
	}
}

func TestChainImmutability(t *testing.T) {
	base := Open("exam.docx")
	labelled := base.ListLabels().Encoding("gbk")
	csv := base.Format(format.CSV)

	if base.options.listLabels || base.options.encoding != "" {
		t.Error("base extractor should be unchanged")
	}
	if !labelled.options.listLabels || labelled.options.encoding != "gbk" {
		t.Error("labelled extractor should carry its options")
	}
	if csv.options.format != format.CSV || labelled.options.format != format.Unknown {
		t.Error("format should only be set on the derived extractor")
	}
	if base.OCRLanguage("").options.ocrLanguage == "" {
		t.Error("empty OCR language should keep the default")
	}
}

func TestMust(t *testing.T) {
	result := Must("hello", nil)
	if result != "hello" {
		t.Errorf("expected 'hello', got %q", result)
	}

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected Must to panic on error")
		}
	}()
	Must("", os.ErrNotExist)
}

func TestMustQuestions(t *testing.T) {
	qs := MustQuestions(FromParagraphs([]string{"1. Q（C）"}).Questions())
	if len(qs) != 1 || qs[0].Answer != "C" {
		t.Errorf("MustQuestions() = %+v", qs)
	}

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected MustQuestions to panic on error")
		}
	}()
	MustQuestions(Open("").Questions())
}
