package htmldoc

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func paragraphsOf(t *testing.T, doc string) []string {
	t.Helper()
	r, err := OpenReader(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("OpenReader() failed: %v", err)
	}
	defer r.Close()
	return r.Paragraphs()
}

func TestOpenReader_InvalidHTML(t *testing.T) {
	// Even malformed HTML should parse (HTML parser is lenient)
	got := paragraphsOf(t, `<html><body><p>unclosed paragraph`)
	if !reflect.DeepEqual(got, []string{"unclosed paragraph"}) {
		t.Errorf("Paragraphs() = %q", got)
	}
}

func TestOpen_NotFound(t *testing.T) {
	if _, err := Open("/nonexistent/file.html"); err == nil {
		t.Error("Open() expected error for nonexistent file")
	}
}

func TestOpen_ValidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exam.html")
	if err := os.WriteFile(path, []byte("<html><body><p>1. Q（A）</p></body></html>"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer r.Close()

	if got := r.Paragraphs(); !reflect.DeepEqual(got, []string{"1. Q（A）"}) {
		t.Errorf("Paragraphs() = %q", got)
	}
}

func TestOpen_LegacyCharset(t *testing.T) {
	// "答案" in GBK
	gbk := []byte("<html><head><meta charset=\"gbk\"></head><body><p>\xb4\xf0\xb0\xb8: A</p></body></html>")
	path := filepath.Join(t.TempDir(), "gbk.html")
	if err := os.WriteFile(path, gbk, 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if got := r.Paragraphs(); !reflect.DeepEqual(got, []string{"答案: A"}) {
		t.Errorf("Paragraphs() = %q", got)
	}
}

func TestReader_Metadata(t *testing.T) {
	doc := `<!DOCTYPE html>
<html>
<head>
	<title>  Fund
	Exam </title>
	<meta name="author" content="Exam Office">
	<meta name="description" content="Practice set">
	<meta name="keywords" content="fund, exam, ">
	<meta property="og:site_name" content="Example">
</head>
<body><p>x</p></body>
</html>`

	r, err := OpenReader(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("OpenReader() failed: %v", err)
	}

	meta := r.Metadata()
	if meta.Title != "Fund Exam" {
		t.Errorf("Title = %q", meta.Title)
	}
	if meta.Author != "Exam Office" {
		t.Errorf("Author = %q", meta.Author)
	}
	if meta.Subject != "Practice set" {
		t.Errorf("Subject = %q", meta.Subject)
	}
	if !reflect.DeepEqual(meta.Keywords, []string{"fund", "exam"}) {
		t.Errorf("Keywords = %q", meta.Keywords)
	}
	if meta.Custom["og:site_name"] != "Example" {
		t.Errorf("Custom = %v", meta.Custom)
	}
	if meta.Format != "HTML" {
		t.Errorf("Format = %q", meta.Format)
	}
}

// ============================================================================
// Paragraph Tests
// ============================================================================

func TestReader_Paragraphs_Blocks(t *testing.T) {
	doc := `<html><body>
	<h2>Fund exam</h2>
	<p>1. Fruit
	   includes <b>（）</b></p>
	<ul>
		<li>A. Apple</li>
		<li>B.&nbsp;Rock</li>
	</ul>
	<div>答案：A</div>
</body></html>`

	want := []string{"Fund exam", "1. Fruit includes （）", "A. Apple", "B. Rock", "答案：A"}
	if got := paragraphsOf(t, doc); !reflect.DeepEqual(got, want) {
		t.Errorf("Paragraphs() = %q, want %q", got, want)
	}
}

func TestReader_Paragraphs_LineBreaks(t *testing.T) {
	doc := `<html><body><p>1. Q（）<br>A. one<br/>B. two</p></body></html>`

	want := []string{"1. Q（）", "A. one", "B. two"}
	if got := paragraphsOf(t, doc); !reflect.DeepEqual(got, want) {
		t.Errorf("Paragraphs() = %q, want %q", got, want)
	}
}

func TestReader_Paragraphs_NestedDivs(t *testing.T) {
	doc := `<html><body><div class="question">2. Risk is<div class="opts"><span>A. x</span></div>tail</div></body></html>`

	want := []string{"2. Risk is", "A. x", "tail"}
	if got := paragraphsOf(t, doc); !reflect.DeepEqual(got, want) {
		t.Errorf("Paragraphs() = %q, want %q", got, want)
	}
}

func TestReader_Paragraphs_TableCells(t *testing.T) {
	doc := `<html><body><table>
	<tr><td>1. Q</td><td>A</td></tr>
</table></body></html>`

	want := []string{"1. Q", "A"}
	if got := paragraphsOf(t, doc); !reflect.DeepEqual(got, want) {
		t.Errorf("Paragraphs() = %q, want %q", got, want)
	}
}

func TestReader_Paragraphs_Pre(t *testing.T) {
	doc := "<html><body><pre>1. Q\nA. x\n\n答案：A</pre></body></html>"

	want := []string{"1. Q", "A. x", "答案：A"}
	if got := paragraphsOf(t, doc); !reflect.DeepEqual(got, want) {
		t.Errorf("Paragraphs() = %q, want %q", got, want)
	}
}

func TestReader_SkipsScriptStyle(t *testing.T) {
	doc := `<html><head><style>p { color: red }</style></head><body>
	<script>var answer = "A";</script>
	<noscript>Enable JS</noscript>
	<p>Visible</p>
</body></html>`

	if got := paragraphsOf(t, doc); !reflect.DeepEqual(got, []string{"Visible"}) {
		t.Errorf("Paragraphs() = %q", got)
	}
}

func TestReader_NoBody(t *testing.T) {
	if got := paragraphsOf(t, "just text"); !reflect.DeepEqual(got, []string{"just text"}) {
		t.Errorf("Paragraphs() = %q", got)
	}
}

func TestReader_Text(t *testing.T) {
	r, err := OpenReader(strings.NewReader(`<p>one</p><p>two</p>`))
	if err != nil {
		t.Fatalf("OpenReader() failed: %v", err)
	}
	text, err := r.Text()
	if err != nil {
		t.Fatalf("Text() failed: %v", err)
	}
	if text != "one\ntwo" {
		t.Errorf("Text() = %q", text)
	}
}

func TestShouldSkipElement(t *testing.T) {
	for _, tag := range []string{"script", "style", "noscript", "template", "svg"} {
		if !shouldSkipElement(tag) {
			t.Errorf("shouldSkipElement(%q) = false", tag)
		}
	}
	for _, tag := range []string{"p", "div", "span"} {
		if shouldSkipElement(tag) {
			t.Errorf("shouldSkipElement(%q) = true", tag)
		}
	}
}
