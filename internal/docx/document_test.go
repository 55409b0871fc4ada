package docx

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"
)

const documentShell = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>%BODY%</w:body></w:document>`

func packageBytes(t *testing.T, body string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	parts := []struct{ name, content string }{
		{"[Content_Types].xml", `<?xml version="1.0"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`},
		{"word/document.xml", strings.Replace(documentShell, "%BODY%", body, 1)},
	}
	for _, p := range parts {
		w, err := zw.Create(p.name)
		if err != nil {
			t.Fatalf("create %s: %v", p.name, err)
		}
		if _, err := w.Write([]byte(p.content)); err != nil {
			t.Fatalf("write %s: %v", p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close package: %v", err)
	}
	return buf.Bytes()
}

func newTestDoc(t *testing.T, body string) *Document {
	t.Helper()
	doc, err := OpenBytes(packageBytes(t, body))
	if err != nil {
		t.Fatalf("OpenBytes: %v", err)
	}
	return doc
}

func para(text string) string {
	return `<w:p><w:r><w:t>` + text + `</w:t></w:r></w:p>`
}

func TestOpenBytesRoundTrip(t *testing.T) {
	doc := newTestDoc(t, para("hello"))

	data, err := doc.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}

	reopened, err := OpenBytes(data)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if !strings.Contains(reopened.XML(), "hello") {
		t.Errorf("round-tripped document lost content: %s", reopened.XML())
	}
}

func TestOpenBytesRejectsMissingDocumentPart(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, _ := zw.Create("[Content_Types].xml")
	w.Write([]byte("<Types/>"))
	zw.Close()

	if _, err := OpenBytes(buf.Bytes()); err == nil {
		t.Fatal("expected error for package without word/document.xml")
	}
}

func TestSplitBody(t *testing.T) {
	xml := `<w:document><w:body>` + para("a") + `</w:body></w:document>`
	head, body, tail, err := splitBody(xml)
	if err != nil {
		t.Fatalf("splitBody: %v", err)
	}
	if head != "<w:document><w:body>" {
		t.Errorf("head = %q", head)
	}
	if body != para("a") {
		t.Errorf("body = %q", body)
	}
	if tail != "</w:body></w:document>" {
		t.Errorf("tail = %q", tail)
	}
}

func TestSplitTrailingSectPr(t *testing.T) {
	body := para("a") + `<w:sectPr><w:pgMar w:top="1440"/></w:sectPr>`
	content, sectPr := splitTrailingSectPr(body)
	if content != para("a") {
		t.Errorf("content = %q", content)
	}
	if !strings.HasPrefix(sectPr, "<w:sectPr>") || !strings.HasSuffix(sectPr, "</w:sectPr>") {
		t.Errorf("sectPr = %q", sectPr)
	}
}

func TestElementAtNested(t *testing.T) {
	s := `<w:tbl><w:tr><w:tc><w:tbl><w:tr/></w:tbl></w:tc></w:tr></w:tbl><w:p/>`
	end, ok := elementAt(s, 0, "w:tbl")
	if !ok {
		t.Fatal("elementAt failed on nested tables")
	}
	if s[end:] != "<w:p/>" {
		t.Errorf("element extent wrong, remainder = %q", s[end:])
	}
}

func TestElementAtSelfClosing(t *testing.T) {
	s := `<w:p/>` + para("next")
	end, ok := elementAt(s, 0, "w:p")
	if !ok {
		t.Fatal("elementAt failed on self-closing element")
	}
	if s[:end] != "<w:p/>" {
		t.Errorf("extent = %q", s[:end])
	}
}

func TestIndexTagSkipsPrefixCollisions(t *testing.T) {
	s := `<w:tblPr/><w:tbl></w:tbl>`
	idx := indexTag(s, 0, "<w:tbl")
	if idx != len("<w:tblPr/>") {
		t.Errorf("indexTag = %d, want %d", idx, len("<w:tblPr/>"))
	}
}
