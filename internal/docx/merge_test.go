package docx

import (
	"strings"
	"testing"
)

func TestFixTableWidths(t *testing.T) {
	body := `<w:tbl><w:tblPr><w:tblW w:w="9360" w:type="dxa"/><w:tblLayout w:type="fixed"/></w:tblPr><w:tr><w:tc>` +
		para("cell") + `</w:tc></w:tr></w:tbl>`
	doc := newTestDoc(t, body)

	fixed := FixTableWidths(doc)
	if fixed != 1 {
		t.Errorf("fixed = %d, want 1", fixed)
	}

	xml := doc.XML()
	if !strings.Contains(xml, `<w:tblW w:w="0" w:type="auto"/>`) {
		t.Errorf("width not rewritten to auto: %s", xml)
	}
	if strings.Contains(xml, "w:tblLayout") {
		t.Errorf("fixed layout element survived: %s", xml)
	}
}

func TestFixTableWidthsLeavesAutoAlone(t *testing.T) {
	body := `<w:tbl><w:tblPr><w:tblW w:w="0" w:type="auto"/></w:tblPr></w:tbl>`
	doc := newTestDoc(t, body)

	if fixed := FixTableWidths(doc); fixed != 0 {
		t.Errorf("fixed = %d, want 0", fixed)
	}
}

func TestCopyPageMargins(t *testing.T) {
	host := newTestDoc(t, para("h")+`<w:sectPr><w:pgMar w:top="720" w:bottom="720" w:left="720" w:right="720"/></w:sectPr>`)
	insert := newTestDoc(t, para("i")+`<w:sectPr><w:pgMar w:top="1440" w:bottom="1440" w:left="1800" w:right="1800"/></w:sectPr>`)

	if err := CopyPageMargins(host, insert); err != nil {
		t.Fatalf("CopyPageMargins: %v", err)
	}
	if !strings.Contains(insert.XML(), `w:left="720"`) {
		t.Errorf("insert margins not replaced: %s", insert.XML())
	}
	if strings.Contains(insert.XML(), `w:left="1800"`) {
		t.Errorf("old insert margins survived: %s", insert.XML())
	}
}

func TestCopyPageMarginsRequiresHostMargins(t *testing.T) {
	host := newTestDoc(t, para("h"))
	insert := newTestDoc(t, para("i"))
	if err := CopyPageMargins(host, insert); err == nil {
		t.Fatal("expected error when host has no pgMar")
	}
}

func TestStripLeadingEmptyParagraphs(t *testing.T) {
	body := `<w:p/><w:p><w:pPr><w:jc w:val="center"/></w:pPr></w:p>` + para("content") + `<w:p/>`
	doc := newTestDoc(t, body)

	removed, err := StripLeadingEmptyParagraphs(doc)
	if err != nil {
		t.Fatalf("StripLeadingEmptyParagraphs: %v", err)
	}
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}

	xml := doc.XML()
	if !strings.Contains(xml, "content") {
		t.Errorf("content paragraph lost: %s", xml)
	}
	// The trailing empty paragraph is not leading, it stays.
	if strings.Count(xml, "<w:p/>") != 1 {
		t.Errorf("trailing empty paragraph touched: %s", xml)
	}
}

func TestStripLeadingEmptyParagraphsStopsAtTable(t *testing.T) {
	body := `<w:p/><w:tbl><w:tr><w:tc>` + para("cell") + `</w:tc></w:tr></w:tbl>`
	doc := newTestDoc(t, body)

	removed, err := StripLeadingEmptyParagraphs(doc)
	if err != nil {
		t.Fatalf("StripLeadingEmptyParagraphs: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if !strings.Contains(doc.XML(), "<w:tbl>") {
		t.Errorf("table damaged: %s", doc.XML())
	}
}

func TestAppendInsertsPageBreakAndKeepsHostSectPr(t *testing.T) {
	host := newTestDoc(t, para("host")+`<w:sectPr><w:pgMar w:top="720"/></w:sectPr>`)
	other := newTestDoc(t, para("insert")+`<w:sectPr><w:pgMar w:top="1440"/></w:sectPr>`)

	if err := Append(host, other); err != nil {
		t.Fatalf("Append: %v", err)
	}

	xml := host.XML()
	hostIdx := strings.Index(xml, "host")
	breakIdx := strings.Index(xml, `<w:br w:type="page"/>`)
	insertIdx := strings.Index(xml, "insert")
	if hostIdx == -1 || breakIdx == -1 || insertIdx == -1 {
		t.Fatalf("merged body incomplete: %s", xml)
	}
	if !(hostIdx < breakIdx && breakIdx < insertIdx) {
		t.Errorf("page break not between the parts: %s", xml)
	}

	if strings.Count(xml, "<w:sectPr") != 1 {
		t.Errorf("appended sectPr not dropped: %s", xml)
	}
	if !strings.Contains(xml, `w:top="720"`) {
		t.Errorf("host sectPr lost: %s", xml)
	}
	// Host section properties stay the last body child.
	if strings.Index(xml, "<w:sectPr") < insertIdx {
		t.Errorf("sectPr not trailing: %s", xml)
	}
}
