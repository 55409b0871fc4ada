package docx

import (
	"strings"
	"testing"
)

func TestRenderTextValue(t *testing.T) {
	doc := newTestDoc(t, para("Name: {{FIRST_NAME}}"))

	if err := Render(doc, Context{"FIRST_NAME": Text("Marie & Co")}); err != nil {
		t.Fatalf("Render: %v", err)
	}

	xml := doc.XML()
	if !strings.Contains(xml, "Name: Marie &amp; Co") {
		t.Errorf("text value not substituted/escaped: %s", xml)
	}
	if strings.Contains(xml, "{{") {
		t.Errorf("placeholder residue: %s", xml)
	}
}

func TestRenderCoalescesSplitPlaceholder(t *testing.T) {
	// Word splits the placeholder across two runs.
	body := `<w:p><w:r><w:t>{{FIRST_</w:t></w:r><w:r><w:t>NAME}}</w:t></w:r></w:p>`
	doc := newTestDoc(t, body)

	if err := Render(doc, Context{"FIRST_NAME": Text("Jean")}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(doc.XML(), "Jean") {
		t.Errorf("split placeholder not bound: %s", doc.XML())
	}
}

func TestRenderRichValue(t *testing.T) {
	doc := newTestDoc(t, para("{{SUMMARY}}"))

	if err := Render(doc, Context{"SUMMARY": Rich("knows **Go** well")}); err != nil {
		t.Fatalf("Render: %v", err)
	}

	xml := doc.XML()
	if !strings.Contains(xml, "<w:b/>") {
		t.Errorf("rich value lost bold formatting: %s", xml)
	}
	if strings.Contains(xml, "**") {
		t.Errorf("markers survived rendering: %s", xml)
	}
}

func TestRenderRichValueNotDoubleEscaped(t *testing.T) {
	doc := newTestDoc(t, para("{{SUMMARY}}"))

	if err := Render(doc, Context{"SUMMARY": Rich("R&D work")}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(doc.XML(), "&amp;amp;") {
		t.Errorf("rich value escaped twice: %s", doc.XML())
	}
}

func TestRenderRichValuePreservesHostRunFormatting(t *testing.T) {
	body := `<w:p><w:r><w:rPr><w:i/></w:rPr><w:t>Expert in {{SUMMARY}} since 2019</w:t></w:r></w:p>`
	doc := newTestDoc(t, body)

	if err := Render(doc, Context{"SUMMARY": Rich("**Go**")}); err != nil {
		t.Fatalf("Render: %v", err)
	}

	xml := doc.XML()
	if !strings.Contains(xml, `<w:r><w:rPr><w:i/></w:rPr><w:t xml:space="preserve"> since 2019</w:t>`) {
		t.Errorf("text after placeholder lost the host run formatting: %s", xml)
	}
	if !strings.Contains(xml, "<w:b/>") {
		t.Errorf("rich value lost bold formatting: %s", xml)
	}
}

func TestRenderRichValueInPlainRun(t *testing.T) {
	doc := newTestDoc(t, para("knows {{SUMMARY}} well"))

	if err := Render(doc, Context{"SUMMARY": Rich("**Go**")}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(doc.XML(), `<w:r><w:t xml:space="preserve"> well</w:t>`) {
		t.Errorf("plain host run reopened with unexpected properties: %s", doc.XML())
	}
}

func TestRenderBlockReplacesWholeParagraph(t *testing.T) {
	body := para("before") + para("{{EXPERIENCES}}") + para("after")
	doc := newTestDoc(t, body)

	block := para("Job One") + para("Job Two")
	if err := Render(doc, Context{"EXPERIENCES": Block(block)}); err != nil {
		t.Fatalf("Render: %v", err)
	}

	xml := doc.XML()
	if !strings.Contains(xml, "Job One") || !strings.Contains(xml, "Job Two") {
		t.Errorf("block content missing: %s", xml)
	}
	if strings.Contains(xml, "EXPERIENCES") {
		t.Errorf("placeholder paragraph not removed: %s", xml)
	}
	if !strings.Contains(xml, "before") || !strings.Contains(xml, "after") {
		t.Errorf("neighbor paragraphs damaged: %s", xml)
	}
}

func TestRenderStripsUnboundPlaceholders(t *testing.T) {
	doc := newTestDoc(t, para("{{UNKNOWN_FIELD}} rest"))

	if err := Render(doc, Context{}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(doc.XML(), "{{") {
		t.Errorf("unbound placeholder left in document: %s", doc.XML())
	}
	if !strings.Contains(doc.XML(), "rest") {
		t.Errorf("surrounding text lost: %s", doc.XML())
	}
}

func TestRenderBlockInsideTableCell(t *testing.T) {
	body := `<w:tbl><w:tr><w:tc>` + para("{{SKILLS}}") + `</w:tc></w:tr></w:tbl>`
	doc := newTestDoc(t, body)

	if err := Render(doc, Context{"SKILLS": Block(para("Go"))}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	xml := doc.XML()
	if !strings.Contains(xml, "Go") {
		t.Errorf("block not bound inside table: %s", xml)
	}
	if !strings.Contains(xml, "<w:tc>") || !strings.Contains(xml, "</w:tc>") {
		t.Errorf("table structure damaged: %s", xml)
	}
}
