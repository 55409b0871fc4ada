package docx

import (
	"fmt"
	"regexp"
	"strings"
)

const pageBreakParagraph = `<w:p><w:r><w:br w:type="page"/></w:r></w:p>`

var (
	tblWRe      = regexp.MustCompile(`<w:tblW [^>]*/>`)
	tblLayoutRe = regexp.MustCompile(`<w:tblLayout [^>]*/>`)
	pgMarRe     = regexp.MustCompile(`<w:pgMar [^>]*/>`)
)

// FixTableWidths rewrites every fixed table width declaration to automatic
// layout and returns the number of tables changed. An externally authored
// insert with an absolute width overflows the host page margins after the
// merge, shifting the table rightward; auto width is mandatory before
// appending, not styling.
func FixTableWidths(doc *Document) int {
	xml := doc.XML()
	fixed := 0

	xml = tblWRe.ReplaceAllStringFunc(xml, func(m string) string {
		if strings.Contains(m, `w:type="auto"`) {
			return m
		}
		fixed++
		return `<w:tblW w:w="0" w:type="auto"/>`
	})
	xml = tblLayoutRe.ReplaceAllString(xml, "")

	doc.SetXML(xml)
	return fixed
}

// CopyPageMargins applies the host document's page margins to every section
// of the insert, so the inserted page lines up with the surrounding
// document's geometry.
func CopyPageMargins(host, insert *Document) error {
	hostMargins := pgMarRe.FindString(host.XML())
	if hostMargins == "" {
		return fmt.Errorf("host document has no page margin definition")
	}
	insert.SetXML(pgMarRe.ReplaceAllString(insert.XML(), hostMargins))
	return nil
}

// StripLeadingEmptyParagraphs removes empty paragraphs at the top of the
// body until the first paragraph with text or the first table, and returns
// how many were removed. Externally authored inserts routinely start with
// blank spacing paragraphs that would push the content down the page.
func StripLeadingEmptyParagraphs(doc *Document) (int, error) {
	head, body, tail, err := splitBody(doc.XML())
	if err != nil {
		return 0, err
	}

	removed := 0
	for {
		trimmed := strings.TrimLeft(body, " \t\r\n")
		if !strings.HasPrefix(trimmed, "<w:p") || strings.HasPrefix(trimmed, "<w:pPr") {
			break
		}
		offset := len(body) - len(trimmed)
		end, ok := elementAt(body, offset, "w:p")
		if !ok {
			break
		}
		para := body[offset:end]
		if strings.TrimSpace(textOf(para)) != "" {
			break
		}
		body = body[end:]
		removed++
	}

	doc.SetXML(head + body + tail)
	return removed, nil
}

// Append structurally concatenates the other document's body onto doc after
// a page break. The host keeps its own trailing section properties; the
// appended document's are dropped. Drawing relationships of the appended
// document are not remapped, so inserts must be self-contained text and
// tables.
func Append(doc, other *Document) error {
	head, body, tail, err := splitBody(doc.XML())
	if err != nil {
		return fmt.Errorf("host document: %w", err)
	}
	_, otherBody, _, err := splitBody(other.XML())
	if err != nil {
		return fmt.Errorf("appended document: %w", err)
	}

	content, sectPr := splitTrailingSectPr(body)
	otherContent, _ := splitTrailingSectPr(otherBody)

	doc.SetXML(head + content + pageBreakParagraph + otherContent + sectPr + tail)
	return nil
}

var wtRe = regexp.MustCompile(`<w:t(?: [^>]*)?>([^<]*)</w:t>`)

// textOf concatenates the text nodes of a fragment.
func textOf(fragment string) string {
	var b strings.Builder
	for _, m := range wtRe.FindAllStringSubmatch(fragment, -1) {
		b.WriteString(m[1])
	}
	return b.String()
}
