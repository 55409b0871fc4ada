package docx

import (
	"regexp"
	"strings"
)

var (
	rPrRe   = regexp.MustCompile(`<w:rPr>(.*?)</w:rPr>`)
	boldTag = regexp.MustCompile(`<w:b(?: [^>]*)?/>`)
)

// BoldMarkedKeywords resolves residual **keyword** markers anywhere in the
// rendered document, including paragraphs nested in tables, by re-splitting
// each matching paragraph's runs so that exactly the marked substrings are
// bold. The first run's properties are preserved on the rebuilt runs. A
// document without markers is returned untouched, so the pass is idempotent.
func BoldMarkedKeywords(doc *Document) (int, error) {
	xml := doc.XML()
	var out strings.Builder
	changes := 0

	i := 0
	for {
		start := indexTag(xml, i, "<w:p")
		if start == -1 {
			out.WriteString(xml[i:])
			break
		}
		end, ok := elementAt(xml, start, "w:p")
		if !ok {
			out.WriteString(xml[i:])
			break
		}

		out.WriteString(xml[i:start])
		para := xml[start:end]
		rebuilt, n := rebuildParagraph(para)
		out.WriteString(rebuilt)
		changes += n
		i = end
	}

	doc.SetXML(out.String())
	return changes, nil
}

// rebuildParagraph replaces a paragraph's runs with marker-resolved ones.
// Paragraphs without markers, or with embedded drawings/text boxes that a
// run rewrite would destroy, pass through unchanged.
func rebuildParagraph(para string) (string, int) {
	if !strings.Contains(para, "**") {
		return para, 0
	}
	if strings.Contains(para, "<w:drawing") || strings.Contains(para, "<w:pict") ||
		strings.Contains(para, "w:txbxContent") {
		return para, 0
	}

	text := unescapeXML(textOf(para))
	matches := boldMarkerRe.FindAllString(text, -1)
	if len(matches) == 0 {
		return para, 0
	}

	openEnd := strings.Index(para, ">")
	if openEnd == -1 {
		return para, 0
	}
	openTag := para[:openEnd+1]

	// Keep paragraph properties.
	pPr := ""
	rest := para[openEnd+1:]
	if strings.HasPrefix(rest, "<w:pPr") {
		if end, ok := elementAt(rest, 0, "w:pPr"); ok {
			pPr = rest[:end]
		}
	}

	// Preserve the first run's formatting, minus any bold flag. Search past
	// the paragraph properties, which carry their own <w:rPr>.
	runProps := ""
	if m := rPrRe.FindStringSubmatch(rest[len(pPr):]); m != nil {
		runProps = boldTag.ReplaceAllString(m[1], "")
	}

	runs := RunsXML(ParseMarkdown(text), runProps)
	return openTag + pPr + runs + "</w:p>", len(matches)
}

var xmlUnescaper = strings.NewReplacer("&amp;", "&", "&lt;", "<", "&gt;", ">", "&quot;", `"`, "&apos;", "'")

func unescapeXML(s string) string {
	return xmlUnescaper.Replace(s)
}
