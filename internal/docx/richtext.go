package docx

import (
	"regexp"
	"strings"
)

// Segment is one slice of rich text: the intermediate representation between
// inline **bold** markers and run-level formatting.
type Segment struct {
	Text string
	Bold bool
}

var boldMarkerRe = regexp.MustCompile(`\*\*([^*]+)\*\*`)

// ParseMarkdown splits a string on **bold** markers into ordered segments.
// Text before the first marker and after the last is preserved; a string
// without markers yields a single non-bold segment. No marker characters
// survive into the output.
func ParseMarkdown(s string) []Segment {
	matches := boldMarkerRe.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return []Segment{{Text: s}}
	}

	var segments []Segment
	lastEnd := 0
	for _, m := range matches {
		if m[0] > lastEnd {
			segments = append(segments, Segment{Text: s[lastEnd:m[0]]})
		}
		segments = append(segments, Segment{Text: s[m[2]:m[3]], Bold: true})
		lastEnd = m[1]
	}
	if lastEnd < len(s) {
		segments = append(segments, Segment{Text: s[lastEnd:]})
	}
	return segments
}

// PlainText reconstructs the text of the segments with all markers stripped.
func PlainText(segments []Segment) string {
	var b strings.Builder
	for _, seg := range segments {
		b.WriteString(seg.Text)
	}
	return b.String()
}

// StripMarkers removes **bold** markers from a string, keeping the text.
func StripMarkers(s string) string {
	return PlainText(ParseMarkdown(s))
}

var xmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// EscapeXML escapes the characters that would break a WordprocessingML text
// node. Rich-text values must never pass through here twice: they carry their
// own safe serialization.
func EscapeXML(s string) string {
	return xmlEscaper.Replace(s)
}

const defaultFont = "Arial"

// RunsXML serializes segments into a sequence of <w:r> runs. runProps is the
// inner XML of <w:rPr> to carry on every run (pass "" for the Arial default);
// bold runs get <w:b/> appended.
func RunsXML(segments []Segment, runProps string) string {
	if runProps == "" {
		runProps = `<w:rFonts w:ascii="` + defaultFont + `" w:hAnsi="` + defaultFont + `"/>`
	}
	var b strings.Builder
	for _, seg := range segments {
		if seg.Text == "" {
			continue
		}
		b.WriteString("<w:r><w:rPr>")
		b.WriteString(runProps)
		if seg.Bold {
			b.WriteString("<w:b/>")
		}
		b.WriteString(`</w:rPr><w:t xml:space="preserve">`)
		b.WriteString(EscapeXML(seg.Text))
		b.WriteString("</w:t></w:r>")
	}
	return b.String()
}

// MarkdownRunsXML is the common ParseMarkdown+RunsXML composition used when
// building render contexts.
func MarkdownRunsXML(s string) string {
	return RunsXML(ParseMarkdown(s), "")
}
