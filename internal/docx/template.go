package docx

import (
	"fmt"
	"regexp"
	"strings"
)

// Value is one binding in a render context. Three shapes exist:
//
//   - Text: plain string, XML-escaped at render time, substituted in place.
//   - Rich: string with **bold** markers, rendered as formatted runs.
//   - Block: pre-serialized paragraph/table XML replacing the whole
//     placeholder paragraph (used for repeated sections).
//
// Rich and Block values carry their own safe serialization and are never
// escaped again.
type Value struct {
	kind valueKind
	s    string
}

type valueKind int

const (
	textValue valueKind = iota
	richValue
	blockValue
)

func Text(s string) Value  { return Value{kind: textValue, s: s} }
func Rich(s string) Value  { return Value{kind: richValue, s: s} }
func Block(xml string) Value { return Value{kind: blockValue, s: xml} }

// Context maps template placeholder names to their bound values.
type Context map[string]Value

var (
	// Word splits text runs arbitrarily, so a {{placeholder}} frequently
	// spans several <w:t> elements. splitPlaceholderRe matches a placeholder
	// with run markup interleaved so it can be coalesced before binding.
	splitPlaceholderRe = regexp.MustCompile(`\{\{(?:[^{}<]|<[^<>]*>)*?\}\}`)
	innerTagRe         = regexp.MustCompile(`<[^<>]*>`)
	leftoverRe         = regexp.MustCompile(`\{\{[A-Za-z0-9_]+\}\}`)
)

// Render binds the context into the document's placeholders.
func Render(doc *Document, ctx Context) error {
	xml := coalescePlaceholders(doc.XML())

	for key, val := range ctx {
		placeholder := "{{" + key + "}}"
		switch val.kind {
		case textValue:
			xml = strings.ReplaceAll(xml, placeholder, EscapeXML(val.s))
		case richValue:
			xml = replaceInline(xml, placeholder, MarkdownRunsXML(val.s))
		case blockValue:
			var err error
			xml, err = replaceBlock(xml, placeholder, val.s)
			if err != nil {
				return fmt.Errorf("failed to bind %s: %w", key, err)
			}
		}
	}

	// Unbound placeholders would show up verbatim in the rendered document.
	xml = leftoverRe.ReplaceAllString(xml, "")

	doc.SetXML(xml)
	return nil
}

// coalescePlaceholders merges placeholders that Word split across runs back
// into a single text node.
func coalescePlaceholders(xml string) string {
	return splitPlaceholderRe.ReplaceAllStringFunc(xml, func(m string) string {
		if !strings.Contains(m, "<") {
			return m
		}
		return innerTagRe.ReplaceAllString(m, "")
	})
}

// replaceInline substitutes a placeholder inside a <w:t> node with a run
// sequence, closing the host run and reopening it after the inserted runs.
// The reopened run carries the host run's <w:rPr> so text following the
// placeholder keeps its formatting.
func replaceInline(xml, placeholder, runs string) string {
	for {
		idx := strings.Index(xml, placeholder)
		if idx == -1 {
			return xml
		}
		replacement := `</w:t></w:r>` + runs +
			`<w:r>` + enclosingRunProps(xml[:idx]) + `<w:t xml:space="preserve">`
		xml = xml[:idx] + replacement + xml[idx+len(placeholder):]
	}
}

// enclosingRunProps returns the <w:rPr> element of the run containing the end
// of prefix, or "" when the run carries none.
func enclosingRunProps(prefix string) string {
	rStart := lastTagIndex(prefix, "<w:r")
	if rStart == -1 {
		return ""
	}
	gt := strings.Index(prefix[rStart:], ">")
	if gt == -1 {
		return ""
	}
	rest := prefix[rStart+gt+1:]
	if !strings.HasPrefix(rest, "<w:rPr") {
		return ""
	}
	end, ok := elementAt(rest, 0, "w:rPr")
	if !ok {
		return ""
	}
	return rest[:end]
}

// replaceBlock swaps the whole paragraph containing the placeholder for the
// given block XML.
func replaceBlock(xml, placeholder, block string) (string, error) {
	for {
		idx := strings.Index(xml, placeholder)
		if idx == -1 {
			return xml, nil
		}
		pStart := lastTagIndex(xml[:idx], "<w:p")
		if pStart == -1 {
			return "", fmt.Errorf("placeholder %s is not inside a paragraph", placeholder)
		}
		pEnd, ok := elementAt(xml, pStart, "w:p")
		if !ok || pEnd <= idx {
			return "", fmt.Errorf("malformed paragraph around %s", placeholder)
		}
		xml = xml[:pStart] + block + xml[pEnd:]
	}
}

// lastTagIndex finds the last occurrence of openTag in s at an element
// boundary.
func lastTagIndex(s, openTag string) int {
	for end := len(s); end > 0; {
		idx := strings.LastIndex(s[:end], openTag)
		if idx == -1 {
			return -1
		}
		after := idx + len(openTag)
		if after < len(s) && (s[after] == ' ' || s[after] == '>' || s[after] == '/') {
			return idx
		}
		end = idx
	}
	return -1
}
