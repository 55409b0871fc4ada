// Package docx is a minimal WordprocessingML document model: enough of the
// OOXML package format to render templates, merge documents and rewrite runs,
// working directly on word/document.xml inside the zip container.
package docx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
)

const documentPart = "word/document.xml"

// Document holds every part of a .docx package. Mutations touch only the
// main document part; all other parts round-trip untouched.
type Document struct {
	parts map[string][]byte
	order []string
}

// Open reads a .docx file from disk.
func Open(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	return OpenBytes(data)
}

// OpenBytes reads a .docx package from memory.
func OpenBytes(data []byte) (*Document, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open docx container: %w", err)
	}

	doc := &Document{parts: make(map[string][]byte)}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open part %s: %w", f.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read part %s: %w", f.Name, err)
		}
		doc.parts[f.Name] = content
		doc.order = append(doc.order, f.Name)
	}

	if _, ok := doc.parts[documentPart]; !ok {
		return nil, fmt.Errorf("%s not found in docx container", documentPart)
	}
	return doc, nil
}

// XML returns the main document part.
func (d *Document) XML() string {
	return string(d.parts[documentPart])
}

// SetXML replaces the main document part.
func (d *Document) SetXML(xml string) {
	d.parts[documentPart] = []byte(xml)
}

// Bytes serializes the package back to a .docx byte stream.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range d.order {
		w, err := zw.Create(name)
		if err != nil {
			return nil, fmt.Errorf("failed to create part %s: %w", name, err)
		}
		if _, err := w.Write(d.parts[name]); err != nil {
			return nil, fmt.Errorf("failed to write part %s: %w", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize docx container: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes the package to disk.
func (d *Document) Save(path string) error {
	data, err := d.Bytes()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}
	return nil
}

// splitBody cuts the main part into everything before the body content, the
// body content itself, and everything from </w:body> on.
func splitBody(xml string) (head, body, tail string, err error) {
	open := strings.Index(xml, "<w:body>")
	if open == -1 {
		open = strings.Index(xml, "<w:body ")
		if open == -1 {
			return "", "", "", fmt.Errorf("document has no <w:body> element")
		}
		end := strings.Index(xml[open:], ">")
		if end == -1 {
			return "", "", "", fmt.Errorf("malformed <w:body> element")
		}
		open += end + 1
	} else {
		open += len("<w:body>")
	}

	close := strings.LastIndex(xml, "</w:body>")
	if close == -1 || close < open {
		return "", "", "", fmt.Errorf("document has no </w:body> element")
	}
	return xml[:open], xml[open:close], xml[close:], nil
}

// splitTrailingSectPr separates the body's final section properties from the
// content before it. A body-level sectPr is always the last child.
func splitTrailingSectPr(body string) (content, sectPr string) {
	idx := strings.LastIndex(body, "<w:sectPr")
	if idx == -1 {
		return body, ""
	}
	rest := body[idx:]
	end := strings.Index(rest, "</w:sectPr>")
	if end == -1 {
		// self-closing
		end = strings.Index(rest, "/>")
		if end == -1 {
			return body, ""
		}
		return body[:idx], rest[:end+2]
	}
	return body[:idx], rest[:end+len("</w:sectPr>")]
}

// elementAt returns the end offset (exclusive) of the element starting at
// start, which must point at "<"+name. Handles nesting of same-named
// elements (tables inside table cells) and self-closing forms.
func elementAt(s string, start int, name string) (end int, ok bool) {
	openTag := "<" + name
	closeTag := "</" + name + ">"

	gt := strings.Index(s[start:], ">")
	if gt == -1 {
		return 0, false
	}
	if s[start+gt-1] == '/' {
		return start + gt + 1, true
	}

	depth := 1
	i := start + gt + 1
	for depth > 0 {
		nextOpen := indexTag(s, i, openTag)
		nextClose := strings.Index(s[i:], closeTag)
		if nextClose == -1 {
			return 0, false
		}
		nextClose += i
		if nextOpen != -1 && nextOpen < nextClose {
			gt := strings.Index(s[nextOpen:], ">")
			if gt == -1 {
				return 0, false
			}
			if s[nextOpen+gt-1] != '/' {
				depth++
			}
			i = nextOpen + gt + 1
			continue
		}
		depth--
		i = nextClose + len(closeTag)
	}
	return i, true
}

// indexTag finds the next occurrence of openTag starting at an element
// boundary, skipping prefix collisions such as <w:tbl matching <w:tblPr.
func indexTag(s string, from int, openTag string) int {
	for {
		idx := strings.Index(s[from:], openTag)
		if idx == -1 {
			return -1
		}
		idx += from
		after := idx + len(openTag)
		if after >= len(s) || s[after] == ' ' || s[after] == '>' || s[after] == '/' {
			return idx
		}
		from = after
	}
}
