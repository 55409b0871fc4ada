package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

const textBoxSeparator = "=== TEXT BOXES ==="

// ExtractText pulls the plain text out of a .docx byte stream: body
// paragraphs, table cell text joined per row, and - under a separator marker
// - text found inside drawing text boxes (both the modern w:txbxContent
// container and the legacy VML one). Resumes frequently hide contact
// information in text boxes that plain paragraph iteration misses.
func ExtractText(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open docx container: %w", err)
	}

	var docFile *zip.File
	for _, f := range zr.File {
		if f.Name == documentPart {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", fmt.Errorf("%s not found in docx container", documentPart)
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", documentPart, err)
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", documentPart, err)
	}
	return extractDocumentText(content)
}

func extractDocumentText(content []byte) (string, error) {
	decoder := xml.NewDecoder(bytes.NewReader(content))

	var (
		lines     []string
		textboxes []string

		tableDepth   int
		textboxDepth int

		para    strings.Builder
		cell    strings.Builder
		rowCell []string
		textbox strings.Builder
	)

	flushPara := func() {
		if t := strings.TrimSpace(para.String()); t != "" {
			lines = append(lines, t)
		}
		para.Reset()
	}

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to parse %s: %w", documentPart, err)
		}

		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "txbxContent", "textbox":
				textboxDepth++
			case "tbl":
				if textboxDepth == 0 {
					tableDepth++
				}
			case "tc":
				if textboxDepth == 0 && tableDepth > 0 {
					cell.Reset()
				}
			case "t":
				var text string
				if err := decoder.DecodeElement(&text, &el); err != nil {
					continue
				}
				switch {
				case textboxDepth > 0:
					textbox.WriteString(text)
					textbox.WriteString(" ")
				case tableDepth > 0:
					cell.WriteString(text)
				default:
					para.WriteString(text)
				}
			}
		case xml.EndElement:
			switch el.Name.Local {
			case "txbxContent", "textbox":
				if textboxDepth > 0 {
					textboxDepth--
					if textboxDepth == 0 {
						if t := strings.TrimSpace(textbox.String()); t != "" {
							textboxes = append(textboxes, t)
						}
						textbox.Reset()
					}
				}
			case "tbl":
				if textboxDepth == 0 && tableDepth > 0 {
					tableDepth--
				}
			case "tc":
				if textboxDepth == 0 && tableDepth > 0 {
					if t := strings.TrimSpace(cell.String()); t != "" {
						rowCell = append(rowCell, t)
					}
					cell.Reset()
				}
			case "tr":
				if textboxDepth == 0 && tableDepth > 0 && len(rowCell) > 0 {
					lines = append(lines, strings.Join(rowCell, " | "))
					rowCell = nil
				}
			case "p":
				if textboxDepth == 0 && tableDepth == 0 {
					flushPara()
				}
			}
		}
	}
	flushPara()

	if len(textboxes) > 0 {
		lines = append(lines, textBoxSeparator)
		lines = append(lines, textboxes...)
	}
	return strings.Join(lines, "\n"), nil
}
