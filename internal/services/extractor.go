package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/encoding/charmap"

	"tmc/cv-tailor/internal/docx"
	"tmc/cv-tailor/internal/models"
)

// Below these thresholds a PDF text layer is considered junk (scanned
// document, vector-only export) and the OCR fallback kicks in.
const (
	minExtractedChars = 100
	minExtractedWords = 20
)

type ExtractorService interface {
	Extract(filePath string) (string, error)
}

type extractorService struct {
	ocr OCRService
	log *logrus.Logger
}

func NewExtractorService(ocr OCRService, log *logrus.Logger) ExtractorService {
	return &extractorService{
		ocr: ocr,
		log: log,
	}
}

// Extract implements ExtractorService. Dispatch is by extension; an unknown
// extension fails fast with an UnsupportedFormat error before any parsing
// work is done.
func (e *extractorService) Extract(filePath string) (string, error) {
	var (
		text string
		err  error
	)

	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".pdf":
		text, err = e.extractPDF(filePath)
	case ".docx":
		text, err = e.extractDOCX(filePath)
	case ".txt":
		text, err = e.extractTXT(filePath)
	default:
		return "", models.NewPipelineError(models.ErrUnsupportedFormat,
			fmt.Sprintf("unsupported file format %q, expected pdf, docx or txt", filepath.Ext(filePath)), nil)
	}
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(text) == "" {
		return "", models.NewPipelineError(models.ErrExtractionEmpty,
			fmt.Sprintf("no usable text in %s", filepath.Base(filePath)), nil)
	}
	return CleanText(text), nil
}

func (e *extractorService) extractPDF(filePath string) (string, error) {
	text, err := pdfPlainText(filePath)
	if err != nil {
		e.log.WithField("error", err.Error()).Warn("⚠️ PDF text layer unreadable, falling back to OCR")
		text = ""
	}

	if looksLikeScanned(text) {
		e.log.WithFields(logrus.Fields{
			"chars": len(strings.TrimSpace(text)),
			"words": len(strings.Fields(text)),
		}).Info("🔍 PDF text layer too thin, running OCR")

		ocrText, ocrErr := e.ocr.ExtractFromPDF(filePath)
		if ocrErr != nil {
			if text != "" {
				// Keep whatever the text layer gave us.
				return text, nil
			}
			return "", models.NewPipelineError(models.ErrExtractionEmpty,
				"PDF has no text layer and OCR failed", ocrErr)
		}
		return ocrText, nil
	}
	return text, nil
}

func pdfPlainText(filePath string) (string, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Log error but continue with other pages
			continue
		}

		textBuilder.WriteString(fmt.Sprintf("--- Page %d ---\n", pageIndex))
		textBuilder.WriteString(text)
		textBuilder.WriteString("\n\n")
	}
	return textBuilder.String(), nil
}

func (e *extractorService) extractDOCX(filePath string) (string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	text, err := docx.ExtractText(data)
	if err != nil {
		return "", models.NewPipelineError(models.ErrExtractionEmpty,
			"could not read docx content", err)
	}
	return text, nil
}

// extractTXT reads a plain text file, decoding Windows-1252 when the bytes
// are not valid UTF-8. Exports from older ATS systems routinely arrive in
// legacy encodings.
func (e *extractorService) extractTXT(filePath string) (string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	if utf8.Valid(data) {
		return string(data), nil
	}

	decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err == nil && utf8.Valid(decoded) {
		return string(decoded), nil
	}
	return strings.ToValidUTF8(string(data), "�"), nil
}

func looksLikeScanned(text string) bool {
	return len(strings.TrimSpace(text)) < minExtractedChars ||
		len(strings.Fields(text)) < minExtractedWords
}

// CleanText normalizes extracted text: trimmed lines, blank lines dropped.
func CleanText(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	var cleanedLines []string

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleanedLines = append(cleanedLines, line)
		}
	}
	return strings.Join(cleanedLines, "\n")
}
