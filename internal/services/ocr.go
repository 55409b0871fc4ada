package services

import (
	"bytes"
	"fmt"
	"image/png"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/otiai10/gosseract/v2"
	"github.com/sirupsen/logrus"

	"tmc/cv-tailor/internal/config"
)

type OCRService interface {
	ExtractFromPDF(filePath string) (string, error)
}

type ocrService struct {
	languages []string
	dpi       int
	log       *logrus.Logger
}

func NewOCRService(cfg config.OCRConfig, log *logrus.Logger) OCRService {
	return &ocrService{
		languages: strings.Split(cfg.Languages, "+"),
		dpi:       cfg.DPI,
		log:       log,
	}
}

// ExtractFromPDF rasterizes each page and runs it through tesseract. Used as
// a fallback for scanned documents where the text layer is missing or junk.
func (o *ocrService) ExtractFromPDF(filePath string) (string, error) {
	doc, err := fitz.New(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF for OCR: %w", err)
	}
	defer doc.Close()

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(o.languages...); err != nil {
		return "", fmt.Errorf("failed to set OCR languages: %w", err)
	}

	var textBuilder strings.Builder
	for pageIndex := 0; pageIndex < doc.NumPage(); pageIndex++ {
		img, err := doc.ImageDPI(pageIndex, float64(o.dpi))
		if err != nil {
			o.log.WithFields(logrus.Fields{
				"page":  pageIndex + 1,
				"error": err.Error(),
			}).Warn("⚠️ Failed to rasterize page, skipping")
			continue
		}

		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			continue
		}
		if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
			continue
		}

		pageText, err := client.Text()
		if err != nil {
			o.log.WithFields(logrus.Fields{
				"page":  pageIndex + 1,
				"error": err.Error(),
			}).Warn("⚠️ OCR failed on page, skipping")
			continue
		}

		textBuilder.WriteString(fmt.Sprintf("--- Page %d ---\n", pageIndex+1))
		textBuilder.WriteString(pageText)
		textBuilder.WriteString("\n\n")
	}

	text := textBuilder.String()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("OCR produced no text")
	}
	return text, nil
}
