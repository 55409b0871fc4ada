package services

import (
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"tmc/cv-tailor/internal/docx"
	"tmc/cv-tailor/internal/models"
)

// AssemblerService renders the final document. Single layout fills one
// template; the three-part layout stitches cover page, the client-supplied
// skills-matrix insert and the content body into one file with page breaks
// between the parts.
type AssemblerService interface {
	AssembleSingle(client models.ClientProfile, lang models.Language, ctx docx.Context) ([]byte, error)
	AssembleThreePart(client models.ClientProfile, lang models.Language, ctx docx.Context, insert []byte) ([]byte, error)
}

type assemblerService struct {
	templatesPath string
	log           *logrus.Logger
}

func NewAssemblerService(templatesPath string, log *logrus.Logger) AssemblerService {
	return &assemblerService{
		templatesPath: templatesPath,
		log:           log,
	}
}

func (a *assemblerService) AssembleSingle(client models.ClientProfile, lang models.Language, ctx docx.Context) ([]byte, error) {
	doc, err := a.renderTemplate(client.TemplateName(lang), ctx)
	if err != nil {
		return nil, err
	}
	return a.finalize(doc)
}

func (a *assemblerService) AssembleThreePart(client models.ClientProfile, lang models.Language, ctx docx.Context, insert []byte) ([]byte, error) {
	cover, err := a.renderTemplate(client.CoverTemplateName(lang), ctx)
	if err != nil {
		return nil, err
	}
	content, err := a.renderTemplate(client.ContentTemplateName(lang), ctx)
	if err != nil {
		return nil, err
	}

	insertDoc, err := docx.OpenBytes(insert)
	if err != nil {
		return nil, models.NewPipelineError(models.ErrAssemblyFailure,
			"supplied skills-matrix insert is not a readable docx", err)
	}

	// The insert comes from client tooling with fixed table widths sized for
	// a different page setup. Width fix and margin copy keep it from
	// overflowing the merged page.
	fixed := docx.FixTableWidths(insertDoc)
	if err := docx.CopyPageMargins(cover, insertDoc); err != nil {
		return nil, models.NewPipelineError(models.ErrAssemblyFailure,
			"failed to copy page margins onto insert", err)
	}
	stripped, err := docx.StripLeadingEmptyParagraphs(insertDoc)
	if err != nil {
		return nil, models.NewPipelineError(models.ErrAssemblyFailure,
			"failed to normalize insert body", err)
	}
	a.log.WithFields(logrus.Fields{
		"tables_fixed":      fixed,
		"paragraphs_struck": stripped,
	}).Debug("🔧 Insert normalized for merge")

	if err := docx.Append(cover, insertDoc); err != nil {
		return nil, models.NewPipelineError(models.ErrAssemblyFailure,
			"failed to append insert to cover page", err)
	}
	if err := docx.Append(cover, content); err != nil {
		return nil, models.NewPipelineError(models.ErrAssemblyFailure,
			"failed to append content body", err)
	}

	return a.finalize(cover)
}

func (a *assemblerService) renderTemplate(name string, ctx docx.Context) (*docx.Document, error) {
	path := filepath.Join(a.templatesPath, name)

	doc, err := docx.Open(path)
	if err != nil {
		return nil, models.NewPipelineError(models.ErrAssemblyFailure,
			fmt.Sprintf("failed to open template %s", name), err)
	}
	if err := docx.Render(doc, ctx); err != nil {
		return nil, models.NewPipelineError(models.ErrAssemblyFailure,
			fmt.Sprintf("failed to render template %s", name), err)
	}
	return doc, nil
}

// finalize runs the keyword bolding pass and serializes. Bolding runs on the
// fully assembled document so keywords inside the insert's tables get the
// same treatment as body text.
func (a *assemblerService) finalize(doc *docx.Document) ([]byte, error) {
	bolded, err := docx.BoldMarkedKeywords(doc)
	if err != nil {
		return nil, models.NewPipelineError(models.ErrAssemblyFailure,
			"keyword bolding pass failed", err)
	}
	if bolded > 0 {
		a.log.WithField("paragraphs", bolded).Debug("🖋️ Keyword emphasis applied")
	}

	data, err := doc.Bytes()
	if err != nil {
		return nil, models.NewPipelineError(models.ErrAssemblyFailure,
			"failed to serialize final document", err)
	}
	return data, nil
}
