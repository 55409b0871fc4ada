package services

import (
	"fmt"
	"strings"

	"tmc/cv-tailor/internal/docx"
	"tmc/cv-tailor/internal/models"
)

// MapperService turns the parsed profile and the enriched content into the
// placeholder context consumed by the document templates.
type MapperService interface {
	BuildContext(profile *models.CandidateProfile, content *models.EnrichedContent, client models.ClientProfile, lang models.Language) docx.Context
}

type mapperService struct{}

func NewMapperService() MapperService {
	return &mapperService{}
}

// French display names for the spoken languages that actually show up in the
// CVs we process. An unknown language passes through untranslated.
var frenchLanguageNames = map[string]string{
	"english":    "Anglais",
	"french":     "Français",
	"spanish":    "Espagnol",
	"german":     "Allemand",
	"italian":    "Italien",
	"portuguese": "Portugais",
	"arabic":     "Arabe",
	"mandarin":   "Mandarin",
	"dutch":      "Néerlandais",
	"russian":    "Russe",
}

func (m *mapperService) BuildContext(profile *models.CandidateProfile, content *models.EnrichedContent, client models.ClientProfile, lang models.Language) docx.Context {
	first, last := profile.SplitName()
	if client.Anonymize && last != "" {
		last = strings.ToUpper(last[:1]) + "."
	}

	title := content.Title
	if title == "" {
		title = profile.Title
	}

	ctx := docx.Context{
		"FIRST_NAME":     docx.Text(first),
		"first_name":     docx.Text(first),
		"LAST_NAME":      docx.Text(last),
		"last_name":      docx.Text(last),
		"TITLE":          docx.Text(docx.StripMarkers(title)),
		"title":          docx.Text(docx.StripMarkers(title)),
		"RESIDENCY":      docx.Text(profile.Residence),
		"residency":      docx.Text(profile.Residence),
		"LANGUAGES":      docx.Text(localizedLanguages(profile.Languages, lang)),
		"languages":      docx.Text(localizedLanguages(profile.Languages, lang)),
		"SUMMARY":        docx.Rich(content.Summary),
		"summary":        docx.Rich(content.Summary),
		"SKILLS":         docx.Block(skillsXML(content.SkillGroups)),
		"EXPERIENCES":    docx.Block(experiencesXML(content.Experiences, lang)),
		"EDUCATION":      docx.Block(educationXML(profile.Education)),
		"CERTIFICATIONS": docx.Block(certificationsXML(profile.Certifications)),
		"PROJECTS":       docx.Block(projectsXML(profile.Projects)),
	}
	return ctx
}

func localizedLanguages(languages []string, lang models.Language) string {
	if lang != models.LanguageFrench {
		return strings.Join(languages, ", ")
	}

	translated := make([]string, 0, len(languages))
	for _, l := range languages {
		if fr, ok := frenchLanguageNames[strings.ToLower(strings.TrimSpace(l))]; ok {
			translated = append(translated, fr)
		} else {
			translated = append(translated, l)
		}
	}
	return strings.Join(translated, ", ")
}

// Paragraph builders. Bold markers inside the text survive as literal
// asterisks here; the post-render pass converts them into bold runs so that
// emphasis works the same inside and outside tables.

const (
	bodyProps    = `<w:rPr><w:rFonts w:ascii="Arial" w:hAnsi="Arial"/><w:sz w:val="20"/></w:rPr>`
	headingProps = `<w:rPr><w:rFonts w:ascii="Arial" w:hAnsi="Arial"/><w:b/><w:sz w:val="20"/></w:rPr>`
)

func paraXML(runProps, text string) string {
	if strings.TrimSpace(text) == "" {
		return "<w:p/>"
	}
	return fmt.Sprintf(`<w:p><w:r>%s<w:t xml:space="preserve">%s</w:t></w:r></w:p>`,
		runProps, docx.EscapeXML(text))
}

func bulletXML(text string) string {
	return paraXML(bodyProps, "• "+text)
}

func skillsXML(groups []models.SkillGroup) string {
	var sb strings.Builder
	for i, g := range groups {
		if i > 0 {
			sb.WriteString("<w:p/>")
		}
		sb.WriteString(paraXML(headingProps, g.Category))
		for _, b := range g.Bullets {
			sb.WriteString(bulletXML(b))
		}
	}
	return sb.String()
}

func experiencesXML(experiences []models.EnrichedExperience, lang models.Language) string {
	envLabel := "Environment: "
	if lang == models.LanguageFrench {
		envLabel = "Environnement : "
	}

	var sb strings.Builder
	for i, exp := range experiences {
		if i > 0 {
			sb.WriteString("<w:p/>")
		}
		header := exp.Title
		if exp.Employer != "" {
			header += " | " + exp.Employer
		}
		if exp.Period != "" {
			header += " | " + exp.Period
		}
		sb.WriteString(paraXML(headingProps, header))
		for _, r := range exp.Responsibilities {
			sb.WriteString(bulletXML(r))
		}
		if exp.Environment != "" {
			sb.WriteString(paraXML(bodyProps, envLabel+exp.Environment))
		}
	}
	return sb.String()
}

func educationXML(entries []models.Education) string {
	var sb strings.Builder
	for _, e := range entries {
		line := e.Degree
		if e.Institution != "" {
			line += " | " + e.Institution
		}
		if e.Country != "" {
			line += ", " + e.Country
		}
		if e.Year != "" {
			line += " | " + e.Year
		}
		sb.WriteString(paraXML(bodyProps, line))
	}
	return sb.String()
}

func certificationsXML(entries []models.Certification) string {
	var sb strings.Builder
	for _, c := range entries {
		line := c.Name
		if c.Issuer != "" {
			line += " | " + c.Issuer
		}
		if c.Year != "" {
			line += " | " + c.Year
		}
		sb.WriteString(paraXML(bodyProps, line))
	}
	return sb.String()
}

func projectsXML(entries []models.Project) string {
	var sb strings.Builder
	for _, p := range entries {
		line := p.Name
		if p.Description != "" {
			line += " | " + p.Description
		}
		sb.WriteString(paraXML(bodyProps, line))
	}
	return sb.String()
}
