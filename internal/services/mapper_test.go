package services

import (
	"strings"
	"testing"

	"tmc/cv-tailor/internal/docx"
	"tmc/cv-tailor/internal/models"
)

// renderToString binds a single context value into a one-placeholder document
// and reads the resulting text back.
func renderToString(t *testing.T, ctx docx.Context, key string) string {
	t.Helper()
	doc, err := docx.OpenBytes(minimalDocx(t, "{{"+key+"}}"))
	if err != nil {
		t.Fatalf("open test doc: %v", err)
	}
	if err := docx.Render(doc, docx.Context{key: ctx[key]}); err != nil {
		t.Fatalf("render %s: %v", key, err)
	}
	data, err := doc.Bytes()
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	text, err := docx.ExtractText(data)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	return text
}

func mapperProfile() *models.CandidateProfile {
	p := &models.CandidateProfile{
		FullName:  "Marie Tremblay",
		Title:     "Data Engineer",
		Residence: "Montréal, QC",
		Languages: []string{"French", "English", "Klingon"},
		Skills:    []string{"Python"},
	}
	p.Normalize()
	return p
}

func mapperContent() *models.EnrichedContent {
	return &models.EnrichedContent{
		Title:   "Senior Data Engineer",
		Summary: "Designs **Spark** pipelines.",
		SkillGroups: []models.SkillGroup{
			{Category: "Data", Bullets: []string{"Spark", "Airflow"}},
		},
		Experiences: []models.EnrichedExperience{
			{Period: "2021 - 2024", Employer: "Acme", Title: "Engineer",
				Responsibilities: []string{"Built **ETL** jobs"}, Environment: "Spark, Python"},
		},
		Keywords: []string{"Spark"},
	}
}

func TestBuildContextNameSplitAndAnonymization(t *testing.T) {
	mapper := NewMapperService()
	anonymous := mustClientProfile(t, "morgan-stanley")

	ctx := mapper.BuildContext(mapperProfile(), mapperContent(), anonymous, models.LanguageEnglish)

	first := renderToString(t, ctx, "FIRST_NAME")
	last := renderToString(t, ctx, "LAST_NAME")
	if first != "Marie" {
		t.Errorf("first = %q", first)
	}
	if last != "T." {
		t.Errorf("anonymized last = %q, want initial", last)
	}
}

func TestBuildContextFullNameWhenNotAnonymized(t *testing.T) {
	mapper := NewMapperService()
	open := mustClientProfile(t, "desjardins")

	ctx := mapper.BuildContext(mapperProfile(), mapperContent(), open, models.LanguageFrench)
	if last := renderToString(t, ctx, "LAST_NAME"); last != "Tremblay" {
		t.Errorf("last = %q", last)
	}
}

func TestLocalizedLanguages(t *testing.T) {
	got := localizedLanguages([]string{"French", "English", "Klingon"}, models.LanguageFrench)
	if got != "Français, Anglais, Klingon" {
		t.Errorf("french localization = %q", got)
	}

	got = localizedLanguages([]string{"French", "English"}, models.LanguageEnglish)
	if got != "French, English" {
		t.Errorf("english passthrough = %q", got)
	}
}

func TestSkillsXMLStructure(t *testing.T) {
	xml := skillsXML(mapperContent().SkillGroups)

	if !strings.Contains(xml, "<w:b/>") {
		t.Errorf("category heading not bold: %s", xml)
	}
	if !strings.Contains(xml, "• Spark") || !strings.Contains(xml, "• Airflow") {
		t.Errorf("bullets missing: %s", xml)
	}
}

func TestExperiencesXMLKeepsMarkersForPostPass(t *testing.T) {
	xml := experiencesXML(mapperContent().Experiences, models.LanguageEnglish)

	// Inline markers survive as literal text; the post-render pass resolves
	// them after the document is assembled.
	if !strings.Contains(xml, "**ETL**") {
		t.Errorf("markers resolved too early: %s", xml)
	}
	if !strings.Contains(xml, "Engineer | Acme | 2021 - 2024") {
		t.Errorf("header line wrong: %s", xml)
	}
	if !strings.Contains(xml, "Environment: Spark, Python") {
		t.Errorf("environment line wrong: %s", xml)
	}
}

func TestExperiencesXMLFrenchEnvironmentLabel(t *testing.T) {
	xml := experiencesXML(mapperContent().Experiences, models.LanguageFrench)
	if !strings.Contains(xml, "Environnement : Spark, Python") {
		t.Errorf("french label missing: %s", xml)
	}
}

func TestBuildContextTitleFallsBackToProfile(t *testing.T) {
	mapper := NewMapperService()
	content := mapperContent()
	content.Title = ""

	ctx := mapper.BuildContext(mapperProfile(), content, mustClientProfile(t, "desjardins"), models.LanguageEnglish)
	if title := renderToString(t, ctx, "TITLE"); title != "Data Engineer" {
		t.Errorf("title fallback = %q", title)
	}
}

func mustClientProfile(t *testing.T, id string) models.ClientProfile {
	t.Helper()
	c, err := models.ClientProfileByID(id)
	if err != nil {
		t.Fatalf("client %s: %v", id, err)
	}
	return c
}
