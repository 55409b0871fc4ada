package models

import "testing"

func TestParseLanguage(t *testing.T) {
	tests := []struct {
		in      string
		want    Language
		wantErr bool
	}{
		{"French", LanguageFrench, false},
		{"fr", LanguageFrench, false},
		{"english", LanguageEnglish, false},
		{"EN", LanguageEnglish, false},
		{"", LanguageEnglish, false},
		{"german", "", true},
	}
	for _, tt := range tests {
		got, err := ParseLanguage(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLanguage(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLanguage(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestResolveLanguageForcing(t *testing.T) {
	ms, _ := ClientProfileByID("morgan-stanley")
	if lang := ms.ResolveLanguage(LanguageFrench); lang != LanguageEnglish {
		t.Errorf("morgan-stanley must force English, got %s", lang)
	}

	dj, _ := ClientProfileByID("desjardins")
	if lang := dj.ResolveLanguage(LanguageEnglish); lang != LanguageFrench {
		t.Errorf("desjardins must force French, got %s", lang)
	}

	cae, _ := ClientProfileByID("cae")
	if lang := cae.ResolveLanguage(LanguageFrench); lang != LanguageFrench {
		t.Errorf("cae must honor the caller's choice, got %s", lang)
	}
}

func TestClientProfileByIDUnknown(t *testing.T) {
	if _, err := ClientProfileByID("acme"); err == nil {
		t.Fatal("expected error for unknown client")
	}
}

func TestTemplateNames(t *testing.T) {
	ms, _ := ClientProfileByID("morgan-stanley")
	if got := ms.TemplateName(LanguageEnglish); got != "TMC_NA_template_EN_Anonymise.docx" {
		t.Errorf("anonymized template = %q", got)
	}
	if got := ms.CoverTemplateName(LanguageEnglish); got != "TMC_NA_template_EN_Anonymise_CoverPage.docx" {
		t.Errorf("cover template = %q", got)
	}

	dj, _ := ClientProfileByID("desjardins")
	if got := dj.TemplateName(LanguageFrench); got != "TMC_NA_template_FR.docx" {
		t.Errorf("open template = %q", got)
	}
}

func TestSuggestedFilename(t *testing.T) {
	tests := []struct {
		client string
		name   string
		title  string
		lang   Language
		want   string
	}{
		{"desjardins", "Jean Tremblay", "Architecte Logiciel", LanguageFrench,
			"TMC - Jean TREMBLAY - Architecte Logiciel.docx"},
		{"cae", "Jane van Doe", "Pilot Instructor", LanguageEnglish,
			"CV - Jane van DOE - Pilot Instructor (EN).docx"},
		{"morgan-stanley", "Li Wei", "Quant Developer / C++", LanguageEnglish,
			"CV - Li WEI - Quant Developer  C.docx"},
		{"desjardins", "", "", LanguageFrench,
			"TMC - Candidate - Profile.docx"},
	}

	for _, tt := range tests {
		client, err := ClientProfileByID(tt.client)
		if err != nil {
			t.Fatalf("client %s: %v", tt.client, err)
		}
		if got := client.SuggestedFilename(tt.name, tt.title, tt.lang); got != tt.want {
			t.Errorf("SuggestedFilename(%q, %q) = %q, want %q", tt.name, tt.title, got, tt.want)
		}
	}
}
