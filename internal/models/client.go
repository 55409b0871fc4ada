package models

import (
	"fmt"
	"regexp"
	"strings"
)

// Language is the target output language for enrichment and template
// selection.
type Language string

const (
	LanguageFrench  Language = "French"
	LanguageEnglish Language = "English"
)

// ParseLanguage accepts the wire values "French"/"English" (case-insensitive)
// plus the short forms "fr"/"en".
func ParseLanguage(s string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "french", "fr":
		return LanguageFrench, nil
	case "english", "en", "":
		return LanguageEnglish, nil
	default:
		return "", fmt.Errorf("unknown language %q", s)
	}
}

// Code returns the two-letter template suffix (FR/EN).
func (l Language) Code() string {
	if l == LanguageFrench {
		return "FR"
	}
	return "EN"
}

// ClientProfile describes one client's delivery conventions: template family,
// language constraints and whether the three-part layout with the externally
// supplied skills-matrix insert is required.
type ClientProfile struct {
	ID             string
	DisplayName    string
	Anonymize      bool
	ForcedLanguage Language // empty means the caller chooses
	RequiresInsert bool
	FilenamePrefix string
	LanguageSuffix bool // append "(FR)"/"(EN)" to the filename
}

var clientProfiles = map[string]ClientProfile{
	"morgan-stanley": {
		ID:             "morgan-stanley",
		DisplayName:    "Morgan Stanley",
		Anonymize:      true,
		ForcedLanguage: LanguageEnglish,
		RequiresInsert: true,
		FilenamePrefix: "CV",
	},
	"cae": {
		ID:             "cae",
		DisplayName:    "CAE",
		Anonymize:      true,
		FilenamePrefix: "CV",
		LanguageSuffix: true,
	},
	"desjardins": {
		ID:             "desjardins",
		DisplayName:    "Desjardins",
		ForcedLanguage: LanguageFrench,
		FilenamePrefix: "TMC",
	},
}

// ClientProfileByID looks up a client profile by its identifier.
func ClientProfileByID(id string) (ClientProfile, error) {
	p, ok := clientProfiles[strings.ToLower(strings.TrimSpace(id))]
	if !ok {
		return ClientProfile{}, fmt.Errorf("unknown client profile %q", id)
	}
	return p, nil
}

// ResolveLanguage applies the client's language constraint to the caller's
// choice.
func (c ClientProfile) ResolveLanguage(requested Language) Language {
	if c.ForcedLanguage != "" {
		return c.ForcedLanguage
	}
	return requested
}

// TemplateName returns the template file for the standard single-part layout.
func (c ClientProfile) TemplateName(lang Language) string {
	if c.Anonymize {
		return fmt.Sprintf("TMC_NA_template_%s_Anonymise.docx", lang.Code())
	}
	return fmt.Sprintf("TMC_NA_template_%s.docx", lang.Code())
}

// CoverTemplateName and ContentTemplateName name the sub-templates of the
// three-part layout.
func (c ClientProfile) CoverTemplateName(lang Language) string {
	return fmt.Sprintf("TMC_NA_template_%s_Anonymise_CoverPage.docx", lang.Code())
}

func (c ClientProfile) ContentTemplateName(lang Language) string {
	return fmt.Sprintf("TMC_NA_template_%s_Anonymise_Content.docx", lang.Code())
}

var filenameTitleRe = regexp.MustCompile(`[^\w\s-]`)

// SuggestedFilename assembles the delivery filename from candidate name and
// title per the client's convention: "Prefix - First LAST - Title[ (EN)].docx".
func (c ClientProfile) SuggestedFilename(fullName, title string, lang Language) string {
	name := strings.TrimSpace(fullName)
	parts := strings.Fields(name)
	if len(parts) >= 2 {
		given := strings.Join(parts[:len(parts)-1], " ")
		surname := strings.ToUpper(parts[len(parts)-1])
		name = given + " " + surname
	}
	if name == "" {
		name = "Candidate"
	}

	cleanTitle := strings.TrimSpace(filenameTitleRe.ReplaceAllString(title, ""))
	if cleanTitle == "" {
		cleanTitle = "Profile"
	}

	filename := fmt.Sprintf("%s - %s - %s", c.FilenamePrefix, name, cleanTitle)
	if c.LanguageSuffix {
		filename += fmt.Sprintf(" (%s)", lang.Code())
	}
	return filename + ".docx"
}
