package models

import "strings"

// CandidateProfile is the structured record extracted from a resume.
// It is created once per pipeline run and never mutated afterwards; the
// enricher derives a new structure instead of rewriting this one.
type CandidateProfile struct {
	FullName       string          `json:"full_name"`
	Title          string          `json:"professional_title"`
	Summary        string          `json:"profile_summary"`
	Residence      string          `json:"residence"`
	Languages      []string        `json:"languages"`
	Skills         []string        `json:"skills"`
	Experiences    []Experience    `json:"experiences"`
	Education      []Education     `json:"education"`
	Certifications []Certification `json:"certifications"`
	Projects       []Project       `json:"projects"`
}

type Experience struct {
	Period           string   `json:"period"`
	Employer         string   `json:"employer"`
	Title            string   `json:"title"`
	Responsibilities []string `json:"responsibilities"`
}

type Education struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Year        string `json:"year"`
	Country     string `json:"country"`
}

type Certification struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer"`
	Year   string `json:"year"`
}

type Project struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Sentinel values used when the resume text carries no usable information.
const (
	ResidenceNotSpecified = "Location not specified"
	LanguageNotSpecified  = "Not specified"
)

// Normalize enforces the list-fields-never-nil invariant and fills the
// residence/language sentinels. Downstream renderers iterate every list
// without nil checks.
func (p *CandidateProfile) Normalize() {
	if p.Residence == "" {
		p.Residence = ResidenceNotSpecified
	}
	if len(p.Languages) == 0 {
		p.Languages = []string{LanguageNotSpecified}
	}
	if p.Skills == nil {
		p.Skills = []string{}
	}
	if p.Experiences == nil {
		p.Experiences = []Experience{}
	}
	for i := range p.Experiences {
		if p.Experiences[i].Responsibilities == nil {
			p.Experiences[i].Responsibilities = []string{}
		}
	}
	if p.Education == nil {
		p.Education = []Education{}
	}
	if p.Certifications == nil {
		p.Certifications = []Certification{}
	}
	if p.Projects == nil {
		p.Projects = []Project{}
	}
}

// EmptyProfile returns the degraded record handed to downstream stages when
// parsing fails. Every list field is present and empty.
func EmptyProfile() *CandidateProfile {
	p := &CandidateProfile{}
	p.Normalize()
	return p
}

// IsEmpty reports whether the profile carries no extracted content at all.
func (p *CandidateProfile) IsEmpty() bool {
	return p.FullName == "" && p.Title == "" && len(p.Skills) == 0 && len(p.Experiences) == 0
}

// SplitName separates the full name into first name and last name. The first
// token is treated as the given name, everything after it as the surname.
func (p *CandidateProfile) SplitName() (first, last string) {
	parts := strings.Fields(p.FullName)
	switch {
	case len(parts) >= 2:
		return parts[0], strings.Join(parts[1:], " ")
	case len(parts) == 1:
		return parts[0], ""
	default:
		return "", ""
	}
}
