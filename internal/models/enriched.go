package models

// EnrichedContent is the tailored rewrite of a candidate profile for one job
// description and target language. String fields may carry inline **bold**
// markers that the document layer resolves into runs.
type EnrichedContent struct {
	Title       string               `json:"title"`
	Summary     string               `json:"summary"`
	SkillGroups []SkillGroup         `json:"skill_groups"`
	Experiences []EnrichedExperience `json:"experiences"`
	// Keywords is the flat list for the post-render bolding pass, distinct
	// from the inline markers already embedded above.
	Keywords []string `json:"keywords"`
	// Match is embedded in full mode; in reuse mode it is a verbatim copy of
	// the result supplied by the caller.
	Match *MatchResult `json:"match,omitempty"`
	// Err marks a degraded structure produced after a gateway failure.
	Err *PipelineError `json:"error,omitempty"`
}

// SkillGroup keeps category ordering stable; a map would randomize the
// rendered column.
type SkillGroup struct {
	Category string   `json:"category"`
	Bullets  []string `json:"bullets"`
}

type EnrichedExperience struct {
	Period           string   `json:"period"`
	Employer         string   `json:"employer"`
	Title            string   `json:"title"`
	Responsibilities []string `json:"responsibilities"`
	Environment      string   `json:"environment"`
}

// DegradedContent returns the empty structure handed back when enrichment
// fails, with the failure recorded so callers can pattern-match on it.
func DegradedContent(err *PipelineError) *EnrichedContent {
	return &EnrichedContent{
		SkillGroups: []SkillGroup{},
		Experiences: []EnrichedExperience{},
		Keywords:    []string{},
		Err:         err,
	}
}
