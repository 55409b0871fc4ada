package services

import (
	"fmt"

	"tmc/cv-tailor/internal/models"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildCVParsePrompt creates the prompt that turns raw CV text into the
// structured candidate profile.
func (pb *PromptBuilder) BuildCVParsePrompt(cvText string) string {
	return fmt.Sprintf(`You are a CV parsing engine. Extract the candidate's profile from the raw CV text below.

RAW CV TEXT:
%s

Rules:
- Extract facts only. Never invent information that is not in the text.
- If the candidate's place of residence does not appear, use exactly "Location not specified".
- If spoken languages do not appear, use a single entry exactly "Not specified".
- Keep experience entries in the order they appear in the CV (most recent first if the CV does so).
- Responsibilities are short bullet statements, one fact each, copied or lightly normalized from the CV.

Return your response in the following JSON format:
{
  "full_name": "<full name as written>",
  "professional_title": "<current professional title>",
  "profile_summary": "<professional summary, empty string if none>",
  "residence": "<city/region or the sentinel above>",
  "languages": ["<spoken language>", ...],
  "skills": ["<skill>", ...],
  "experiences": [
    {
      "period": "<e.g. 2021 - 2024>",
      "employer": "<company name>",
      "title": "<role title>",
      "responsibilities": ["<bullet>", ...]
    }
  ],
  "education": [
    {"degree": "<degree>", "institution": "<school>", "year": "<year>", "country": "<country or empty>"}
  ],
  "certifications": [
    {"name": "<certification>", "issuer": "<issuer or empty>", "year": "<year or empty>"}
  ],
  "projects": [
    {"name": "<project>", "description": "<one-line description>"}
  ]
}

Return ONLY the JSON object, no markdown fences, no commentary.`, cvText)
}

// BuildMatchingPrompt creates the prompt that scores a candidate against a
// job description across weighted requirement domains.
func (pb *PromptBuilder) BuildMatchingPrompt(cvText, jobText string) string {
	return fmt.Sprintf(`You are a senior technical recruiter scoring how well a candidate matches a specific job opening.

JOB DESCRIPTION:
%s

CANDIDATE CV:
%s

Your task:
1. Identify between 5 and 8 requirement domains from the job description (e.g. a core technology, a methodology, domain knowledge, language requirements, seniority).
2. Assign each domain a weight in percent reflecting its importance in the job description. Weights MUST sum to exactly 100.
3. Score the candidate 0-100 in each domain based STRICTLY on evidence in the CV:
   - 85-100: explicit, recent, hands-on evidence with depth.
   - 65-84: clear evidence but partial depth or recency.
   - 40-64: adjacent or dated evidence, transferable at best.
   - 0-39: no credible evidence.
   When in doubt between two tiers, pick the LOWER one. Absence of evidence is a low score, never the benefit of the doubt.
4. Compute the overall score as the weight-weighted average of the domain scores.
5. Write a synthesis of 3-5 sentences: strongest domains, biggest gaps, overall fit.

All analysis text (domain names, rationales, synthesis) must be written in English regardless of the CV language.

Return your response in the following JSON format:
{
  "overall_score": <0-100 integer>,
  "domains": [
    {
      "domain": "<domain name>",
      "weight_pct": <integer, all weights sum to 100>,
      "raw_score": <0-100 integer>,
      "rationale": "<1-2 sentences citing concrete CV evidence or its absence>"
    }
  ],
  "synthesis": "<3-5 sentence overall assessment>"
}

Return ONLY the JSON object, no markdown fences, no commentary.`, jobText, cvText)
}

// BuildEnrichmentPrompt creates the prompt that rewrites the candidate's
// content targeted at the job. The match result steers which strengths get
// emphasized; lang controls the output language of the generated content.
func (pb *PromptBuilder) BuildEnrichmentPrompt(profileJSON, jobText, matchJSON string, lang models.Language) string {
	langName := "English"
	if lang == models.LanguageFrench {
		langName = "French"
	}

	return fmt.Sprintf(`You are an expert CV writer tailoring a candidate's profile for a specific job opening.

JOB DESCRIPTION:
%s

CANDIDATE PROFILE (structured):
%s

MATCH ANALYSIS (how the candidate scored against this job):
%s

Write ALL generated content in %s.

Your task:
1. "title": a professional headline of 3 to 5 words aligned with the job title, grounded in what the candidate actually is.
2. "summary": a flowing narrative of 5 to 6 lines tuned to this job, never a bullet list. Wrap 3 to 5 technology terms in **double asterisks**: technology terms ONLY, never generic verbs, never more than 5.
3. "skill_groups": 5 to 6 skill categories. Each category has 3 to 5 bullets, each bullet at most 150 characters with 2 to 3 technology terms wrapped in **double asterisks**, built ONLY from skills the candidate demonstrably has. Order categories from most to least relevant to the job.
4. "experiences": every experience from the profile, same order, same period/employer/title. Rewrite responsibilities to lead with what matters for this job, keeping at most 5 to 6 one-line bullets per role (drop the least job-relevant first). Wrap isolated technology tokens in **double asterisks**; never wrap a whole sentence or phrase. Never invent responsibilities. Add an "environment" line listing the technologies of that position when the profile shows them, empty string otherwise.
5. "keywords": 8 to 15 single words or short phrases from the job description that the candidate legitimately covers.

Strict rules:
- Never fabricate skills, employers, dates or achievements.
- Emphasis markers are exactly **text**, no other markup.
- Keep the candidate's factual record intact; only wording, ordering and emphasis change.

Return your response in the following JSON format:
{
  "title": "<3-5 word headline>",
  "summary": "<summary with **keyword** markers>",
  "skill_groups": [
    {"category": "<category name>", "bullets": ["<bullet>", ...]}
  ],
  "experiences": [
    {
      "period": "<unchanged>",
      "employer": "<unchanged>",
      "title": "<role title>",
      "responsibilities": ["<rewritten bullet with **keyword** markers>", ...],
      "environment": "<comma-separated technologies or empty>"
    }
  ],
  "keywords": ["<keyword>", ...]
}

Return ONLY the JSON object, no markdown fences, no commentary.`,
		jobText, profileJSON, matchJSON, langName)
}
