package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"tmc/cv-tailor/internal/models"
)

type EnricherService interface {
	// Enrich runs the full flow: match against the job, then rewrite content.
	Enrich(ctx context.Context, profile *models.CandidateProfile, jobText, cvText string, lang models.Language) (*models.EnrichedContent, error)
	// EnrichWithMatch reuses an existing match result instead of re-scoring.
	// The supplied result is carried into the output untouched.
	EnrichWithMatch(ctx context.Context, profile *models.CandidateProfile, jobText string, match *models.MatchResult, lang models.Language) (*models.EnrichedContent, error)
}

type enricherService struct {
	llm     LLMService
	matcher MatcherService
	prompts *PromptBuilder
	log     *logrus.Logger
}

func NewEnricherService(llm LLMService, matcher MatcherService, prompts *PromptBuilder, log *logrus.Logger) EnricherService {
	return &enricherService{
		llm:     llm,
		matcher: matcher,
		prompts: prompts,
		log:     log,
	}
}

func (e *enricherService) Enrich(ctx context.Context, profile *models.CandidateProfile, jobText, cvText string, lang models.Language) (*models.EnrichedContent, error) {
	match, err := e.matcher.Match(ctx, cvText, jobText)
	if err != nil {
		return nil, fmt.Errorf("matching stage failed: %w", err)
	}

	content, usage, err := e.generate(ctx, profile, jobText, match, lang)
	if err != nil {
		return nil, err
	}
	match.Usage.Add(usage)
	content.Match = match
	return content, nil
}

func (e *enricherService) EnrichWithMatch(ctx context.Context, profile *models.CandidateProfile, jobText string, match *models.MatchResult, lang models.Language) (*models.EnrichedContent, error) {
	content, _, err := e.generate(ctx, profile, jobText, match, lang)
	if err != nil {
		return nil, err
	}
	// The reused result is passed through exactly as supplied; generation
	// usage is not folded into it.
	reused := *match
	content.Match = &reused
	return content, nil
}

func (e *enricherService) generate(ctx context.Context, profile *models.CandidateProfile, jobText string, match *models.MatchResult, lang models.Language) (*models.EnrichedContent, models.TokenUsage, error) {
	profileJSON, err := json.Marshal(profile)
	if err != nil {
		return nil, models.TokenUsage{}, fmt.Errorf("failed to encode profile: %w", err)
	}
	matchJSON, err := json.Marshal(match)
	if err != nil {
		return nil, models.TokenUsage{}, fmt.Errorf("failed to encode match result: %w", err)
	}

	var content models.EnrichedContent
	prompt := e.prompts.BuildEnrichmentPrompt(string(profileJSON), jobText, string(matchJSON), lang)
	usage, err := e.llm.CompleteJSON(ctx, prompt, &content)
	if err != nil {
		return nil, usage, err
	}

	// Padding missing slices keeps the renderer from special-casing nils.
	if content.SkillGroups == nil {
		content.SkillGroups = []models.SkillGroup{}
	}
	if content.Experiences == nil {
		content.Experiences = []models.EnrichedExperience{}
	}
	if content.Keywords == nil {
		content.Keywords = []string{}
	}

	e.log.WithFields(logrus.Fields{
		"title":        content.Title,
		"skill_groups": len(content.SkillGroups),
		"experiences":  len(content.Experiences),
		"language":     lang,
		"tokens_in":    usage.InputTokens,
		"tokens_out":   usage.OutputTokens,
	}).Info("✅ Content enriched")

	return &content, usage, nil
}
