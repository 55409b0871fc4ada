package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"tmc/cv-tailor/internal/models"
)

type ParserService interface {
	Parse(ctx context.Context, cvText string) (*models.CandidateProfile, models.TokenUsage, error)
}

type parserService struct {
	llm     LLMService
	prompts *PromptBuilder
	log     *logrus.Logger
}

func NewParserService(llm LLMService, prompts *PromptBuilder, log *logrus.Logger) ParserService {
	return &parserService{
		llm:     llm,
		prompts: prompts,
		log:     log,
	}
}

// Parse implements ParserService. A failed model round degrades to an empty
// profile rather than aborting the run; downstream stages render sentinels
// for the missing fields.
func (p *parserService) Parse(ctx context.Context, cvText string) (*models.CandidateProfile, models.TokenUsage, error) {
	var profile models.CandidateProfile

	usage, err := p.llm.CompleteJSON(ctx, p.prompts.BuildCVParsePrompt(cvText), &profile)
	if err != nil {
		p.log.WithField("error", err.Error()).Error("❌ CV parsing failed, continuing with empty profile")
		return models.EmptyProfile(), usage, err
	}

	profile.Normalize()
	p.log.WithFields(logrus.Fields{
		"candidate":   profile.FullName,
		"experiences": len(profile.Experiences),
		"skills":      len(profile.Skills),
	}).Info("✅ CV parsed")

	return &profile, usage, nil
}
