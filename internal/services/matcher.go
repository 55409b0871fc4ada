package services

import (
	"context"
	"math"

	"github.com/sirupsen/logrus"

	"tmc/cv-tailor/internal/models"
)

// Accepted drift between the model's claimed overall score and the value
// recomputed from the domain scores. Anything beyond this is overwritten.
const scoreTolerance = 2

type MatcherService interface {
	Match(ctx context.Context, cvText, jobText string) (*models.MatchResult, error)
}

type matcherService struct {
	llm     LLMService
	prompts *PromptBuilder
	log     *logrus.Logger
}

func NewMatcherService(llm LLMService, prompts *PromptBuilder, log *logrus.Logger) MatcherService {
	return &matcherService{
		llm:     llm,
		prompts: prompts,
		log:     log,
	}
}

// Match implements MatcherService. The raw model output is never trusted:
// weights are renormalized to sum 100, scores clamped, and the overall score
// recomputed from the domain contributions before the result leaves here.
func (m *matcherService) Match(ctx context.Context, cvText, jobText string) (*models.MatchResult, error) {
	var result models.MatchResult

	usage, err := m.llm.CompleteJSON(ctx, m.prompts.BuildMatchingPrompt(cvText, jobText), &result)
	result.Usage = usage
	if err != nil {
		return nil, err
	}

	m.reconcile(&result)

	m.log.WithFields(logrus.Fields{
		"overall_score": result.OverallScore,
		"domains":       len(result.Domains),
	}).Info("✅ Match analysis complete")

	return &result, nil
}

func (m *matcherService) reconcile(result *models.MatchResult) {
	for i := range result.Domains {
		d := &result.Domains[i]
		d.RawScore = clampScore(d.RawScore)
		if d.WeightPct < 0 {
			d.WeightPct = 0
		}
	}

	normalizeWeights(result.Domains)

	for i := range result.Domains {
		d := &result.Domains[i]
		d.MaxScore = d.WeightPct
		d.Verdict = models.VerdictFor(d.RawScore)
	}

	var total float64
	for _, d := range result.Domains {
		total += d.Contribution()
	}
	recomputed := clampScore(int(math.Round(total)))

	if diff := recomputed - result.OverallScore; diff > scoreTolerance || diff < -scoreTolerance {
		m.log.WithFields(logrus.Fields{
			"claimed":    result.OverallScore,
			"recomputed": recomputed,
		}).Debug("🔧 Overall score corrected from domain contributions")
		result.OverallScore = recomputed
	}
	result.OverallScore = clampScore(result.OverallScore)
}

// normalizeWeights rescales domain weights so they sum to exactly 100,
// absorbing the integer rounding remainder into the heaviest domain.
func normalizeWeights(domains []models.DomainScore) {
	if len(domains) == 0 {
		return
	}

	sum := 0
	for _, d := range domains {
		sum += d.WeightPct
	}
	if sum == 100 {
		return
	}
	if sum == 0 {
		// Degenerate output, split evenly.
		even := 100 / len(domains)
		for i := range domains {
			domains[i].WeightPct = even
		}
		domains[0].WeightPct += 100 - even*len(domains)
		return
	}

	rescaled := 0
	heaviest := 0
	for i := range domains {
		domains[i].WeightPct = domains[i].WeightPct * 100 / sum
		rescaled += domains[i].WeightPct
		if domains[i].WeightPct > domains[heaviest].WeightPct {
			heaviest = i
		}
	}
	domains[heaviest].WeightPct += 100 - rescaled
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
