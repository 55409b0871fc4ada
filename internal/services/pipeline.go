package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"tmc/cv-tailor/internal/models"
	"tmc/cv-tailor/internal/repositories"
)

// GenerateRequest carries one document generation run. InsertPath is empty
// when no skills-matrix insert was uploaded; MatchID is uuid.Nil for the
// full flow.
type GenerateRequest struct {
	CVPath     string
	JobPath    string
	InsertPath string
	Client     models.ClientProfile
	Language   models.Language
	MatchID    uuid.UUID
}

type GenerateResult struct {
	Document []byte
	Filename string
	MatchID  uuid.UUID
	Match    *models.MatchResult
	Degraded bool
}

// PipelineService orchestrates the stages: extract, parse, match, enrich,
// map, assemble. Stages degrade rather than abort where a usable document
// can still come out the other end.
type PipelineService interface {
	Match(ctx context.Context, cvPath, jobPath string) (*repositories.MatchRecord, error)
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error)
}

type pipelineService struct {
	extractor ExtractorService
	parser    ParserService
	matcher   MatcherService
	enricher  EnricherService
	mapper    MapperService
	assembler AssemblerService
	matchRepo repositories.MatchRepository
	analytics AnalyticsService
	log       *logrus.Logger
}

func NewPipelineService(
	extractor ExtractorService,
	parser ParserService,
	matcher MatcherService,
	enricher EnricherService,
	mapper MapperService,
	assembler AssemblerService,
	matchRepo repositories.MatchRepository,
	analytics AnalyticsService,
	log *logrus.Logger,
) PipelineService {
	return &pipelineService{
		extractor: extractor,
		parser:    parser,
		matcher:   matcher,
		enricher:  enricher,
		mapper:    mapper,
		assembler: assembler,
		matchRepo: matchRepo,
		analytics: analytics,
		log:       log,
	}
}

// Match implements PipelineService. The record is stored so a later
// generation call can reuse the analysis without paying for it twice.
func (p *pipelineService) Match(ctx context.Context, cvPath, jobPath string) (*repositories.MatchRecord, error) {
	cvText, jobText, err := p.extractTexts(cvPath, jobPath)
	if err != nil {
		return nil, err
	}

	// A failed parse still leaves the raw text to match against.
	profile, _, err := p.parser.Parse(ctx, cvText)
	if err != nil {
		p.log.WithField("error", err.Error()).Warn("⚠️ Continuing match with empty profile")
	}

	result, err := p.matcher.Match(ctx, cvText, jobText)
	if err != nil {
		return nil, err
	}

	record := &repositories.MatchRecord{
		Profile: profile,
		CVText:  cvText,
		JobText: jobText,
		Result:  result,
	}
	if err := p.matchRepo.Create(record); err != nil {
		return nil, fmt.Errorf("failed to store match: %w", err)
	}

	p.log.WithFields(logrus.Fields{
		"match_id":      record.ID,
		"overall_score": result.OverallScore,
	}).Info("✅ Match stored")

	return record, nil
}

// Generate implements PipelineService.
func (p *pipelineService) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	started := time.Now()

	// The insert requirement is a precondition. Failing it after minutes of
	// model time would waste the whole run, so it is checked before anything
	// else happens.
	if req.Client.RequiresInsert && req.InsertPath == "" {
		return nil, models.NewPipelineError(models.ErrMissingInsert,
			fmt.Sprintf("client %s requires a skills-matrix insert", req.Client.DisplayName), nil)
	}

	lang := req.Client.ResolveLanguage(req.Language)

	profile, content, matchID, reused, err := p.produceContent(ctx, req, lang)
	if err != nil {
		p.analytics.Track(EventFromRun(req.Client, lang, nil, reused, started, "failed"))
		return nil, err
	}

	renderCtx := p.mapper.BuildContext(profile, content, req.Client, lang)

	var document []byte
	if req.InsertPath != "" {
		insert, readErr := os.ReadFile(req.InsertPath)
		if readErr != nil {
			return nil, models.NewPipelineError(models.ErrAssemblyFailure,
				"could not read skills-matrix insert", readErr)
		}
		document, err = p.assembler.AssembleThreePart(req.Client, lang, renderCtx, insert)
	} else {
		document, err = p.assembler.AssembleSingle(req.Client, lang, renderCtx)
	}
	if err != nil {
		p.analytics.Track(EventFromRun(req.Client, lang, content.Match, reused, started, "failed"))
		return nil, err
	}

	result := &GenerateResult{
		Document: document,
		Filename: req.Client.SuggestedFilename(profile.FullName, content.Title, lang),
		MatchID:  matchID,
		Match:    content.Match,
		Degraded: content.Err != nil,
	}

	outcome := "success"
	if result.Degraded {
		outcome = "degraded"
	}
	p.analytics.Track(EventFromRun(req.Client, lang, content.Match, reused, started, outcome))

	p.log.WithFields(logrus.Fields{
		"client":   req.Client.ID,
		"language": lang,
		"filename": result.Filename,
		"degraded": result.Degraded,
		"duration": time.Since(started).String(),
	}).Info("✅ Document generated")

	return result, nil
}

func (p *pipelineService) produceContent(ctx context.Context, req GenerateRequest, lang models.Language) (*models.CandidateProfile, *models.EnrichedContent, uuid.UUID, bool, error) {
	if req.MatchID != uuid.Nil {
		record, err := p.matchRepo.FindByID(req.MatchID)
		if err != nil {
			return nil, nil, uuid.Nil, false, fmt.Errorf("match %s cannot be reused: %w", req.MatchID, err)
		}

		content, err := p.enricher.EnrichWithMatch(ctx, record.Profile, record.JobText, record.Result, lang)
		if err != nil {
			return record.Profile, p.degrade(record.Profile, record.Result, err), record.ID, true, nil
		}
		return record.Profile, content, record.ID, true, nil
	}

	cvText, jobText, err := p.extractTexts(req.CVPath, req.JobPath)
	if err != nil {
		return nil, nil, uuid.Nil, false, err
	}

	profile, _, err := p.parser.Parse(ctx, cvText)
	if err != nil {
		p.log.WithField("error", err.Error()).Warn("⚠️ Continuing generation with empty profile")
	}

	content, err := p.enricher.Enrich(ctx, profile, jobText, cvText, lang)
	if err != nil {
		return profile, p.degrade(profile, nil, err), uuid.Nil, false, nil
	}

	// Store the match so the caller can regenerate in another language or
	// layout without a second analysis round.
	matchID := uuid.Nil
	if content.Match != nil {
		record := &repositories.MatchRecord{
			Profile: profile,
			CVText:  cvText,
			JobText: jobText,
			Result:  content.Match,
		}
		if storeErr := p.matchRepo.Create(record); storeErr == nil {
			matchID = record.ID
		}
	}

	return profile, content, matchID, false, nil
}

// degrade builds a renderable fallback from the raw profile when the
// enrichment round failed. The document still goes out, carrying the
// candidate's own wording instead of the tailored rewrite.
func (p *pipelineService) degrade(profile *models.CandidateProfile, match *models.MatchResult, err error) *models.EnrichedContent {
	var pipeErr *models.PipelineError
	if !errors.As(err, &pipeErr) {
		pipeErr = models.NewPipelineError(models.ErrMalformedOutput, err.Error(), err)
	}
	p.log.WithField("error", err.Error()).Error("❌ Enrichment failed, generating untailored document")

	content := models.DegradedContent(pipeErr)
	content.Title = profile.Title
	content.Summary = profile.Summary
	if len(profile.Skills) > 0 {
		content.SkillGroups = []models.SkillGroup{{Category: "Skills", Bullets: profile.Skills}}
	}
	for _, exp := range profile.Experiences {
		content.Experiences = append(content.Experiences, models.EnrichedExperience{
			Period:           exp.Period,
			Employer:         exp.Employer,
			Title:            exp.Title,
			Responsibilities: exp.Responsibilities,
		})
	}
	if match == nil {
		match = models.FailedMatch("Match analysis unavailable: " + pipeErr.Message)
	}
	content.Match = match
	return content
}

func (p *pipelineService) extractTexts(cvPath, jobPath string) (string, string, error) {
	cvText, err := p.extractor.Extract(cvPath)
	if err != nil {
		return "", "", fmt.Errorf("CV extraction failed: %w", err)
	}
	jobText, err := p.extractor.Extract(jobPath)
	if err != nil {
		return "", "", fmt.Errorf("job description extraction failed: %w", err)
	}
	return cvText, jobText, nil
}
