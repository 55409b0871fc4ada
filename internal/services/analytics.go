package services

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"tmc/cv-tailor/internal/config"
	"tmc/cv-tailor/internal/models"
)

// AnalyticsEvent is the per-run record shipped to the tracking webhook.
type AnalyticsEvent struct {
	Client       string  `json:"client"`
	Language     string  `json:"language"`
	OverallScore int     `json:"overall_score"`
	Reused       bool    `json:"reused_match"`
	InputTokens  int64   `json:"input_tokens"`
	OutputTokens int64   `json:"output_tokens"`
	CostUSD      float64 `json:"cost_usd"`
	DurationMS   int64   `json:"duration_ms"`
	Outcome      string  `json:"outcome"`
}

// AnalyticsService ships run metadata to an external webhook. Delivery is
// fire-and-forget: the pipeline result never waits on it and a sink outage
// is at most a warning in the logs.
type AnalyticsService interface {
	Track(event AnalyticsEvent)
}

type analyticsService struct {
	webhookURL string
	token      string
	client     *http.Client
	log        *logrus.Logger
}

func NewAnalyticsService(cfg config.AnalyticsConfig, log *logrus.Logger) AnalyticsService {
	return &analyticsService{
		webhookURL: cfg.WebhookURL,
		token:      cfg.Token,
		client:     &http.Client{Timeout: 10 * time.Second},
		log:        log,
	}
}

// Track implements AnalyticsService.
func (a *analyticsService) Track(event AnalyticsEvent) {
	if a.webhookURL == "" {
		return
	}

	go func() {
		body, err := json.Marshal(event)
		if err != nil {
			return
		}

		req, err := http.NewRequest(http.MethodPost, a.webhookURL, bytes.NewReader(body))
		if err != nil {
			return
		}
		req.Header.Set("Content-Type", "application/json")
		if a.token != "" {
			req.Header.Set("Authorization", "Bearer "+a.token)
		}

		resp, err := a.client.Do(req)
		if err != nil {
			a.log.WithField("error", err.Error()).Warn("⚠️ Analytics delivery failed")
			return
		}
		resp.Body.Close()

		if resp.StatusCode >= 300 {
			a.log.WithField("status", resp.StatusCode).Warn("⚠️ Analytics sink rejected event")
		}
	}()
}

// EventFromRun builds the analytics payload from a finished run.
func EventFromRun(client models.ClientProfile, lang models.Language, match *models.MatchResult, reused bool, started time.Time, outcome string) AnalyticsEvent {
	event := AnalyticsEvent{
		Client:     client.ID,
		Language:   string(lang),
		Reused:     reused,
		DurationMS: time.Since(started).Milliseconds(),
		Outcome:    outcome,
	}
	if match != nil {
		event.OverallScore = match.OverallScore
		event.InputTokens = match.Usage.InputTokens
		event.OutputTokens = match.Usage.OutputTokens
		event.CostUSD = match.Usage.EstimatedCostUSD
	}
	return event
}
